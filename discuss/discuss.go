package discuss

import (
	"context"
	"fmt"

	"github.com/nasermirzaei89/agora/votes"
)

type VoteStates interface {
	States(ctx context.Context, voterID string, kind votes.TargetKind, targetIDs []string) (map[string]votes.State, error)
}

type Service struct {
	commentRepo CommentRepository
	voteStates  VoteStates
}

func NewService(commentRepo CommentRepository, voteStates VoteStates) *Service {
	return &Service{
		commentRepo: commentRepo,
		voteStates:  voteStates,
	}
}

// GetComment returns a live comment. Removed comments are reported as not found.
func (svc *Service) GetComment(ctx context.Context, commentID string) (*Comment, error) {
	comment, err := svc.commentRepo.Find(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	if comment.IsRemoved() {
		return nil, &CommentNotFoundError{ID: commentID}
	}

	return comment, nil
}

func (svc *Service) ListComments(ctx context.Context, postID string) ([]*Comment, error) {
	comments, err := svc.commentRepo.List(ctx, &ListCommentsParams{PostID: postID})
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// CommentTree returns the post's comments as a reply tree. When voterID is set each node
// carries that voter's state.
func (svc *Service) CommentTree(ctx context.Context, postID string, voterID string) ([]*Node, error) {
	comments, err := svc.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	tree := BuildTree(comments)

	if voterID == "" || len(comments) == 0 {
		return tree, nil
	}

	ids := make([]string, 0, len(comments))
	for _, comment := range comments {
		ids = append(ids, comment.ID)
	}

	states, err := svc.voteStates.States(ctx, voterID, votes.TargetKindComment, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get voter states: %w", err)
	}

	SetVoterStates(tree, states)

	return tree, nil
}
