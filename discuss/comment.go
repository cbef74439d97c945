package discuss

import (
	"context"
	"fmt"
	"time"
)

// TombstoneContent replaces the body of a removed comment.
const TombstoneContent = "[deleted]"

type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	ReplyTo   *string
	Content   string
	VoteCount int
	CreatedAt time.Time
	RemovedAt *time.Time
}

func (comment *Comment) IsRemoved() bool {
	return comment.RemovedAt != nil
}

type CommentRepository interface {
	Insert(ctx context.Context, comment *Comment) (err error)
	Find(ctx context.Context, commentID string) (comment *Comment, err error)
	// List returns comments oldest first, removed ones included.
	List(ctx context.Context, params *ListCommentsParams) (comments []*Comment, err error)
	// AddVotes atomically adds delta to a live comment's tally and returns the new tally.
	AddVotes(ctx context.Context, commentID string, delta int) (voteCount int, err error)
	// MarkRemoved soft deletes the comment and replaces its content with TombstoneContent.
	MarkRemoved(ctx context.Context, commentID string, at time.Time) (err error)
}

type ListCommentsParams struct {
	PostID string
}

type CommentNotFoundError struct {
	ID string
}

func (err CommentNotFoundError) Error() string {
	return fmt.Sprintf("comment with id %q not found", err.ID)
}
