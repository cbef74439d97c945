package web

import (
	"time"

	"github.com/nasermirzaei89/agora/contents"
	"github.com/nasermirzaei89/agora/discuss"
	"github.com/nasermirzaei89/agora/ranking"
	"github.com/nasermirzaei89/agora/votes"
)

type postResponse struct {
	ID           string      `json:"id"`
	AuthorID     string      `json:"authorId"`
	Content      string      `json:"content"`
	VoteCount    int         `json:"voteCount"`
	CommentCount int         `json:"commentCount"`
	HotScore     float64     `json:"hotScore"`
	CreatedAt    time.Time   `json:"createdAt"`
	VoterState   votes.State `json:"voterState"`
}

func newPostResponse(post *contents.Post, state votes.State) postResponse {
	if state == "" {
		state = votes.StateNone
	}

	return postResponse{
		ID:           post.ID,
		AuthorID:     post.AuthorID,
		Content:      post.Content,
		VoteCount:    post.VoteCount,
		CommentCount: post.CommentCount,
		HotScore:     post.HotScore,
		CreatedAt:    post.CreatedAt,
		VoterState:   state,
	}
}

type commentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	ReplyTo   *string   `json:"replyTo"`
	Content   string    `json:"content"`
	VoteCount int       `json:"voteCount"`
	CreatedAt time.Time `json:"createdAt"`
}

func newCommentResponse(comment *discuss.Comment) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		ReplyTo:   comment.ReplyTo,
		Content:   comment.Content,
		VoteCount: comment.VoteCount,
		CreatedAt: comment.CreatedAt,
	}
}

type nodeResponse struct {
	ID         string         `json:"id"`
	ParentID   *string        `json:"parentId"`
	Depth      int            `json:"depth"`
	AuthorID   string         `json:"authorId"`
	Content    string         `json:"content"`
	VoteCount  int            `json:"voteCount"`
	Removed    bool           `json:"removed"`
	CreatedAt  time.Time      `json:"createdAt"`
	VoterState votes.State    `json:"voterState"`
	Children   []nodeResponse `json:"children"`
}

func newNodeResponses(nodes []*discuss.Node) []nodeResponse {
	out := make([]nodeResponse, 0, len(nodes))

	for _, node := range nodes {
		out = append(out, nodeResponse{
			ID:         node.ID,
			ParentID:   node.ParentID,
			Depth:      node.Depth,
			AuthorID:   node.AuthorID,
			Content:    node.Content,
			VoteCount:  node.VoteCount,
			Removed:    node.Removed,
			CreatedAt:  node.CreatedAt,
			VoterState: node.VoterState,
			Children:   newNodeResponses(node.Children),
		})
	}

	return out
}

type voteResponse struct {
	Kind       votes.TargetKind `json:"kind"`
	ID         string           `json:"id"`
	NewTally   int              `json:"newTally"`
	VoterState votes.State      `json:"voterState"`
}

func newVoteResponse(result *ranking.VoteResult) voteResponse {
	return voteResponse{
		Kind:       result.Target.Kind,
		ID:         result.Target.ID,
		NewTally:   result.NewTally,
		VoterState: result.VoterState,
	}
}

type reputationResponse struct {
	AuthorID   string `json:"authorId"`
	Reputation int    `json:"reputation"`
}
