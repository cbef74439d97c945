package contents

import (
	"context"
	"fmt"
	"time"
)

type Post struct {
	ID           string
	AuthorID     string
	Content      string
	VoteCount    int
	CommentCount int
	HotScore     float64
	CreatedAt    time.Time
	RemovedAt    *time.Time
}

func (post *Post) IsRemoved() bool {
	return post.RemovedAt != nil
}

type PostOrder string

const (
	PostOrderNewest PostOrder = "newest"
	PostOrderTop    PostOrder = "top"
	PostOrderHot    PostOrder = "hot"
)

type ListPostsParams struct {
	OrderBy PostOrder
	Limit   int
	// CreatedAfter limits the result to posts created strictly after it, when set.
	CreatedAfter *time.Time
}

type PostRepository interface {
	Insert(ctx context.Context, post *Post) (err error)
	Find(ctx context.Context, postID string) (post *Post, err error)
	// List never returns removed posts.
	List(ctx context.Context, params *ListPostsParams) (posts []*Post, err error)
	// AddVotes atomically adds delta to a live post's tally and returns the new tally.
	AddVotes(ctx context.Context, postID string, delta int) (voteCount int, err error)
	AddComments(ctx context.Context, postID string, delta int) (err error)
	SetHotScore(ctx context.Context, postID string, score float64) (err error)
	MarkRemoved(ctx context.Context, postID string, at time.Time) (err error)
}

type PostNotFoundError struct {
	ID string
}

func (err PostNotFoundError) Error() string {
	return fmt.Sprintf("post with id %q not found", err.ID)
}
