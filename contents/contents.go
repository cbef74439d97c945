package contents

import (
	"context"
	"fmt"
)

type Feed string

const (
	FeedHot Feed = "hot"
	FeedNew Feed = "new"
	FeedTop Feed = "top"
)

func (feed Feed) IsValid() bool {
	switch feed {
	case FeedHot, FeedNew, FeedTop:
		return true
	default:
		return false
	}
}

func (feed Feed) Order() PostOrder {
	switch feed {
	case FeedHot:
		return PostOrderHot
	case FeedNew:
		return PostOrderNewest
	case FeedTop:
		return PostOrderTop
	default:
		return PostOrderNewest
	}
}

func ParseFeed(s string) (Feed, error) {
	feed := Feed(s)
	if !feed.IsValid() {
		return "", &InvalidFeedError{Feed: s}
	}

	return feed, nil
}

type InvalidFeedError struct {
	Feed string
}

func (err InvalidFeedError) Error() string {
	return fmt.Sprintf("invalid feed: %q", err.Feed)
}

const (
	DefaultFeedLimit = 25
	MaxFeedLimit     = 100
)

// ClampLimit maps a requested page size into [1, MaxFeedLimit], using fallback for non-positive values.
func ClampLimit(limit, fallback int) int {
	if limit <= 0 {
		limit = fallback
	}

	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	return min(limit, MaxFeedLimit)
}

type Service struct {
	postRepo PostRepository
}

func NewService(postRepo PostRepository) *Service {
	return &Service{
		postRepo: postRepo,
	}
}

// GetPost returns a live post. Removed posts are reported as not found.
func (svc *Service) GetPost(ctx context.Context, postID string) (*Post, error) {
	post, err := svc.postRepo.Find(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	if post.IsRemoved() {
		return nil, &PostNotFoundError{ID: postID}
	}

	return post, nil
}
