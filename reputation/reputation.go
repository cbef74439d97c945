package reputation

import (
	"context"
	"fmt"
	"time"
)

type Reputation struct {
	AuthorID  string
	Score     int
	UpdatedAt time.Time
}

type Repository interface {
	// AddWithFloor atomically sets score to max(0, score+delta), creating the row when missing.
	AddWithFloor(ctx context.Context, authorID string, delta int, at time.Time) (score int, err error)
	Find(ctx context.Context, authorID string) (reputation *Reputation, err error)
}

// ApplyFloor is the arithmetic AddWithFloor implementations must honor.
func ApplyFloor(current, delta int) int {
	return max(0, current+delta)
}

type ReputationNotFoundError struct {
	AuthorID string
}

func (err ReputationNotFoundError) Error() string {
	return fmt.Sprintf("reputation of author %q not found", err.AuthorID)
}
