package reputation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
)

type Accumulator struct {
	repo  Repository
	clock clockwork.Clock
}

func NewAccumulator(repo Repository, clock clockwork.Clock) *Accumulator {
	return &Accumulator{repo: repo, clock: clock}
}

// Adjust applies delta to the author's score, clamping at zero, and returns the new score.
// Magnitudes are decided by the caller.
func (acc *Accumulator) Adjust(ctx context.Context, authorID string, delta int) (int, error) {
	if delta == 0 {
		return acc.Get(ctx, authorID)
	}

	score, err := acc.repo.AddWithFloor(ctx, authorID, delta, acc.clock.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to adjust reputation of %q by %d: %w", authorID, delta, err)
	}

	return score, nil
}

func (acc *Accumulator) Get(ctx context.Context, authorID string) (int, error) {
	rep, err := acc.repo.Find(ctx, authorID)
	if err != nil {
		var notFoundErr *ReputationNotFoundError
		if errors.As(err, &notFoundErr) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to find reputation: %w", err)
	}

	return rep.Score, nil
}
