package votes

import (
	"context"
	"errors"
	"fmt"
)

type Service struct {
	voteRepo Repository
}

func NewService(voteRepo Repository) *Service {
	return &Service{voteRepo: voteRepo}
}

func (svc *Service) State(ctx context.Context, voterID string, target Target) (State, error) {
	if !target.Kind.IsValid() {
		return StateNone, &InvalidTargetKindError{Kind: string(target.Kind)}
	}

	vote, err := svc.voteRepo.Find(ctx, voterID, target)
	if err != nil {
		var notFoundErr *VoteNotFoundError
		if errors.As(err, &notFoundErr) {
			return StateNone, nil
		}

		return StateNone, fmt.Errorf("failed to find vote: %w", err)
	}

	return vote.State(), nil
}

// States returns the voter's state for each of targetIDs. Targets without a vote are omitted.
func (svc *Service) States(
	ctx context.Context,
	voterID string,
	kind TargetKind,
	targetIDs []string,
) (map[string]State, error) {
	if !kind.IsValid() {
		return nil, &InvalidTargetKindError{Kind: string(kind)}
	}

	states := make(map[string]State, len(targetIDs))

	if voterID == "" || len(targetIDs) == 0 {
		return states, nil
	}

	votes, err := svc.voteRepo.ListByVoter(ctx, voterID, kind, targetIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes by voter: %w", err)
	}

	for _, vote := range votes {
		states[vote.Target.ID] = vote.State()
	}

	return states, nil
}
