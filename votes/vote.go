package votes

import (
	"context"
	"fmt"
	"time"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

func (direction Direction) IsValid() bool {
	switch direction {
	case DirectionUp, DirectionDown:
		return true
	default:
		return false
	}
}

// Sign returns the contribution of a single vote in this direction to a tally.
func (direction Direction) Sign() int {
	switch direction {
	case DirectionUp:
		return 1
	case DirectionDown:
		return -1
	default:
		return 0
	}
}

func (direction Direction) Opposite() Direction {
	switch direction {
	case DirectionUp:
		return DirectionDown
	case DirectionDown:
		return DirectionUp
	default:
		return direction
	}
}

func (direction Direction) State() State {
	switch direction {
	case DirectionUp:
		return StateUp
	case DirectionDown:
		return StateDown
	default:
		return StateNone
	}
}

func ParseDirection(s string) (Direction, error) {
	direction := Direction(s)
	if !direction.IsValid() {
		return "", &InvalidDirectionError{Direction: s}
	}

	return direction, nil
}

// State is the voter's standing on a target as reported back to clients.
type State string

const (
	StateNone State = "none"
	StateUp   State = "up"
	StateDown State = "down"
)

type TargetKind string

const (
	TargetKindPost    TargetKind = "post"
	TargetKindComment TargetKind = "comment"
)

func (kind TargetKind) IsValid() bool {
	switch kind {
	case TargetKindPost, TargetKindComment:
		return true
	default:
		return false
	}
}

func ParseTargetKind(s string) (TargetKind, error) {
	kind := TargetKind(s)
	if !kind.IsValid() {
		return "", &InvalidTargetKindError{Kind: s}
	}

	return kind, nil
}

type Target struct {
	Kind TargetKind
	ID   string
}

func (target Target) String() string {
	return string(target.Kind) + ":" + target.ID
}

type Vote struct {
	VoterID   string
	Target    Target
	Direction Direction
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (vote *Vote) State() State {
	if vote == nil {
		return StateNone
	}

	return vote.Direction.State()
}

type Repository interface {
	Find(ctx context.Context, voterID string, target Target) (vote *Vote, err error)
	ListByVoter(ctx context.Context, voterID string, kind TargetKind, targetIDs []string) (votes []*Vote, err error)
	Insert(ctx context.Context, vote *Vote) (err error)
	// UpdateDirection stores vote.Direction only if the stored direction is still from.
	UpdateDirection(ctx context.Context, vote *Vote, from Direction) (err error)
	// Delete removes the vote only if the stored direction is still from.
	Delete(ctx context.Context, voterID string, target Target, from Direction) (err error)
}

type VoteNotFoundError struct {
	VoterID string
	Target  Target
}

func (err VoteNotFoundError) Error() string {
	return fmt.Sprintf("vote of %q on %s not found", err.VoterID, err.Target)
}

type DuplicateVoteError struct {
	VoterID string
	Target  Target
}

func (err DuplicateVoteError) Error() string {
	return fmt.Sprintf("vote of %q on %s already exists", err.VoterID, err.Target)
}

// ConflictError reports that the stored vote changed between read and write.
type ConflictError struct {
	VoterID  string
	Target   Target
	Expected Direction
}

func (err ConflictError) Error() string {
	return fmt.Sprintf(
		"vote of %q on %s is no longer %q",
		err.VoterID,
		err.Target,
		err.Expected,
	)
}

type InvalidDirectionError struct {
	Direction string
}

func (err InvalidDirectionError) Error() string {
	return fmt.Sprintf("invalid vote direction: %q", err.Direction)
}

type InvalidTargetKindError struct {
	Kind string
}

func (err InvalidTargetKindError) Error() string {
	return fmt.Sprintf("invalid target kind: %q", err.Kind)
}
