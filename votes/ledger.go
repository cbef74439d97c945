package votes

// Action is what a voter asks for: cast a direction, withdraw whatever is stored, or
// converge on a known final state.
type Action struct {
	withdraw  bool
	converge  bool
	keep      bool
	direction Direction
}

func Cast(direction Direction) Action {
	return Action{direction: direction}
}

func Withdraw() Action {
	return Action{withdraw: true}
}

// Converge asks for state to be stored regardless of what is there. Unlike Cast it never
// toggles, so re-driving it after a concurrent change is idempotent.
func Converge(state State) Action {
	switch state {
	case StateUp:
		return Action{converge: true, direction: DirectionUp}
	case StateDown:
		return Action{converge: true, direction: DirectionDown}
	default:
		return Withdraw()
	}
}

// Keep stores direction only when no vote exists and otherwise leaves the stored vote as it is.
func Keep(direction Direction) Action {
	return Action{keep: true, direction: direction}
}

func (action Action) IsWithdraw() bool {
	return action.withdraw
}

func (action Action) Direction() Direction {
	return action.direction
}

// Op is the single ledger write a transition needs.
type Op int

const (
	OpNone Op = iota
	OpInsert
	OpFlip
	OpDelete
)

func (op Op) String() string {
	switch op {
	case OpNone:
		return "none"
	case OpInsert:
		return "insert"
	case OpFlip:
		return "flip"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

type Transition struct {
	Op Op
	// From is the stored direction the write is conditional on. Empty for OpInsert and OpNone.
	From Direction
	// To is the direction stored after OpInsert or OpFlip.
	To          Direction
	LedgerDelta int
	Previous    State
	Resulting   State
}

// Plan decides the ledger write for action given the currently stored vote (nil when absent).
//
// Casting the stored direction again toggles the vote off. Converging on the stored
// direction is a no-op, and so is keeping any stored vote.
func Plan(existing *Vote, action Action) (Transition, error) {
	if action.withdraw {
		if existing == nil {
			return Transition{Op: OpNone, Previous: StateNone, Resulting: StateNone}, nil
		}

		return Transition{
			Op:          OpDelete,
			From:        existing.Direction,
			LedgerDelta: -existing.Direction.Sign(),
			Previous:    existing.State(),
			Resulting:   StateNone,
		}, nil
	}

	if !action.direction.IsValid() {
		return Transition{}, &InvalidDirectionError{Direction: string(action.direction)}
	}

	switch {
	case existing == nil:
		return Transition{
			Op:          OpInsert,
			To:          action.direction,
			LedgerDelta: action.direction.Sign(),
			Previous:    StateNone,
			Resulting:   action.direction.State(),
		}, nil
	case action.keep, existing.Direction == action.direction && action.converge:
		return Transition{
			Op:        OpNone,
			Previous:  existing.State(),
			Resulting: existing.State(),
		}, nil
	case existing.Direction == action.direction:
		return Transition{
			Op:          OpDelete,
			From:        existing.Direction,
			LedgerDelta: -existing.Direction.Sign(),
			Previous:    existing.State(),
			Resulting:   StateNone,
		}, nil
	default:
		return Transition{
			Op:          OpFlip,
			From:        existing.Direction,
			To:          action.direction,
			LedgerDelta: 2 * action.direction.Sign(),
			Previous:    existing.State(),
			Resulting:   action.direction.State(),
		}, nil
	}
}
