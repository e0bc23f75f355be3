package object

// Action is a movement request waiting in the character's queue.
type Action int

const (
	ActionUp Action = iota + 1
	ActionLeft
	ActionRight
)

func (a Action) String() string {
	switch a {
	case ActionUp:
		return "up"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	default:
		return "unknown"
	}
}

// ActionQueue is a FIFO of pending actions.
type ActionQueue struct {
	items []Action
}

// Push appends an action.
func (q *ActionQueue) Push(a Action) {
	q.items = append(q.items, a)
}

// Pop removes and returns the oldest action.
func (q *ActionQueue) Pop() (Action, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	a := q.items[0]
	q.items = q.items[1:]
	return a, true
}

// Len returns the number of pending actions.
func (q *ActionQueue) Len() int {
	return len(q.items)
}
