package lobby

import "fmt"

// State is a step of a single lobby operation.
type State int

const (
	Idle State = iota
	Validating
	// Blocked means a required input was blank or cancelled. Nothing was sent.
	Blocked
	Requesting
	// Reloaded means the server applied the mutation and the room list was
	// fetched again.
	Reloaded
	// Navigated means the room passed the pre-join check and the game view
	// was opened.
	Navigated
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Blocked:
		return "blocked"
	case Requesting:
		return "requesting"
	case Reloaded:
		return "reloaded"
	case Navigated:
		return "navigated"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == Blocked || s == Reloaded || s == Navigated || s == Failed
}

type Operation string

const (
	OpCreate       Operation = "create"
	OpEnter        Operation = "enter"
	OpRename       Operation = "rename"
	OpEnd          Operation = "end"
	OpDelete       Operation = "delete"
	OpLegacyRename Operation = "legacy-rename"
)

// Outcome is what a user action ended in. Message is empty on success
// unless the refresh that followed it failed.
type Outcome struct {
	Op      Operation
	State   State
	RoomID  int64
	Message string
	Err     error
}

func (o Outcome) OK() bool {
	return o.State == Reloaded || o.State == Navigated
}

// Event is one state transition, delivered to the Observer.
type Event struct {
	Op     Operation
	RoomID int64
	From   State
	To     State
	Err    error
}
