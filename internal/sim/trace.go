package sim

import "fmt"

// EventKind labels trace events.
type EventKind string

const (
	EventDispatch EventKind = "dispatch"
	EventComplete EventKind = "complete"
	EventDecision EventKind = "decision"
)

// Event is one row of the run trace.
type Event struct {
	Tick  int
	Kind  EventKind
	Type  string
	End   int    // dispatch events: completion tick
	Stage string // decision events only
	Note  string
}

func (e Event) String() string {
	switch e.Kind {
	case EventDecision:
		return fmt.Sprintf("t=%d %s[%s] %s %s", e.Tick, e.Kind, e.Stage, e.Type, e.Note)
	default:
		return fmt.Sprintf("t=%d %s %s %s", e.Tick, e.Kind, e.Type, e.Note)
	}
}

// Trace is the ordered list of events recorded during a run.
type Trace []Event
