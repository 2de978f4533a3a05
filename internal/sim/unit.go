package sim

import "fmt"

// ExecutionUnit is one live instance on the map. A unit is either idle or
// busy carrying out a single production until a known tick.
type ExecutionUnit struct {
	ID   int
	Type string

	busy     bool
	order    QueueEntry
	finishAt int
}

// Idle reports whether the unit can accept a production.
func (u *ExecutionUnit) Idle() bool {
	return !u.busy
}

// Producing returns the queue entry under production, if any.
func (u *ExecutionUnit) Producing() (QueueEntry, bool) {
	return u.order, u.busy
}

// FinishAt returns the completion tick of the current production. Only
// meaningful while the unit is busy.
func (u *ExecutionUnit) FinishAt() int {
	return u.finishAt
}

func (u *ExecutionUnit) start(e QueueEntry, finishAt int) {
	if u.busy {
		panic(fmt.Sprintf("BUG: unit %d (%s) already producing %s", u.ID, u.Type, u.order.Type))
	}
	u.busy = true
	u.order = e
	u.finishAt = finishAt
}

func (u *ExecutionUnit) finish() QueueEntry {
	if !u.busy {
		panic(fmt.Sprintf("BUG: unit %d (%s) has nothing to finish", u.ID, u.Type))
	}
	e := u.order
	u.busy = false
	u.order = QueueEntry{}
	u.finishAt = 0
	return e
}
