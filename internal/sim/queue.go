package sim

import (
	"fmt"

	"github.com/gammazero/deque"
)

// Provenance records how an entry got into the queue.
type Provenance int

const (
	// Requested entries come from the caller's build order and must
	// complete before the run may terminate.
	Requested Provenance = iota
	// Injected entries were added by a scheduler on its own initiative.
	Injected
)

func (p Provenance) String() string {
	if p == Injected {
		return "injected"
	}
	return "requested"
}

// QueueEntry is one pending production task.
type QueueEntry struct {
	Type       string
	Provenance Provenance
}

// TaskQueue is the ordered list of pending tasks. Only the head may
// dispatch; schedulers rearrange the rest through engine-applied decisions.
type TaskQueue struct {
	d deque.Deque[QueueEntry]
}

// NewTaskQueue builds a queue of requested entries in the given order.
func NewTaskQueue(types []string) *TaskQueue {
	q := &TaskQueue{}
	for _, t := range types {
		q.d.PushBack(QueueEntry{Type: t, Provenance: Requested})
	}
	return q
}

// Len returns the number of pending entries.
func (q *TaskQueue) Len() int {
	return q.d.Len()
}

// Peek returns the head without removing it.
func (q *TaskQueue) Peek() (QueueEntry, bool) {
	if q.d.Len() == 0 {
		return QueueEntry{}, false
	}
	return q.d.Front(), true
}

// PopFront removes and returns the head.
func (q *TaskQueue) PopFront() QueueEntry {
	return q.d.PopFront()
}

// PushFront inserts an entry at the head.
func (q *TaskQueue) PushFront(e QueueEntry) {
	q.d.PushFront(e)
}

// At returns the entry at position i.
func (q *TaskQueue) At(i int) QueueEntry {
	return q.d.At(i)
}

// MoveToFront promotes the entry at position i to the head, preserving the
// relative order of everything else.
func (q *TaskQueue) MoveToFront(i int) {
	if i < 0 || i >= q.d.Len() {
		panic(fmt.Sprintf("BUG: move-to-front index %d out of range [0,%d)", i, q.d.Len()))
	}
	if i == 0 {
		return
	}
	e := q.d.Remove(i)
	q.d.PushFront(e)
}

// Entries returns a snapshot copy of the queue from head to tail.
func (q *TaskQueue) Entries() []QueueEntry {
	out := make([]QueueEntry, q.d.Len())
	for i := 0; i < q.d.Len(); i++ {
		out[i] = q.d.At(i)
	}
	return out
}
