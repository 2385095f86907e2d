package cohort

import "fmt"

// Event names a single point in a Task's execution: a stable thread id (the
// Strategy's mapping from TaskId, via [Strategy.ToThreadID]) paired with
// that task's instruction counter at the time. It is an opaque value type;
// callers should treat two Events as equal only via ==, and otherwise just
// display or persist them.
type Event struct {
	ThreadID uint64
	Instr    uint32
}

// String renders an Event for diagnostics and persisted counterexamples.
func (e Event) String() string {
	return fmt.Sprintf("(thread %d, instr %d)", e.ThreadID, e.Instr)
}
