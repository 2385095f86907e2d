package cohort

import "fmt"

// Task is a thin wrapper around a Continuation adding identity and
// scheduling metadata: spec.md's Task data model exactly. A Task never
// moves within its ExecutionState's registry — its TaskId is its index.
type Task struct {
	id           TaskId
	name         string // "" means absent
	continuation *Continuation
	instructions uint64
	runnable     bool
	finished     bool
	stackSize    int
}

// newTask constructs a Task bound to fn, the Go analogue of the source's
// Task::from_closure.
func newTask(fn func(Yielder), stackSize int, id TaskId, name string, pool *continuationPool) *Task {
	c := NewContinuation(fn, stackSize, pool)
	return &Task{
		id:           id,
		name:         name,
		continuation: c,
		runnable:     true,
		stackSize:    c.stackSize,
	}
}

// ID returns the task's identity.
func (t *Task) ID() TaskId { return t.id }

// Name returns the task's debug label and whether one was set.
func (t *Task) Name() (string, bool) { return t.name, t.name != "" }

// Runnable reports whether the Strategy may currently select this task.
func (t *Task) Runnable() bool { return t.runnable }

// SetRunnable toggles whether this task is selectable by the Strategy. Sync
// primitives use this to block/unblock a task.
func (t *Task) SetRunnable(runnable bool) { t.runnable = runnable }

// Finished reports whether the task's continuation has completed.
func (t *Task) Finished() bool { return t.finished }

// Finish marks the task terminal. Once finished, a task is never runnable
// again: finish clears the runnable flag too, enforcing the
// "finished ⇒ not runnable" invariant at the one place it's set.
func (t *Task) Finish() {
	t.finished = true
	t.runnable = false
}

// Instructions returns the task's current position counter.
func (t *Task) Instructions() uint64 { return t.instructions }

// StackSize returns the resolved stack-size hint this task was spawned
// with, for diagnostics and logging.
func (t *Task) StackSize() int { return t.stackSize }

// String renders "<name> (task <id>)", falling back to "<unknown>" for the
// name when absent — the exact format the deadlock message uses.
func (t *Task) String() string {
	name := t.name
	if name == "" {
		name = "<unknown>"
	}
	return fmt.Sprintf("%s (task %d)", name, t.id)
}

// failureName renders the task's label for panic/failure reports, which
// fall back to "task-<id>" rather than "<unknown>" when unnamed — matching
// the source's two distinct fallback conventions (failure_info vs. the
// deadlock message).
func (t *Task) failureName() string {
	if t.name != "" {
		return t.name
	}
	return fmt.Sprintf("task-%d", t.id)
}
