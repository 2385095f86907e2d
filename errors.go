package cohort

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMisuse is the value With (and so SpawnThread, MaybeYield, ...) panics
// with when the engine's scoped API is used from outside a running
// Execution or while the state is already borrowed. TryWith reports the same condition by returning ok == false
// instead of an error, matching the Rust source's absent-vs-panic split.
var ErrMisuse = errors.New("cohort: API used outside a running execution, or re-entered while already borrowed")

// DeadlockError reports that scheduling finished with unfinished tasks, all
// of which are non-runnable. Blocked holds a human-readable
// "<name> (task <id>)" entry per blocked task, in task-id order.
type DeadlockError struct {
	Blocked []string
}

// Error implements the error interface. The format is fixed:
// "deadlock! blocked tasks: [<name> (task <id>), ...]" — tooling and tests
// key off this exact shape.
func (e *DeadlockError) Error() string {
	return fmt.Sprintf("deadlock! blocked tasks: [%s]", strings.Join(e.Blocked, ", "))
}

// SchedulerInvariantError reports a condition the scheduler's contract
// rules out (e.g. no task was scheduled after a successful schedule()).
// Seeing one of these means the engine itself has a bug, not the test under
// exploration.
type SchedulerInvariantError struct {
	Message string
}

func (e *SchedulerInvariantError) Error() string {
	return e.Message
}

// PanicError wraps a value recovered from a panic inside a task closure,
// annotated with the identity of the task and the Event position at which
// it occurred. If the original panic value was itself an error, Unwrap
// exposes it so callers can still errors.Is/errors.As through the chain.
type PanicError struct {
	// TaskName is the task's name, or its synthesized "task-<id>" label if
	// it was spawned without one.
	TaskName string
	// Position is the task's Event position at the moment of the panic, if
	// one could be captured (it may be absent if the panic happened before
	// any task was current, which should not occur in practice).
	Position *Event
	// Value is the raw value passed to panic().
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	if e.Position != nil {
		return fmt.Sprintf("panic in task %s at %s: %v", e.TaskName, e.Position, e.Value)
	}
	return fmt.Sprintf("panic in task %s: %v", e.TaskName, e.Value)
}

// Unwrap returns the underlying error if the panic value was an error.
// Returns nil otherwise, same as the teacher package's PanicError.Unwrap.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func newPanicError(recovered any) *PanicError {
	pe := &PanicError{Value: recovered}
	if name, pos, ok := failureInfo(); ok {
		pe.TaskName = name
		pe.Position = &pos
	}
	return pe
}
