package cohort

import (
	"sync"

	"github.com/cohort-run/cohort/internal/goid"
)

// scopeRegistry maps a goroutine id to the *ExecutionState visible to code
// running on that goroutine, for exactly the lifetime of the run that
// spawned it. This is the Go stand-in for the source's scoped_thread_local!
// EXECUTION_STATE: since every Task here runs on its own dedicated
// goroutine (see Continuation), "thread-local" becomes "goroutine-local",
// keyed by the real goroutine id (internal/goid) rather than a single
// package-level slot — which additionally makes it safe for multiple
// Executions to run concurrently on different goroutine trees, a case the
// single-OS-thread Rust design never has to consider.
var scopeRegistry sync.Map // uint64 -> *ExecutionState

func registerGoroutine(state *ExecutionState) {
	scopeRegistry.Store(goid.Get(), state)
}

func unregisterGoroutine() {
	scopeRegistry.Delete(goid.Get())
}

// currentExecutionState returns the ExecutionState registered for the
// calling goroutine, if any.
func currentExecutionState() (*ExecutionState, bool) {
	v, ok := scopeRegistry.Load(goid.Get())
	if !ok {
		return nil, false
	}
	return v.(*ExecutionState), true
}

// With invokes f with exclusive access to the current goroutine's
// ExecutionState. It panics if there is no current execution, or if the
// state is already borrowed (re-entrant With), with ErrMisuse as the panic
// value — this is
// the "with" half of the source's with/try_with split: library code
// (spawn, sync primitives, position queries) is expected to use this and
// is allowed to treat failure as a programmer error.
func With[T any](f func(*ExecutionState) T) T {
	v, ok := TryWith(f)
	if !ok {
		panic(ErrMisuse)
	}
	return v
}

// TryWith is like With but reports failure via ok == false instead of
// panicking. It is the only access path safe to use from a panic-recovery
// site, since a panic hook/recover callback must never itself panic.
func TryWith[T any](f func(*ExecutionState) T) (result T, ok bool) {
	state, found := currentExecutionState()
	if !found {
		return result, false
	}
	if !state.mu.TryLock() {
		return result, false
	}
	defer state.mu.Unlock()
	return f(state), true
}
