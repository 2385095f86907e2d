// Package cohort is the execution core of a deterministic concurrency
// model checker for message-passing programs.
//
// # Architecture
//
// A test closure is driven to completion by an [Execution], which owns the
// [ExecutionState] for that one run: the registry of spawned [Task]s, the
// scheduling decision ([ExecutionState.schedule]), and a handle to an
// external [Strategy] that picks the next runnable task at every scheduling
// point. Re-running the same closure with a different Strategy explores a
// different interleaving.
//
// Each Task wraps a [Continuation] — a suspendable unit of user code built
// from a dedicated goroutine and a pair of handoff channels, the closest Go
// analogue to the pooled stackful coroutines the original implementation
// uses. User code suspends by calling methods on the [Yielder] passed into
// its task closure; sync primitives (see the notify subpackage) suspend on
// the caller's behalf by marking the task non-runnable and yielding.
//
// # Scoped state
//
// Code running inside a task (including library code in other packages,
// such as notify.Notify) reaches the current execution's state via [With]
// and [TryWith] without having it threaded through every call — not via a
// package-level global, but via a registry keyed by the calling goroutine's
// id, populated by the pooled worker goroutines that run one
// [Execution]'s tasks. See scope.go for the full contract.
//
// # Failure capture
//
// A panic inside a task closure is recovered at the [Continuation] boundary
// and reported as a [*PanicError] carrying the task's name and [Event]
// position. Deadlocks (every task blocked, something unfinished) and
// scheduler invariant violations are reported the same way, through
// [*DeadlockError] and [*SchedulerInvariantError] respectively.
//
// # Out of scope
//
// The exploration strategy itself (DPOR, random, ...), message-passing
// primitives beyond the notify package, the outer verify-style driver that
// loops over many executions, and counterexample persistence to disk are
// all external collaborators referenced only by interface
// ([Strategy], [FailureSink]).
package cohort
