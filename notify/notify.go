// Package notify implements spec.md §4.7's representative sync primitive:
// a single-slot latch backed by a FIFO queue of blocked tasks, built
// entirely on cohort's public engine surface (With, Yielder, SetRunnable)
// rather than on any engine-internal access.
//
// The source models this as a poll-based future (Notified::poll, driven by
// an external executor re-polling on wakeup). cohort tasks suspend by
// blocking inside Yield instead, so Wait collapses the poll loop into a
// single call: it resolves immediately on the fast (latched) path, or
// registers as a waiter, marks its own task non-runnable, and yields —
// resuming only once NotifyOne/NotifyLast/NotifyWaiters has made it
// runnable again, which is the only way a parked waiter ever gets resumed.
package notify

import (
	"container/list"
	"sync"

	"github.com/cohort-run/cohort"
)

// Notify is a single-slot notification latch with a FIFO queue of blocked
// waiters, the direct port of the source's Notify struct. Its own state
// and queue are guarded by an ordinary mutex (REDESIGN FLAG in spec.md:
// the source's manual unsafe Send/Sync markers are dropped in favor of
// this), kept deliberately separate from any cohort.ExecutionState lock —
// Notify only reaches into the engine, via With, for the narrow operation
// of flipping a specific task's runnable bit.
type Notify struct {
	mu      sync.Mutex
	latched bool
	waiters *list.List // of cohort.TaskId
}

// New returns a Notify with no pending notification and no waiters.
func New() *Notify { return NewStatic() }

// NewStatic is the Go analogue of the source's Notify::const_new — a
// zero-waiters Notify suitable for storing in a package-level var. The
// source's version has an unimplemented!() body (it exists only as a
// declared const fn); this restores a real implementation, since nothing
// prevents one in Go.
func NewStatic() *Notify {
	return &Notify{waiters: list.New()}
}

// Notified is a non-owning handle on a Notify, mirroring the source's
// Notified future. Its only operation, Wait, blocks the calling task until
// notified.
type Notified struct {
	n *Notify
}

// Notified returns a handle for awaiting this Notify's next wakeup.
// Building the handle performs no state change, matching the source's
// "cheap builder".
func (n *Notify) Notified() *Notified {
	return &Notified{n: n}
}

// Wait blocks the calling task (via y) until notified. If a notification
// is already latched, it consumes it and returns immediately without
// yielding — the fast path from spec.md §4.7's poll step 1. Otherwise it
// registers as a FIFO waiter, marks its own task non-runnable, and yields;
// it returns only once a NotifyOne/NotifyLast/NotifyWaiters call has made
// the task runnable again.
func (w *Notified) Wait(y cohort.Yielder) {
	w.n.wait(y)
}

func (n *Notify) wait(y cohort.Yielder) {
	n.mu.Lock()
	if n.latched {
		n.latched = false
		n.mu.Unlock()
		return
	}

	id := cohort.With(func(s *cohort.ExecutionState) cohort.TaskId {
		return s.Current().ID()
	})
	n.waiters.PushBack(id)
	n.mu.Unlock()

	cohort.With(func(s *cohort.ExecutionState) any {
		s.CurrentMut().SetRunnable(false)
		return nil
	})
	y.Yield()
}

// NotifyOne wakes the longest-waiting blocked task, or — if none are
// waiting — latches the notification for the next Wait call. This is
// spec.md §4.7's notify_one, with FIFO delivery (front of the queue) as
// spec.md §4.7/§8 mandates, overriding the source's Vec::pop() (LIFO)
// behavior (documented in DESIGN.md's Open Questions).
func (n *Notify) NotifyOne() {
	n.wake(n.waiters.Front)
}

// NotifyLast wakes the most-recently-registered blocked task instead of
// the longest-waiting one, falling back to latching if none are waiting.
// notify_last is declared but left unimplemented in the source; this
// implements it by analogy with common notify APIs, choosing LIFO
// delivery (see DESIGN.md's Open Questions).
func (n *Notify) NotifyLast() {
	n.wake(n.waiters.Back)
}

func (n *Notify) wake(pick func() *list.Element) {
	n.mu.Lock()
	e := pick()
	if e == nil {
		n.latched = true
		n.mu.Unlock()
		return
	}
	n.waiters.Remove(e)
	id := e.Value.(cohort.TaskId)
	n.mu.Unlock()

	cohort.With(func(s *cohort.ExecutionState) any {
		s.Get(id).SetRunnable(true)
		return nil
	})
}

// NotifyWaiters wakes every task currently waiting, without latching the
// notification for tasks that arrive afterward — a broadcast, not a
// single-slot signal. notify_waiters is declared but left unimplemented in
// the source; this implements the "broadcast to all current waiters
// without latching" semantics by analogy with common notify APIs (see
// DESIGN.md's Open Questions).
func (n *Notify) NotifyWaiters() {
	n.mu.Lock()
	ids := make([]cohort.TaskId, 0, n.waiters.Len())
	for e := n.waiters.Front(); e != nil; e = e.Next() {
		ids = append(ids, e.Value.(cohort.TaskId))
	}
	n.waiters.Init()
	n.mu.Unlock()

	if len(ids) == 0 {
		return
	}
	cohort.With(func(s *cohort.ExecutionState) any {
		for _, id := range ids {
			s.Get(id).SetRunnable(true)
		}
		return nil
	})
}
