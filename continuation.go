package cohort

import "fmt"

// Outcome is the result of resuming a Continuation one step.
type Outcome int

const (
	// Yielded means the closure voluntarily suspended and can be resumed
	// again later.
	Yielded Outcome = iota
	// Finished means the closure returned (or panicked); Resume must not
	// be called again.
	Finished
)

func (o Outcome) String() string {
	if o == Finished {
		return "Finished"
	}
	return "Yielded"
}

// Yielder is handed to a task's closure so it can voluntarily suspend
// itself. Sync primitives (like notify.Notify) call Yield on a caller's
// behalf after marking the task non-runnable; the engine's own
// MaybeYield uses it to honor a Strategy-requested context switch.
type Yielder interface {
	// Yield suspends the calling task, handing control back to whatever
	// resumed it. It returns once the task's Continuation is resumed
	// again.
	Yield()
}

// Continuation wraps a piece of user code so it can be resumed and yield
// back at arbitrary points. Go has no stackful coroutines in the standard
// library, and none are available anywhere in the retrieved example
// corpus, so Continuation is built from one dedicated goroutine plus a
// pair of unbuffered handoff channels — the idiomatic Go substitute for a
// pooled stackful fiber, and structurally the same "one goroutine per
// logical thread of control, driven forward one step via a channel" shape
// gVisor's Task.run loop uses.
//
// A Continuation is not safe for concurrent use; the engine only ever
// calls Resume from the single goroutine driving the scheduling loop at
// any given moment, exactly as the shared-resource policy requires.
type Continuation struct {
	fn        func(Yielder)
	stackSize int
	pool      *continuationPool
	worker    *pooledWorker
	started   bool
	finished  bool
}

// NewContinuation prepares a suspended unit of work bound to fn. stackSize
// is an advisory hint (see defaultStackSize); it is recorded for
// diagnostics, since Go goroutines grow their own stacks on demand.
func NewContinuation(fn func(Yielder), stackSize int, pool *continuationPool) *Continuation {
	if stackSize <= 0 {
		stackSize = defaultStackSize
	}
	return &Continuation{fn: fn, stackSize: stackSize, pool: pool}
}

// Resume runs the continuation until it either returns (Finished) or calls
// Yield (Yielded). It must not be called again once Finished has been
// returned; doing so is a programmer error and panics, matching the
// source's "must not be callable when already Finished" contract.
func (c *Continuation) Resume() (Outcome, error) {
	if c.finished {
		panic(fmt.Sprintf("cohort: Resume called on a finished Continuation (fn %p)", c.fn))
	}

	if !c.started {
		c.started = true
		c.worker = c.pool.acquire()
		c.worker.assignCh <- c.fn
	} else {
		c.worker.resumeCh <- struct{}{}
	}

	res := <-c.worker.doneCh
	if res.outcome == Finished {
		c.finished = true
		w := c.worker
		c.worker = nil
		c.pool.release(w)
	}
	return res.outcome, res.err
}

// Finished reports whether the continuation has already returned.
func (c *Continuation) Finished() bool {
	return c.finished
}
