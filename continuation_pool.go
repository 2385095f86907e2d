package cohort

// stepResult is what a pooledWorker sends back after running or yielding
// one step of whatever closure it's currently assigned.
type stepResult struct {
	outcome Outcome
	err     error
}

// pooledWorker is a reusable backing goroutine for Continuations. Its
// assignCh/resumeCh/doneCh triple is allocated once and reused across every
// Continuation this worker ever runs, the way a pooled stackful fiber
// reuses its physical stack across logically distinct coroutines — only
// one Continuation is ever assigned to a worker at a time.
//
// Every pooledWorker belongs to exactly one ExecutionState for its entire
// life: state is registered against the worker's goroutine id once, when
// the goroutine starts, rather than re-registered per task.
type pooledWorker struct {
	state    *ExecutionState
	assignCh chan func(Yielder)
	resumeCh chan struct{}
	doneCh   chan stepResult
}

func newPooledWorker(state *ExecutionState) *pooledWorker {
	w := &pooledWorker{
		state:    state,
		assignCh: make(chan func(Yielder)),
		resumeCh: make(chan struct{}),
		doneCh:   make(chan stepResult),
	}
	go w.loop()
	return w
}

// loop registers this goroutine against its owning ExecutionState, then
// waits for a closure to be assigned, runs it to completion (including all
// of its intermediate yields), and waits for the next assignment. Closing
// assignCh (when the pool is over capacity, or at shutdown) lets the
// goroutine unregister and exit instead of looping forever.
func (w *pooledWorker) loop() {
	registerGoroutine(w.state)
	defer unregisterGoroutine()
	for fn := range w.assignCh {
		w.runOnce(fn)
	}
}

func (w *pooledWorker) runOnce(fn func(Yielder)) {
	defer func() {
		if r := recover(); r != nil {
			w.doneCh <- stepResult{outcome: Finished, err: newPanicError(r)}
		}
	}()

	y := &pooledYielder{w: w}
	fn(y)
	w.doneCh <- stepResult{outcome: Finished}
}

// pooledYielder is the Yielder implementation handed to the closure running
// on a pooledWorker.
type pooledYielder struct {
	w *pooledWorker
}

func (y *pooledYielder) Yield() {
	y.w.doneCh <- stepResult{outcome: Yielded}
	<-y.w.resumeCh
}

// continuationPool is a small free-list of pooledWorkers, reused across
// Continuations within one Execution to amortize goroutine startup cost —
// the Go analogue of the "pooled stack-backed continuations" the source
// describes.
type continuationPool struct {
	state   *ExecutionState
	free    chan *pooledWorker
	maxIdle int
}

func newContinuationPool(maxIdle int, state *ExecutionState) *continuationPool {
	if maxIdle <= 0 {
		maxIdle = 1
	}
	return &continuationPool{state: state, free: make(chan *pooledWorker, maxIdle), maxIdle: maxIdle}
}

func (p *continuationPool) acquire() *pooledWorker {
	select {
	case w := <-p.free:
		return w
	default:
		return newPooledWorker(p.state)
	}
}

func (p *continuationPool) release(w *pooledWorker) {
	select {
	case p.free <- w:
	default:
		// Pool is at capacity; let this worker's goroutine exit rather than
		// grow the pool without bound.
		close(w.assignCh)
	}
}

// shutdown closes every currently-idle worker's assignCh, so its goroutine
// unregisters from scopeRegistry and exits. Called once an execution has
// reached an absorbing state. When the run finished cleanly every worker
// has already been released back to the pool (Continuation.Resume releases
// on Finished), so draining free covers all of them; on Stopped or
// Deadlock, a worker whose task is parked mid-Yield (blocked on resumeCh,
// waiting for a Resume that will never come) is never released and is not
// in free, so shutdown cannot reach it. That goroutine, and its entry in
// scopeRegistry, are intentionally leaked for the life of the process —
// the Go-goroutine substitute for a stackful fiber has no way to drop a
// suspended computation the way the original's pooled stack-backed
// continuations can. See DESIGN.md.
func (p *continuationPool) shutdown() {
	for {
		select {
		case w := <-p.free:
			close(w.assignCh)
		default:
			return
		}
	}
}
