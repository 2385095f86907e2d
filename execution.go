package cohort

import (
	"fmt"
	"sync"
)

// schedKind is the discriminant of a scheduled value: spec.md's
// {None, Some(TaskId), Stopped, Finished}, plus Deadlock, which this port
// adds for "tasks remain but none are runnable".
type schedKind uint8

const (
	schedNone schedKind = iota
	schedSome
	schedStopped
	schedFinished
	schedDeadlock
)

type scheduled struct {
	kind schedKind
	id   TaskId
}

func someScheduled(id TaskId) scheduled { return scheduled{kind: schedSome, id: id} }

func (s scheduled) taskID() (TaskId, bool) {
	if s.kind == schedSome {
		return s.id, true
	}
	return 0, false
}

// ExecutionState is the per-execution registry reachable from within any
// running Task: which tasks exist, which one is current, and the pending
// scheduling decision. Code reaches it through With/TryWith, never by
// holding a reference across a suspension point.
type ExecutionState struct {
	tasks   []*Task
	current scheduled
	next    scheduled

	strategy Strategy
	cfg      *Config
	pool     *continuationPool

	mu sync.Mutex

	cleanedUp bool
}

func newExecutionState(strategy Strategy, cfg *Config) *ExecutionState {
	s := &ExecutionState{strategy: strategy, cfg: cfg}
	s.pool = newContinuationPool(cfg.ContinuationPoolSize, s)
	return s
}

// Get returns the task with the given id, panicking if it doesn't exist —
// the Go analogue of the source's infallible get, for call sites that
// already know the id is valid (e.g. the driver, which only ever sees ids
// the scheduler itself produced).
func (s *ExecutionState) Get(id TaskId) *Task {
	t, ok := s.TryGet(id)
	if !ok {
		panic(fmt.Sprintf("cohort: no such task: %d", id))
	}
	return t
}

// GetMut is Get's twin, kept distinct for API-shape fidelity with the
// source's current()/current_mut() split — in Go a *Task is already
// mutable, so both return the same pointer.
func (s *ExecutionState) GetMut(id TaskId) *Task { return s.Get(id) }

// TryGet returns the task with the given id, or ok == false if it doesn't
// exist.
func (s *ExecutionState) TryGet(id TaskId) (*Task, bool) {
	if id < 0 || int(id) >= len(s.tasks) {
		return nil, false
	}
	return s.tasks[id], true
}

// Current returns the currently-running task, panicking if none is
// current.
func (s *ExecutionState) Current() *Task {
	t, ok := s.tryCurrent()
	if !ok {
		panic("cohort: no task is current")
	}
	return t
}

// CurrentMut is Current's twin (see GetMut).
func (s *ExecutionState) CurrentMut() *Task { return s.Current() }

// TryCurrent returns the currently-running task, or ok == false if none is.
func (s *ExecutionState) TryCurrent() (*Task, bool) { return s.tryCurrent() }

func (s *ExecutionState) tryCurrent() (*Task, bool) {
	id, ok := s.current.taskID()
	if !ok {
		return nil, false
	}
	return s.TryGet(id)
}

// NumTasks returns the number of tasks spawned so far in this execution.
func (s *ExecutionState) NumTasks() int { return len(s.tasks) }

func (s *ExecutionState) spawnThread(fn func(Yielder), stackSize int, name string) TaskId {
	if stackSize <= 0 {
		stackSize = s.cfg.StackSize
	}
	id := TaskId(len(s.tasks))
	s.tasks = append(s.tasks, newTask(fn, stackSize, id, name, s.pool))
	return id
}

// nextPos advances and returns the current task's position.
func (s *ExecutionState) nextPos() Event {
	t := s.Current()
	tid := s.strategy.ToThreadID(t.id)
	t.instructions++
	return Event{ThreadID: tid, Instr: uint32(t.instructions)}
}

// prevPos rewinds and returns the current task's position; used only by
// primitives that want to re-issue the same position (spec.md §9).
func (s *ExecutionState) prevPos() Event {
	t := s.Current()
	tid := s.strategy.ToThreadID(t.id)
	t.instructions--
	return Event{ThreadID: tid, Instr: uint32(t.instructions)}
}

// currPosLocked returns the current task's position without advancing it.
// Named with the Locked suffix because, unlike nextPos/prevPos, it is also
// called from failureInfo, which already holds the state's lock via
// TryWith.
func (s *ExecutionState) currPosLocked() Event {
	t := s.Current()
	tid := s.strategy.ToThreadID(t.id)
	return Event{ThreadID: tid, Instr: uint32(t.instructions)}
}

// schedule runs the scheduling decision procedure once. It is idempotent:
// if a decision is already pending (next != None), it returns immediately.
// The error return exists for shape-fidelity with the source (which models
// scheduling failure explicitly) even though no path here currently
// produces one.
func (s *ExecutionState) schedule() error {
	if s.next.kind != schedNone {
		return nil
	}

	runnable := make([]RunnableTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.Runnable() {
			runnable = append(runnable, RunnableTask{ID: t.id, Instructions: t.instructions})
		}
	}

	if len(runnable) == 0 {
		if s.allFinished() {
			s.next = scheduled{kind: schedFinished}
		} else {
			// Tasks remain, but none are runnable: nobody will ever make
			// progress again.
			s.next = scheduled{kind: schedDeadlock}
		}
		return nil
	}

	last, hasLast := s.current.taskID()
	if chosen, ok := s.strategy.NextTask(runnable, last, hasLast); ok {
		s.next = someScheduled(chosen)
	} else {
		s.next = scheduled{kind: schedStopped}
	}
	return nil
}

func (s *ExecutionState) allFinished() bool {
	for _, t := range s.tasks {
		if !t.Finished() {
			return false
		}
	}
	return true
}

// blockedTaskNames returns the display names of every task that is neither
// finished nor runnable, in id order — the deadlock report's "blocked
// tasks" list.
func (s *ExecutionState) blockedTaskNames() []string {
	var names []string
	for _, t := range s.tasks {
		if !t.Finished() && !t.Runnable() {
			names = append(names, t.String())
		}
	}
	return names
}

// advanceToNextTask moves the pending scheduling decision into current,
// resetting next to None.
func (s *ExecutionState) advanceToNextTask() {
	if s.next.kind == schedNone {
		panic("cohort: advanceToNextTask called before a scheduling decision was made")
	}
	s.current = s.next
	s.next = scheduled{kind: schedNone}
}

// cleanup asserts the execution reached an absorbing state and releases
// the task registry and its continuation pool. It must run before the
// ExecutionState is discarded (see Execution.Run), matching the source's
// drop-time debug assertion, except this port checks unconditionally
// rather than only in debug builds (Go has no cfg(debug_assertions)
// equivalent worth reaching for here, and the check is cheap).
func (s *ExecutionState) cleanup() {
	switch s.current.kind {
	case schedStopped, schedFinished, schedDeadlock:
	default:
		panic("cohort: cleanup called before the execution reached an absorbing state")
	}

	final := s.current.kind
	tasks := s.tasks
	s.tasks = nil

	// Stopped (the Strategy chose to abandon exploration) and Deadlock
	// (by definition some tasks are stuck) both legitimately leave
	// unfinished tasks behind; only a clean Finished requires every task
	// to have completed.
	if final == schedFinished {
		for _, t := range tasks {
			if !t.Finished() {
				panic(fmt.Sprintf("cohort: execution finished but task %s is not", t))
			}
		}
	}

	s.pool.shutdown()
	s.cleanedUp = true
}
