package cohort

import "fmt"

// Execution drives one deterministic run of a program under a Strategy:
// it owns an ExecutionState, spawns the root task, and repeatedly resumes
// whichever task the Strategy selects until the program reaches a
// terminal state.
type Execution struct {
	state  *ExecutionState
	logger Logger
	sink   FailureSink
}

// NewExecution prepares an Execution that will run tasks under strategy,
// configured by opts (see WithLogger, WithStackSize, WithContinuationPoolSize,
// WithFailureSink).
func NewExecution(strategy Strategy, opts ...Option) *Execution {
	cfg := resolveConfig(opts)
	return &Execution{
		state:  newExecutionState(strategy, cfg),
		logger: cfg.Logger,
		sink:   cfg.FailureSink,
	}
}

// State returns the Execution's ExecutionState, for callers that need to
// inspect it directly (primarily tests). It must not be used to bypass
// With/TryWith while a Run is in flight.
func (e *Execution) State() *ExecutionState { return e.state }

// Run spawns root as the program's single initial task and drives the
// scheduling loop to completion. It returns nil if every task ran to
// completion, or if the Strategy chose to stop exploring early (a
// controlled stop, not a failure). It returns a *DeadlockError if tasks
// remain but none are runnable, a *PanicError if a task's closure panicked,
// or a *SchedulerInvariantError if the engine itself detects a broken
// invariant.
func (e *Execution) Run(root func(Yielder)) (err error) {
	s := e.state
	logger := e.logger

	rootID := s.spawnThread(root, 0, "root")
	logger.Info().Str("task", s.Get(rootID).String()).Msg("execution started")

	defer func() {
		s.cleanup()
		if err != nil {
			logger.Error().Err(err).Msg("execution finished with failure")
		} else {
			logger.Info().Msg("execution finished")
		}
	}()

	for {
		// Phase A — choose. This runs on every iteration, including the
		// first: the source's Execution::run seeds task 0 and then enters
		// the very same `while self.step() {}` loop, whose step() always
		// calls schedule() before advance_to_next_task(), so even the root
		// task is selected by asking the Strategy (runnable=[(0,0)],
		// last=None) rather than assumed.
		if s.next.kind == schedNone {
			_ = s.schedule()
		}

		switch s.next.kind {
		case schedSome:
			s.advanceToNextTask()
		case schedStopped:
			s.current = scheduled{kind: schedStopped}
			s.next = scheduled{kind: schedNone}
			return nil
		case schedFinished:
			s.current = scheduled{kind: schedFinished}
			s.next = scheduled{kind: schedNone}
			return nil
		case schedDeadlock:
			blocked := s.blockedTaskNames()
			s.current = scheduled{kind: schedDeadlock}
			s.next = scheduled{kind: schedNone}
			derr := &DeadlockError{Blocked: blocked}
			persistIfConfigured(e.sink, derr.Error(), nil)
			return derr
		default:
			return &SchedulerInvariantError{Message: "cohort: schedule() left no decision pending"}
		}

		id, ok := s.current.taskID()
		if !ok {
			return &SchedulerInvariantError{Message: "cohort: driver has no current task to resume"}
		}
		task := s.Get(id)
		if task.Finished() {
			return &SchedulerInvariantError{Message: fmt.Sprintf("cohort: scheduler selected already-finished task %s", task)}
		}

		// Phase B — resume, outside of any state borrow.
		outcome, stepErr := task.continuation.Resume()

		// Phase C — classify.
		if stepErr != nil {
			task.Finish()
			s.current = scheduled{kind: schedStopped}
			if pe, ok := stepErr.(*PanicError); ok {
				pos := ""
				if pe.Position != nil {
					pos = pe.Position.String()
				}
				recorded := persistIfConfigured(e.sink, pe.Error(), pe.Position)
				if recorded != "" {
					logger.Warn().Str("task", pe.TaskName).Str("pos", pos).Msg(recorded)
					// Matches the source's re-raise: when the original panic
					// payload was a plain string, the propagated payload
					// becomes "<persist message>\noriginal panic: <string>";
					// an opaque (non-string) payload is forwarded unchanged.
					if original, ok := pe.Value.(string); ok {
						pe.Value = fmt.Sprintf("%s\noriginal panic: %s", recorded, original)
					}
				}
			}
			return stepErr
		}

		if outcome == Finished {
			task.Finish()
		}
	}
}

// persistIfConfigured calls sink.PersistTaskFailure if sink is non-nil,
// returning its recorded-location message (or "" if sink is nil).
func persistIfConfigured(sink FailureSink, message string, pos *Event) string {
	if sink == nil {
		return ""
	}
	return sink.PersistTaskFailure(message, pos)
}
