package cohort

// This file holds the package-level engine surface: the operations the
// source exposes as ExecutionState associated functions (called without
// already holding a state reference, each wrapping its own With/TryWith),
// as opposed to the instance methods on *ExecutionState in execution.go
// (called from inside a With/TryWith closure, which already holds one).

// SpawnThread registers a new task running fn and returns its id. stackSize
// of 0 uses the execution's configured default. name is an optional debug
// label (pass "" for none); it shows up in deadlock and panic reports.
func SpawnThread(fn func(Yielder), stackSize int, name string) TaskId {
	return With(func(s *ExecutionState) TaskId {
		return s.spawnThread(fn, stackSize, name)
	})
}

// MaybeYield is the cooperative suspend hook primitives call when they want
// the Strategy to get a say in what runs next, without themselves blocking
// the calling task. It runs the scheduling decision under the state lock,
// releases the lock, and only then — outside the borrow — actually
// suspends the task if the Strategy chose someone else to run next. y is
// the calling task's own Yielder.
//
// It returns whether it yielded, mainly so tests can assert on it; callers
// driving real control flow don't need the return value.
func MaybeYield(y Yielder) bool {
	shouldYield := With(func(s *ExecutionState) bool {
		if _, ok := s.tryCurrent(); !ok {
			panic("cohort: MaybeYield called with no task current")
		}
		if s.next.kind != schedNone {
			panic("cohort: MaybeYield called while a scheduling decision is already pending")
		}
		_ = s.schedule()

		cur, _ := s.current.taskID()
		if id, ok := s.next.taskID(); ok && id == cur {
			// The Strategy chose to keep running us: consume the decision
			// now, since there will be no actual suspension for the driver
			// to pick it up after.
			s.next = scheduled{kind: schedNone}
			return false
		}
		// Someone else (or nobody) is next; leave the decision in s.next
		// for the driver to pick up once we actually suspend below.
		return true
	})
	if shouldYield {
		y.Yield()
	}
	return shouldYield
}

// NextPos advances and returns the calling task's position, the Event a
// primitive should attach to the action it's about to perform.
func NextPos() Event {
	return With(func(s *ExecutionState) Event { return s.nextPos() })
}

// PrevPos rewinds and returns the calling task's position, for primitives
// that need to re-issue the same position across a retry.
func PrevPos() Event {
	return With(func(s *ExecutionState) Event { return s.prevPos() })
}

// CurrPos returns the calling task's position without advancing it.
func CurrPos() Event {
	return With(func(s *ExecutionState) Event { return s.currPosLocked() })
}
