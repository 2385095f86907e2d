package cohort

// RunnableTask is one entry of the runnable set handed to a Strategy: a
// task's id paired with its current instruction count, so strategies that
// want to make progress- or DPOR-style decisions have enough information to
// do so without reaching back into the engine.
type RunnableTask struct {
	ID           TaskId
	Instructions uint64
}

// Strategy is the external exploration strategy the engine depends on but
// does not implement (DPOR, random, round-robin, ...). It picks which
// runnable task to resume next, and supplies the stable thread-id mapping
// Event positions are built from.
//
// NextTask is called with the full runnable set (not just "some" runnable
// task) and the previously-run task, if any, so the Strategy can make
// informed choices; it returns the chosen TaskId and true, or false to
// abandon exploring this execution (the engine transitions to Stopped,
// which is a controlled stop, not a failure).
type Strategy interface {
	NextTask(runnable []RunnableTask, last TaskId, hasLast bool) (TaskId, bool)
	ToThreadID(id TaskId) uint64
}
