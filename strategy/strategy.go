// Package strategy provides reference cohort.Strategy implementations.
// spec.md treats Strategy purely as an external collaborator (picking
// which runnable task to resume, and mapping a TaskId to a stable
// scheduling thread id) and explicitly leaves building a real DPOR/random
// exploration strategy out of scope. Without a concrete one the engine is
// untestable in isolation, so this package supplies the minimal reference
// strategies a complete module needs: a deterministic baseline
// (Lowest, the one spec.md §8's scenarios are written against), a second
// independent shape exercising the same contract (RoundRobin), and a
// wrapper demonstrating the "Strategy abandons exploration" / Stopped path
// (Bounded) without needing real exploration logic.
package strategy

import "github.com/cohort-run/cohort"

// Lowest always resumes the runnable task with the smallest TaskId. It is
// deterministic and stateless, and is the mock strategy spec.md §8's
// scenarios assume.
type Lowest struct{}

// NextTask implements cohort.Strategy.
func (Lowest) NextTask(runnable []cohort.RunnableTask, _ cohort.TaskId, _ bool) (cohort.TaskId, bool) {
	if len(runnable) == 0 {
		return 0, false
	}
	lowest := runnable[0].ID
	for _, r := range runnable[1:] {
		if r.ID < lowest {
			lowest = r.ID
		}
	}
	return lowest, true
}

// ToThreadID implements cohort.Strategy by using the TaskId directly as
// the thread id: spawn order is the scheduling thread's identity.
func (Lowest) ToThreadID(id cohort.TaskId) uint64 { return uint64(id) }

// RoundRobin cycles through the runnable set starting just after the
// previously-run task, wrapping around to the lowest id. Unlike Lowest,
// its decision depends on `last`, exercising that half of the
// cohort.Strategy contract.
type RoundRobin struct{}

// NextTask implements cohort.Strategy.
func (RoundRobin) NextTask(runnable []cohort.RunnableTask, last cohort.TaskId, hasLast bool) (cohort.TaskId, bool) {
	if len(runnable) == 0 {
		return 0, false
	}
	if !hasLast {
		return lowestOf(runnable), true
	}
	best, found := cohort.TaskId(0), false
	for _, r := range runnable {
		if r.ID > last && (!found || r.ID < best) {
			best, found = r.ID, true
		}
	}
	if found {
		return best, true
	}
	return lowestOf(runnable), true
}

// ToThreadID implements cohort.Strategy.
func (RoundRobin) ToThreadID(id cohort.TaskId) uint64 { return uint64(id) }

func lowestOf(runnable []cohort.RunnableTask) cohort.TaskId {
	lowest := runnable[0].ID
	for _, r := range runnable[1:] {
		if r.ID < lowest {
			lowest = r.ID
		}
	}
	return lowest
}

// Bounded wraps another Strategy and abandons exploration (returns
// ok == false, driving the engine to the Stopped state) once Limit
// scheduling decisions have been delegated. It demonstrates spec.md §7's
// "Strategy chooses to stop" path without requiring a real DPOR
// implementation to exercise it.
type Bounded struct {
	Inner cohort.Strategy
	Limit int

	decisions int
}

// NextTask implements cohort.Strategy.
func (b *Bounded) NextTask(runnable []cohort.RunnableTask, last cohort.TaskId, hasLast bool) (cohort.TaskId, bool) {
	if b.decisions >= b.Limit {
		return 0, false
	}
	b.decisions++
	return b.Inner.NextTask(runnable, last, hasLast)
}

// ToThreadID implements cohort.Strategy by delegating to Inner.
func (b *Bounded) ToThreadID(id cohort.TaskId) uint64 { return b.Inner.ToThreadID(id) }
