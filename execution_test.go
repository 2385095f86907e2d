package cohort_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohort-run/cohort"
	"github.com/cohort-run/cohort/strategy"
)

// TestRun_RootReturnsImmediately is spec.md §8 scenario 1: a root closure
// that does nothing finishes on the first resume, and the execution
// completes with no error.
func TestRun_RootReturnsImmediately(t *testing.T) {
	exec := cohort.NewExecution(strategy.Lowest{})
	err := exec.Run(func(cohort.Yielder) {})
	require.NoError(t, err)
}

// TestRun_StrategyCanAbandonBeforeRootRuns is spec.md §4.4/§7 item 3: even
// the very first scheduling decision (selecting the root task) must go
// through the Strategy, so a Strategy that abandons immediately stops the
// run before root ever resumes once.
func TestRun_StrategyCanAbandonBeforeRootRuns(t *testing.T) {
	ran := false
	bounded := &strategy.Bounded{Inner: strategy.Lowest{}, Limit: 0}

	exec := cohort.NewExecution(bounded)
	err := exec.Run(func(cohort.Yielder) {
		ran = true
	})

	require.NoError(t, err)
	assert.False(t, ran, "root must not resume when the Strategy abandons on the first decision")
}

// TestRun_SpawnAndJoin is spec.md §8 scenario 2: root spawns a child that
// only records itself, then calls MaybeYield (under Lowest the Strategy
// keeps root running, so the child runs after root returns); both tasks
// must finish.
func TestRun_SpawnAndJoin(t *testing.T) {
	var mu sync.Mutex
	var finished []string

	exec := cohort.NewExecution(strategy.Lowest{})
	err := exec.Run(func(y cohort.Yielder) {
		cohort.SpawnThread(func(cohort.Yielder) {
			mu.Lock()
			finished = append(finished, "child")
			mu.Unlock()
		}, 0, "child")
		cohort.MaybeYield(y)
		mu.Lock()
		finished = append(finished, "root")
		mu.Unlock()
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"root", "child"}, finished)
}

// TestRun_PanicPropagation is spec.md §8 scenario 6: root panics with the
// string "boom"; the returned error must be a *PanicError whose payload
// combines the failure sink's recorded message with the original panic
// text.
func TestRun_PanicPropagation(t *testing.T) {
	sink := cohort.NewInMemoryFailureSink(4)
	exec := cohort.NewExecution(strategy.Lowest{}, cohort.WithFailureSink(sink))

	err := exec.Run(func(cohort.Yielder) {
		panic("boom")
	})

	var pe *cohort.PanicError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "root", pe.TaskName)

	payload, ok := pe.Value.(string)
	require.True(t, ok, "string panic payloads must be re-raised as a combined string")
	assert.Contains(t, payload, "original panic: boom")

	failures := sink.Failures()
	require.Len(t, failures, 1)
	assert.True(t, strings.Contains(payload, failures[0].Message))
}

// TestRun_DenseTaskIDs is spec.md §8's "dense ids" property: spawned task
// ids are exactly {0, ..., n-1}.
func TestRun_DenseTaskIDs(t *testing.T) {
	exec := cohort.NewExecution(strategy.Lowest{})
	var seen []cohort.TaskId
	var mu sync.Mutex

	err := exec.Run(func(y cohort.Yielder) {
		mu.Lock()
		seen = append(seen, 0)
		mu.Unlock()
		for i := 0; i < 3; i++ {
			id := cohort.SpawnThread(func(cohort.Yielder) {}, 0, "")
			mu.Lock()
			seen = append(seen, id)
			mu.Unlock()
		}
	})
	require.NoError(t, err)

	ids := make(map[cohort.TaskId]bool)
	for _, id := range seen {
		ids[id] = true
	}
	for i := 0; i < len(seen); i++ {
		assert.True(t, ids[cohort.TaskId(i)], "task id %d missing from dense range", i)
	}
}

// TestRun_FinishedImpliesNotRunnable is spec.md §8's "finished ⇒ not
// runnable" property, checked via the driver's own cleanup invariant: if
// any finished task were still runnable, a clean Finished run would be
// impossible (schedule() would never see an empty runnable set). A
// successful, error-free Run is itself the property holding.
func TestRun_FinishedImpliesNotRunnable(t *testing.T) {
	exec := cohort.NewExecution(strategy.Lowest{})
	err := exec.Run(func(y cohort.Yielder) {
		cohort.SpawnThread(func(cohort.Yielder) {}, 0, "a")
		cohort.SpawnThread(func(cohort.Yielder) {}, 0, "b")
		cohort.MaybeYield(y)
	})
	require.NoError(t, err)
}

// TestRun_StrategyReceivesExactlyRunnableSet is spec.md §8's "Strategy
// contract" property: schedule calls NextTask with exactly the current
// runnable set. assertingStrategy fails the test if it's ever offered an
// empty set, and records the ids it is offered on every call so the test
// can compare them with the tasks that were runnable at each decision.
type assertingStrategy struct {
	t       *testing.T
	offered [][]cohort.TaskId
}

func (a *assertingStrategy) NextTask(runnable []cohort.RunnableTask, last cohort.TaskId, hasLast bool) (cohort.TaskId, bool) {
	if len(runnable) == 0 {
		a.t.Fatalf("NextTask called with an empty runnable set")
	}
	ids := make([]cohort.TaskId, len(runnable))
	for i, r := range runnable {
		ids[i] = r.ID
	}
	a.offered = append(a.offered, ids)
	return runnable[0].ID, true
}

func (*assertingStrategy) ToThreadID(id cohort.TaskId) uint64 { return uint64(id) }

func TestRun_StrategyReceivesExactlyRunnableSet(t *testing.T) {
	s := &assertingStrategy{t: t}
	exec := cohort.NewExecution(s)
	err := exec.Run(func(y cohort.Yielder) {
		cohort.SpawnThread(func(cohort.Yielder) {}, 0, "child")
		cohort.MaybeYield(y)
	})
	require.NoError(t, err)
	// Root alone; root and child at root's MaybeYield (root is kept);
	// child alone once root has finished.
	assert.Equal(t, [][]cohort.TaskId{{0}, {0, 1}, {1}}, s.offered)
}
