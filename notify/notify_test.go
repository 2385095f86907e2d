package notify_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohort-run/cohort"
	"github.com/cohort-run/cohort/notify"
	"github.com/cohort-run/cohort/strategy"
)

// recorder is a tiny goroutine-safe log used throughout these tests to
// observe the order events actually happened in. A plain mutex is enough:
// cohort's cooperative scheduler only ever has one task's code running at
// a time, so there's no real contention, but the tests exercise real
// goroutines underneath and a race detector should stay quiet regardless.
type recorder struct {
	mu  sync.Mutex
	log []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, s)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.log))
	copy(out, r.log)
	return out
}

// TestNotify_SingleWakeupWithPriorSignal is spec.md §8 scenario 4: root
// notifies before any waiter exists, then spawns a child awaiting
// Notified; the child's wait must observe the latched state and resolve
// without ever registering as a waiter.
func TestNotify_SingleWakeupWithPriorSignal(t *testing.T) {
	n := notify.New()
	rec := &recorder{}

	root := func(y cohort.Yielder) {
		n.NotifyOne()
		rec.add("root:notified-before-spawn")
		cohort.SpawnThread(func(y cohort.Yielder) {
			n.Notified().Wait(y)
			rec.add("child:woke")
		}, 0, "child")
	}

	exec := cohort.NewExecution(strategy.Lowest{})
	require.NoError(t, exec.Run(root))

	assert.Equal(t, []string{"root:notified-before-spawn", "child:woke"}, rec.snapshot())
}

// TestNotify_TwoNotifiesOneReceived is spec.md §8 scenario 5: two
// notify_one calls with no waiter present latch a single pending
// notification (idempotent — state doesn't become "2"); one child
// consumes it via the fast path, a second child must actually register as
// a waiter and block until a further notify_one wakes it.
func TestNotify_TwoNotifiesOneReceived(t *testing.T) {
	n := notify.New()
	rec := &recorder{}

	root := func(y cohort.Yielder) {
		n.NotifyOne()
		n.NotifyOne()
		rec.add("root:double-notify")
		cohort.SpawnThread(func(y cohort.Yielder) {
			n.Notified().Wait(y)
			rec.add("child1:woke")
			// Yield once so the round-robin strategy gives child2 a turn
			// to register as a waiter before this notify_one fires —
			// otherwise nothing would be left to exercise the FIFO queue.
			cohort.MaybeYield(y)
			n.NotifyOne()
			rec.add("child1:notified-child2")
		}, 0, "child1")
		cohort.SpawnThread(func(y cohort.Yielder) {
			n.Notified().Wait(y)
			rec.add("child2:woke")
		}, 0, "child2")
	}

	exec := cohort.NewExecution(&strategy.RoundRobin{})
	require.NoError(t, exec.Run(root))

	assert.Equal(t, []string{
		"root:double-notify",
		"child1:woke",
		"child1:notified-child2",
		"child2:woke",
	}, rec.snapshot())
}

// TestNotify_DeadlockWhenNeverSignaled is spec.md §8 scenario 3: a child
// awaits a Notify nobody ever signals; once root finishes, only the child
// remains, non-runnable forever, which the engine must report as a
// deadlock rather than a clean finish.
func TestNotify_DeadlockWhenNeverSignaled(t *testing.T) {
	n := notify.New()

	root := func(y cohort.Yielder) {
		cohort.SpawnThread(func(y cohort.Yielder) {
			n.Notified().Wait(y)
		}, 0, "waiter")
	}

	exec := cohort.NewExecution(strategy.Lowest{})
	err := exec.Run(root)

	var derr *cohort.DeadlockError
	require.ErrorAs(t, err, &derr)
	assert.Len(t, derr.Blocked, 1)
	assert.Contains(t, derr.Blocked[0], "waiter")
}

// TestNotify_FIFOOrdering is spec.md §8's "Notify FIFO" property: for k
// waiters enqueued in order w1..wk, k notify_one calls with no interleaved
// new waiters wake them in that same order.
func TestNotify_FIFOOrdering(t *testing.T) {
	n := notify.New()
	rec := &recorder{}
	const numWaiters = 3

	var blocked int
	var mu sync.Mutex
	markBlocked := func() {
		mu.Lock()
		blocked++
		mu.Unlock()
	}
	allBlocked := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return blocked == numWaiters
	}

	root := func(y cohort.Yielder) {
		for i := 0; i < numWaiters; i++ {
			i := i
			cohort.SpawnThread(func(y cohort.Yielder) {
				markBlocked()
				n.Notified().Wait(y)
				rec.add(taskLabel(i))
			}, 0, taskLabel(i))
		}
		for !allBlocked() {
			cohort.MaybeYield(y)
		}
		for i := 0; i < numWaiters; i++ {
			n.NotifyOne()
		}
	}

	exec := cohort.NewExecution(&strategy.RoundRobin{})
	require.NoError(t, exec.Run(root))

	assert.Equal(t, []string{taskLabel(0), taskLabel(1), taskLabel(2)}, rec.snapshot())
}

func taskLabel(i int) string {
	return "w" + string(rune('0'+i))
}
