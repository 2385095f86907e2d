package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cohort-run/cohort"
	"github.com/cohort-run/cohort/strategy"
)

func runnable(ids ...cohort.TaskId) []cohort.RunnableTask {
	out := make([]cohort.RunnableTask, len(ids))
	for i, id := range ids {
		out[i] = cohort.RunnableTask{ID: id}
	}
	return out
}

func TestLowest_PicksSmallestID(t *testing.T) {
	var s strategy.Lowest
	id, ok := s.NextTask(runnable(3, 1, 2), 0, true)
	assert.True(t, ok)
	assert.Equal(t, cohort.TaskId(1), id)
}

func TestLowest_NoRunnable(t *testing.T) {
	var s strategy.Lowest
	_, ok := s.NextTask(nil, 0, false)
	assert.False(t, ok)
}

func TestRoundRobin_WrapsAround(t *testing.T) {
	var s strategy.RoundRobin
	id, ok := s.NextTask(runnable(0, 1, 2), 2, true)
	assert.True(t, ok)
	assert.Equal(t, cohort.TaskId(0), id, "wraps to lowest once last is the highest runnable id")
}

func TestRoundRobin_AdvancesPastLast(t *testing.T) {
	var s strategy.RoundRobin
	id, ok := s.NextTask(runnable(0, 1, 2), 0, true)
	assert.True(t, ok)
	assert.Equal(t, cohort.TaskId(1), id)
}

func TestBounded_StopsAfterLimit(t *testing.T) {
	b := &strategy.Bounded{Inner: strategy.Lowest{}, Limit: 2}

	_, ok := b.NextTask(runnable(0, 1), 0, false)
	assert.True(t, ok)
	_, ok = b.NextTask(runnable(0, 1), 0, true)
	assert.True(t, ok)
	_, ok = b.NextTask(runnable(0, 1), 0, true)
	assert.False(t, ok, "third decision exceeds the bound and abandons exploration")
}
