package goid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_StableWithinGoroutine(t *testing.T) {
	a := Get()
	b := Get()
	assert.Equal(t, a, b)
}

func TestGet_DistinctAcrossGoroutines(t *testing.T) {
	var wg sync.WaitGroup
	ids := make(chan uint64, 2)
	wg.Add(2)
	for range 2 {
		go func() {
			defer wg.Done()
			ids <- Get()
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[uint64]bool{}
	for id := range ids {
		seen[id] = true
	}
	assert.Len(t, seen, 2)
	assert.NotContains(t, seen, Get())
}
