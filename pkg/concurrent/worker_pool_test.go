package concurrent

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	const jobs = 100

	wp := NewWorkerPool[int, int](4, jobs)
	for i := 0; i < jobs; i++ {
		wp.AddJob(i)
	}
	wp.Close()

	wp.Start(func(job int) int { return job * 2 })
	wp.Wait()

	var results []int
	for res := range wp.CollectResults() {
		results = append(results, res)
	}
	sort.Ints(results)

	assert.Len(t, results, jobs)
	for i, got := range results {
		assert.Equal(t, i*2, got)
	}
}

func TestWorkerPoolDefaultsWorkerCount(t *testing.T) {
	wp := NewWorkerPool[int, int](0, 1)
	assert.Greater(t, wp.numWorkers, 0)

	wp.AddJob(7)
	wp.Close()
	wp.Start(func(job int) int { return job })
	wp.Wait()

	assert.Equal(t, 7, <-wp.CollectResults())
}
