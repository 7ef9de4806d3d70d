package mocks

import (
	"sync"

	"github.com/mcoot/snakegame/internal/dependencies/random"
)

// MockRandom returns queued values from Intn
type MockRandom struct {
	mu      sync.Mutex
	results []int
	index   int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining.
// Queued values are not reduced modulo n.
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.index >= len(r.results) {
		return 0
	}
	result := r.results[r.index]
	r.index++
	return result
}

// QueueIntn adds values to the result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = nil
	r.index = 0
}
