// Package stats maintains a bounded history of analyzed game state and
// exposes a temporally smoothed view of it.
package stats

import (
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/callout-gg/callout/pkg/vision"
)

// DefaultCapacity holds two seconds of history at the nominal 15 Hz
// analysis rate.
const DefaultCapacity = 30

// Smoothed is the aggregate view over the current history window.
type Smoothed struct {
	// AvgHP is the mean of all known HP readings in history,
	// nil when no frame in the window produced one.
	AvgHP *float64

	// MaxEnemies is the largest enemy count observed in the window.
	MaxEnemies int

	// Latest is the most recently recorded snapshot, verbatim.
	Latest vision.State
}

// Aggregator is a fixed-capacity ring of snapshots. It is written from the
// analysis path and read from the command dispatcher; both may live on
// different goroutines, so access is locked.
type Aggregator struct {
	mu       sync.RWMutex
	buf      []vision.State
	head     int // next write position
	size     int
	capacity int
}

// New creates an aggregator holding up to capacity snapshots.
func New(capacity int) *Aggregator {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Aggregator{
		buf:      make([]vision.State, capacity),
		capacity: capacity,
	}
}

// Record appends a snapshot, evicting the oldest when full.
func (a *Aggregator) Record(s vision.State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.buf[a.head] = s
	a.head = (a.head + 1) % a.capacity
	if a.size < a.capacity {
		a.size++
	}
}

// Len returns the number of snapshots currently held.
func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.size
}

// Smoothed returns the aggregate view, or nil when history is empty.
func (a *Aggregator) Smoothed() *Smoothed {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.size == 0 {
		return nil
	}

	var hpValues []float64
	maxEnemies := 0
	for i := 0; i < a.size; i++ {
		s := a.at(i)
		if s.HPPercent != nil {
			hpValues = append(hpValues, *s.HPPercent)
		}
		if n := len(s.Enemies); n > maxEnemies {
			maxEnemies = n
		}
	}

	out := &Smoothed{
		MaxEnemies: maxEnemies,
		Latest:     a.at(a.size - 1),
	}
	if len(hpValues) > 0 {
		avg := stat.Mean(hpValues, nil)
		out.AvgHP = &avg
	}
	return out
}

// at returns the i-th oldest snapshot. Caller holds the lock.
func (a *Aggregator) at(i int) vision.State {
	if a.size < a.capacity {
		return a.buf[i]
	}
	return a.buf[(a.head+i)%a.capacity]
}
