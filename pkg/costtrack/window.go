package costtrack

import (
	"sync"
	"time"
)

// rollingWindow tracks spend over a rolling time window divided into
// fixed-size buckets. Old buckets are pruned as they fall outside the
// window. Thread-safe.
type rollingWindow struct {
	window     time.Duration
	bucketSize time.Duration
	buckets    []bucket
	mu         sync.Mutex
}

// bucket accumulates spend for one time interval.
type bucket struct {
	timestamp time.Time
	amount    float64
}

// newRollingWindow creates a window of the given duration and bucket
// granularity.
func newRollingWindow(window, bucketSize time.Duration) *rollingWindow {
	n := int(window / bucketSize)
	if n == 0 {
		n = 1
	}
	return &rollingWindow{
		window:     window,
		bucketSize: bucketSize,
		buckets:    make([]bucket, n),
	}
}

// addAt records spend at an explicit time. Entries already outside the
// window are dropped; this is what lets a persistence store replay history
// on startup.
func (rw *rollingWindow) addAt(at time.Time, amount float64) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	now := time.Now()
	rw.pruneLocked(now)

	if at.Before(now.Add(-rw.window)) {
		return
	}
	rw.bucketForLocked(at.Truncate(rw.bucketSize)).amount += amount
}

// sum returns the total spend inside the window.
func (rw *rollingWindow) sum() float64 {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	rw.pruneLocked(time.Now())

	var total float64
	for i := range rw.buckets {
		if !rw.buckets[i].timestamp.IsZero() {
			total += rw.buckets[i].amount
		}
	}
	return total
}

// pruneLocked clears buckets older than the window. Caller holds mu.
func (rw *rollingWindow) pruneLocked(now time.Time) {
	cutoff := now.Add(-rw.window)
	for i := range rw.buckets {
		if !rw.buckets[i].timestamp.IsZero() && rw.buckets[i].timestamp.Before(cutoff) {
			rw.buckets[i] = bucket{}
		}
	}
}

// bucketForLocked finds the bucket for a boundary-aligned timestamp,
// reusing an empty slot or evicting the oldest. Caller holds mu.
func (rw *rollingWindow) bucketForLocked(at time.Time) *bucket {
	for i := range rw.buckets {
		if rw.buckets[i].timestamp.Equal(at) {
			return &rw.buckets[i]
		}
	}

	target := -1
	for i := range rw.buckets {
		if rw.buckets[i].timestamp.IsZero() {
			target = i
			break
		}
	}
	if target == -1 {
		target = 0
		for i := 1; i < len(rw.buckets); i++ {
			if rw.buckets[i].timestamp.Before(rw.buckets[target].timestamp) {
				target = i
			}
		}
	}

	rw.buckets[target] = bucket{timestamp: at}
	return &rw.buckets[target]
}
