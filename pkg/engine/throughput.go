//go:build linux

package engine

import (
	"time"

	"filepace/pkg/types"
)

// minElapsed guards the rate division against near-zero windows.
const minElapsed = time.Millisecond

type histKey struct {
	pid  int
	path string
}

type point struct {
	at  time.Time
	off types.Bytes
}

type ring struct {
	pts []point
}

// Estimator derives a smoothed bytes/sec rate from per-(target, path)
// offset history. Rings are the only state that survives across ticks;
// they are owned by the monitor loop and must not be mutated concurrently.
type Estimator struct {
	capacity int
	window   time.Duration
	rings    map[histKey]*ring
}

// NewEstimator builds an estimator whose rings hold at most capacity
// samples spanning at most window. Out-of-range arguments fall back to
// defaults (10 samples, 30s).
func NewEstimator(capacity int, window time.Duration) *Estimator {
	if capacity < 2 {
		capacity = 10
	}
	if window <= 0 {
		window = 30 * time.Second
	}
	return &Estimator{
		capacity: capacity,
		window:   window,
		rings:    make(map[histKey]*ring),
	}
}

// Observe records one (offset, timestamp) reading for a target's primary
// path and returns the current rate estimate. The first observation of a
// pair reports unknown, as does the tick that detects an offset decrease
// (truncation or reopen resets the ring rather than producing a negative
// rate).
func (e *Estimator) Observe(pid int, path string, offset types.Bytes, at time.Time) (types.Bytes, bool) {
	k := histKey{pid: pid, path: path}
	r := e.rings[k]
	if r == nil {
		r = &ring{}
		e.rings[k] = r
	}

	if n := len(r.pts); n > 0 {
		last := r.pts[n-1]
		if !at.After(last.at) {
			// timestamps must be monotonic within a ring; drop the reading
			return e.rate(r)
		}
		if offset < last.off {
			r.pts = append(r.pts[:0], point{at: at, off: offset})
			return 0, false
		}
	}

	r.pts = append(r.pts, point{at: at, off: offset})
	if len(r.pts) > e.capacity {
		r.pts = append(r.pts[:0], r.pts[1:]...)
	}
	// evict strictly by age; a ring left with one point reports unknown
	// rather than spanning more than the window
	for len(r.pts) > 1 && at.Sub(r.pts[0].at) > e.window {
		r.pts = append(r.pts[:0], r.pts[1:]...)
	}

	return e.rate(r)
}

func (e *Estimator) rate(r *ring) (types.Bytes, bool) {
	if len(r.pts) < 2 {
		return 0, false
	}
	oldest, newest := r.pts[0], r.pts[len(r.pts)-1]
	elapsed := newest.at.Sub(oldest.at)
	if elapsed < minElapsed {
		return 0, false
	}
	return types.Bytes(float64(newest.off-oldest.off) / elapsed.Seconds()), true
}

// Drop discards every ring belonging to a target. Called when a target is
// removed after its final dead snapshot.
func (e *Estimator) Drop(pid int) {
	for k := range e.rings {
		if k.pid == pid {
			delete(e.rings, k)
		}
	}
}

// Sweep discards rings that have not been observed within the window;
// their span is too stale to yield a meaningful rate and they would
// otherwise accumulate as primaries shift between files.
func (e *Estimator) Sweep(now time.Time) {
	for k, r := range e.rings {
		if n := len(r.pts); n == 0 || now.Sub(r.pts[n-1].at) > e.window {
			delete(e.rings, k)
		}
	}
}
