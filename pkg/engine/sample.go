//go:build linux

package engine

import (
	"math"
	"time"

	"filepace/pkg/system/proc"
)

// takeSample selects the primary open file from a candidate set and
// computes the instantaneous progress fraction.
func takeSample(files []OpenFile, at time.Time) ProgressSample {
	s := ProgressSample{At: at}

	primary := selectPrimary(files)
	if primary == nil {
		return s
	}
	s.Primary = primary
	s.Counterpart = selectCounterpart(files, primary)

	if !primary.SizeKnown || primary.Size == 0 {
		return s // no denominator, progress unknown
	}

	f := float64(primary.Offset) / float64(primary.Size)
	if primary.Offset > primary.Size {
		// file grew after measurement, or we raced a reopen
		s.Suspect = true
	}
	s.Fraction = clamp01(f)
	s.Known = true
	return s
}

// selectPrimary picks the single file that represents a target's overall
// progress. The choice is deterministic: largest known size wins, ties
// broken by lowest descriptor number; with no known sizes the highest
// current offset wins as a proxy for the most active file.
func selectPrimary(files []OpenFile) *OpenFile {
	var best *OpenFile

	for i := range files {
		f := &files[i]
		if !f.SizeKnown {
			continue
		}
		if best == nil || f.Size > best.Size || (f.Size == best.Size && f.FD < best.FD) {
			best = f
		}
	}
	if best != nil {
		return best
	}

	for i := range files {
		f := &files[i]
		if best == nil || f.Offset > best.Offset || (f.Offset == best.Offset && f.FD < best.FD) {
			best = f
		}
	}
	return best
}

// selectCounterpart picks the largest file the target holds open in the
// opposite direction of the primary, using the same ordering as
// selectPrimary. A read-write primary has no single opposite direction
// and gets no counterpart.
func selectCounterpart(files []OpenFile, primary *OpenFile) *OpenFile {
	var want proc.AccessMode
	switch primary.Mode {
	case proc.ReadOnly:
		want = proc.WriteOnly
	case proc.WriteOnly:
		want = proc.ReadOnly
	default:
		return nil
	}

	var best *OpenFile
	for i := range files {
		f := &files[i]
		if f.FD == primary.FD || f.Mode != want || !f.SizeKnown {
			continue
		}
		if best == nil || f.Size > best.Size || (f.Size == best.Size && f.FD < best.FD) {
			best = f
		}
	}
	if best != nil {
		return best
	}

	for i := range files {
		f := &files[i]
		if f.FD == primary.FD || f.Mode != want {
			continue
		}
		if best == nil || f.Offset > best.Offset || (f.Offset == best.Offset && f.FD < best.FD) {
			best = f
		}
	}
	return best
}

func clamp01(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
