package engine

import "errors"

var (
	// ErrNoSuchPID indicates that an explicitly requested PID does not
	// exist. Surfaced as a per-target warning, never fatal.
	ErrNoSuchPID = errors.New("engine: no such pid")

	// ErrNoTargets indicates that resolution found nothing to watch and
	// the run mode does not keep waiting for new matches.
	ErrNoTargets = errors.New("engine: no matching process")

	// ErrQueryTimeout indicates that a per-target procfs query exceeded
	// the configured timeout. Treated as that target's enumeration
	// failure for the tick.
	ErrQueryTimeout = errors.New("engine: query timed out")

	// ErrBadInterval indicates a non-positive poll interval.
	ErrBadInterval = errors.New("engine: interval must be > 0")
)
