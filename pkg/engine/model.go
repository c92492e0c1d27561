//go:build linux

package engine

import (
	"fmt"
	"time"

	"filepace/pkg/system/proc"
	"filepace/pkg/types"
)

// Spec is the user-supplied selection of processes to watch.
type Spec struct {
	// PIDs are explicit process IDs, monitored regardless of command name.
	PIDs []int
	// Commands are executable names matched exactly against the live
	// process table.
	Commands []string
	// AdditionalCommands extends Commands without replacing it.
	AdditionalCommands []string
}

// Empty reports whether the spec selects nothing.
func (s Spec) Empty() bool {
	return len(s.PIDs) == 0 && len(s.Commands) == 0 && len(s.AdditionalCommands) == 0
}

func (s Spec) watchList() map[string]struct{} {
	if len(s.Commands) == 0 && len(s.AdditionalCommands) == 0 {
		return nil
	}
	m := make(map[string]struct{}, len(s.Commands)+len(s.AdditionalCommands))
	for _, c := range s.Commands {
		m[c] = struct{}{}
	}
	for _, c := range s.AdditionalCommands {
		m[c] = struct{}{}
	}
	return m
}

// Rule records why a target was selected.
type Rule int

const (
	RuleExplicitPID Rule = iota
	RuleCommandMatch
)

func (r Rule) String() string {
	if r == RuleExplicitPID {
		return "pid"
	}
	return "command"
}

// Target is one process being monitored. Identity is the PID; the rule is
// metadata only and never keys any cross-tick state.
type Target struct {
	PID     int
	Command string
	Rule    Rule
}

// Warning is a non-fatal resolution problem, typically a requested PID
// that does not exist.
type Warning struct {
	PID int
	Err error
}

func (w Warning) String() string {
	return fmt.Sprintf("pid %d: %v", w.PID, w.Err)
}

// OpenFile is one seekable regular file held by a target at sampling time.
// Instances are rebuilt every tick; a descriptor number is only a stable
// identity within a single tick.
type OpenFile struct {
	FD        int
	Path      string
	Offset    types.Bytes
	Size      types.Bytes
	SizeKnown bool // false when the file reports no usable size
	Mode      proc.AccessMode
	Append    bool
}

// ProgressSample is the per-tick progress reading derived from a target's
// open-file candidates.
type ProgressSample struct {
	Primary *OpenFile
	// Counterpart is the largest file open in the opposite direction of
	// the primary, when one exists (a copy's destination, say).
	Counterpart *OpenFile
	Fraction    float64 // valid only when Known
	Known       bool
	Suspect     bool // raw offset exceeded the size and was clamped
	At          time.Time
}

// RunMode selects how the monitor loop terminates.
type RunMode int

const (
	// RunOnce performs a single scan (optionally primed by a warmup scan
	// for throughput) and exits.
	RunOnce RunMode = iota
	// RunUntilExit keeps ticking until every originally matched target
	// has exited.
	RunUntilExit
	// RunContinuous ticks until the context is cancelled.
	RunContinuous
)

// Config configures a Monitor.
type Config struct {
	Spec     Spec
	Interval time.Duration
	Mode     RunMode

	// MaxDuration optionally caps the total run time (0 = no cap).
	MaxDuration time.Duration
	// Warmup is the delay between the priming scan and the reported scan
	// in RunOnce mode; 0 skips the priming scan (throughput unknown).
	Warmup time.Duration

	// HistoryDepth bounds each throughput ring (samples).
	HistoryDepth int
	// Window bounds each throughput ring (age of the oldest sample).
	Window time.Duration
	// QueryTimeout bounds every per-target procfs query.
	QueryTimeout time.Duration
	// MinSize drops candidate files smaller than this from primary-file
	// selection (0 = keep everything). Files of unknown size are kept.
	MinSize types.Bytes

	// Table overrides the process table, for tests. Nil means live procfs.
	Table ProcessTable
}

// Snapshot is the published per-target record for one tick. Snapshots are
// immutable once emitted; consumers must not retain them across render
// cycles.
type Snapshot struct {
	TargetID int
	Command  string
	Rule     Rule

	Fraction      float64 // valid only when FractionKnown
	FractionKnown bool
	Suspect       bool

	Offset    types.Bytes
	Size      types.Bytes
	SizeKnown bool

	Throughput      types.Bytes // bytes/sec, valid only when ThroughputKnown
	ThroughputKnown bool

	PrimaryPath string
	Mode        proc.AccessMode
	Append      bool
	// CounterpartPath is the other side of the transfer when the target
	// holds files open in both directions (the destination of a copy
	// whose primary is the source, or vice versa).
	CounterpartPath string

	Dead bool
	At   time.Time
}

// Frame is one tick's emission: all snapshots plus resolution warnings.
// Err is set when the process table itself was unreadable this tick; the
// loop retries on the next tick.
type Frame struct {
	Tick      int
	At        time.Time
	Snapshots []Snapshot
	Warnings  []Warning
	Err       error
}

// EmitFunc consumes one frame per tick. It must not mutate or retain the
// snapshots beyond the call.
type EmitFunc func(Frame)
