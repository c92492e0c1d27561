// Package engine estimates the progress of already-running file-processing
// commands (cp, dd, tar and friends) without any cooperation from the
// observed process. It compares the current offset of a process's open file
// descriptors against file sizes and tracks offsets over time for a
// throughput estimate.
//
// The monitor drives resolve → enumerate → sample → emit ticks over a
// ProcessTable. Per-tick state (targets, open files) is rebuilt from
// scratch every tick; only the throughput rings survive across ticks.
// Snapshots are the sole output: one record per watched process per tick,
// handed to the caller's emit function in stable resolution order.
//
// Failures are contained at their own scope: a vanished descriptor drops
// one candidate, a vanished process marks one target dead, and only an
// unreadable process table degrades the whole tick (the loop retries on
// the next tick rather than terminating).
package engine
