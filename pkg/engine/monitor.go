//go:build linux

package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"filepace/pkg/system/proc"
)

const defaultQueryTimeout = 500 * time.Millisecond

type targetState struct {
	target Target
	dead   bool
}

// Monitor owns the tick cycle: it re-resolves targets, enumerates their
// open files, samples progress and throughput, and emits one Frame per
// tick. Target lifetime and the throughput rings are the only state that
// spans ticks; everything else is rebuilt from scratch each round.
type Monitor struct {
	cfg Config
	tbl ProcessTable
	est *Estimator

	states   map[int]*targetState
	order    []int // emission order of the previous tick
	original map[int]struct{}
	matched  bool
	ticks    int
}

// New validates cfg and builds a Monitor. The zero values of HistoryDepth,
// Window and QueryTimeout fall back to defaults.
func New(cfg Config) (*Monitor, error) {
	if cfg.Mode != RunOnce && cfg.Interval <= 0 {
		return nil, ErrBadInterval
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = defaultQueryTimeout
	}
	tbl := cfg.Table
	if tbl == nil {
		tbl = ProcfsTable()
	}
	return &Monitor{
		cfg:      cfg,
		tbl:      tbl,
		est:      NewEstimator(cfg.HistoryDepth, cfg.Window),
		states:   make(map[int]*targetState),
		original: make(map[int]struct{}),
	}, nil
}

// Run drives the tick cycle until the configured termination condition or
// context cancellation. Cancellation is honored at tick boundaries only:
// the in-flight tick always finishes and emits, and a final frame is
// emitted before shutdown so consumers can show terminal state.
func (m *Monitor) Run(ctx context.Context, emit EmitFunc) error {
	if emit == nil {
		emit = func(Frame) {}
	}
	start := time.Now()

	if m.cfg.Mode == RunOnce {
		if m.cfg.Warmup > 0 {
			m.runTick(time.Now()) // prime the throughput rings, not emitted
			select {
			case <-ctx.Done():
				// still emit the final scan so consumers see terminal state
				emit(m.runTick(time.Now()))
				return nil
			case <-time.After(m.cfg.Warmup):
			}
		}
		f := m.runTick(time.Now())
		emit(f)
		if f.Err != nil {
			return f.Err
		}
		if len(f.Snapshots) == 0 {
			return ErrNoTargets
		}
		return nil
	}

	for {
		f := m.runTick(time.Now())
		emit(f)

		if m.cfg.Mode == RunUntilExit && f.Err == nil {
			if !m.matched {
				return ErrNoTargets
			}
			if m.allOriginalDead() {
				return nil
			}
		}
		if m.cfg.MaxDuration > 0 && time.Since(start) >= m.cfg.MaxDuration {
			return nil
		}

		// next tick is scheduled after this one completed; ticks never overlap
		t := time.NewTimer(m.cfg.Interval)
		select {
		case <-ctx.Done():
			t.Stop()
			emit(m.runTick(time.Now()))
			return nil
		case <-t.C:
		}
	}
}

// runTick executes one resolve → enumerate → sample → assemble cycle.
func (m *Monitor) runTick(now time.Time) Frame {
	m.ticks++
	frame := Frame{Tick: m.ticks, At: now}

	// Targets that already emitted their dead snapshot leave the table
	// now, one full tick after dying, together with their rings.
	for pid, st := range m.states {
		if st.dead {
			delete(m.states, pid)
			m.est.Drop(pid)
		}
	}

	targets, warnings, err := m.resolve()
	frame.Warnings = warnings
	if err != nil {
		frame.Err = err
		return frame
	}

	if !m.matched && len(targets) > 0 {
		m.matched = true
		for _, tg := range targets {
			m.original[tg.PID] = struct{}{}
		}
	}

	resolved := make(map[int]struct{}, len(targets))
	for _, tg := range targets {
		resolved[tg.PID] = struct{}{}
		if st, ok := m.states[tg.PID]; ok {
			st.target = tg
			st.dead = false
		} else {
			m.states[tg.PID] = &targetState{target: tg}
		}
	}
	for _, st := range m.states {
		if _, ok := resolved[st.target.PID]; !ok {
			st.dead = true
		}
	}

	// Independent, side-effect-free reads of OS state run in parallel;
	// ring mutation below stays on the loop goroutine.
	files := make([][]OpenFile, len(targets))
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, tg := range targets {
		wg.Add(1)
		go func(i, pid int) {
			defer wg.Done()
			files[i], errs[i] = m.enumerate(pid)
		}(i, tg.PID)
	}
	wg.Wait()

	snaps := make([]Snapshot, 0, len(m.states))
	for i, tg := range targets {
		snaps = append(snaps, m.assemble(tg, files[i], errs[i], now))
	}
	// dead targets follow, in their previous emission order; targets that
	// died mid-tick were already emitted above
	for _, pid := range m.order {
		if _, done := resolved[pid]; done {
			continue
		}
		st, ok := m.states[pid]
		if !ok || !st.dead {
			continue
		}
		snaps = append(snaps, Snapshot{
			TargetID: pid,
			Command:  st.target.Command,
			Rule:     st.target.Rule,
			Dead:     true,
			At:       now,
		})
	}
	frame.Snapshots = snaps

	order := make([]int, 0, len(snaps))
	for _, s := range snaps {
		order = append(order, s.TargetID)
	}
	m.order = order

	m.est.Sweep(now)
	return frame
}

// assemble builds one target's snapshot from its enumeration result.
func (m *Monitor) assemble(tg Target, candidates []OpenFile, err error, now time.Time) Snapshot {
	snap := Snapshot{
		TargetID: tg.PID,
		Command:  tg.Command,
		Rule:     tg.Rule,
		At:       now,
	}

	if err != nil {
		if errors.Is(err, proc.ErrNoProc) || !m.tbl.Alive(tg.PID) {
			// died between resolution and enumeration
			m.states[tg.PID].dead = true
			snap.Dead = true
		}
		// other failures (permissions, timeout) leave this tick unknown
		return snap
	}

	if m.cfg.MinSize > 0 {
		kept := candidates[:0]
		for _, c := range candidates {
			if c.SizeKnown && c.Size < m.cfg.MinSize {
				continue
			}
			kept = append(kept, c)
		}
		candidates = kept
	}

	s := takeSample(candidates, now)
	if s.Primary == nil {
		return snap
	}

	p := s.Primary
	snap.PrimaryPath = p.Path
	snap.Mode = p.Mode
	snap.Append = p.Append
	if s.Counterpart != nil {
		snap.CounterpartPath = s.Counterpart.Path
	}
	snap.Offset = p.Offset
	snap.Size = p.Size
	snap.SizeKnown = p.SizeKnown
	snap.Fraction = s.Fraction
	snap.FractionKnown = s.Known
	snap.Suspect = s.Suspect
	snap.Throughput, snap.ThroughputKnown = m.est.Observe(tg.PID, p.Path, p.Offset, now)
	return snap
}

// resolve runs target resolution bounded by the query timeout, like every
// other OS read; a hung process-table scan degrades to a retried tick
// instead of stalling the loop.
func (m *Monitor) resolve() ([]Target, []Warning, error) {
	type result struct {
		targets []Target
		warns   []Warning
		err     error
	}
	ch := make(chan result, 1)
	go func() {
		targets, warns, err := resolveTargets(m.tbl, m.cfg.Spec)
		ch <- result{targets, warns, err}
	}()

	t := time.NewTimer(m.cfg.QueryTimeout)
	defer t.Stop()
	select {
	case r := <-ch:
		return r.targets, r.warns, r.err
	case <-t.C:
		return nil, nil, ErrQueryTimeout
	}
}

// enumerate lists a target's open files, bounded by the query timeout so a
// hung procfs read cannot stall the whole tick.
func (m *Monitor) enumerate(pid int) ([]OpenFile, error) {
	type result struct {
		files []OpenFile
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		files, err := m.tbl.OpenFiles(pid)
		ch <- result{files, err}
	}()

	t := time.NewTimer(m.cfg.QueryTimeout)
	defer t.Stop()
	select {
	case r := <-ch:
		return r.files, r.err
	case <-t.C:
		return nil, ErrQueryTimeout
	}
}

func (m *Monitor) allOriginalDead() bool {
	if !m.matched {
		return false
	}
	for pid := range m.original {
		if m.tbl.Alive(pid) {
			return false
		}
	}
	return true
}
