//go:build linux

package engine

// resolveTargets turns a Spec into the set of targets currently matching.
// Explicit PIDs come first in the given order; command matches follow in
// process-table order, so the result order is stable across ticks for an
// unchanged process set.
//
// A requested PID that does not exist produces a warning, not an error.
// Only a failure to enumerate the process table itself is returned as an
// error, and only when command matching actually needs the table.
func resolveTargets(tbl ProcessTable, spec Spec) ([]Target, []Warning, error) {
	var (
		targets  []Target
		warnings []Warning
		seen     = make(map[int]struct{}, len(spec.PIDs))
	)

	for _, pid := range spec.PIDs {
		if _, dup := seen[pid]; dup {
			continue
		}
		seen[pid] = struct{}{}
		if !tbl.Alive(pid) {
			warnings = append(warnings, Warning{PID: pid, Err: ErrNoSuchPID})
			continue
		}
		cmd, _ := tbl.Command(pid) // best-effort label
		targets = append(targets, Target{PID: pid, Command: cmd, Rule: RuleExplicitPID})
	}

	watch := spec.watchList()
	if len(watch) == 0 {
		return targets, warnings, nil
	}

	pids, err := tbl.PIDs()
	if err != nil {
		return nil, warnings, err
	}
	for _, pid := range pids {
		if _, dup := seen[pid]; dup {
			continue
		}
		cmd, err := tbl.Command(pid)
		if err != nil {
			continue // gone or unreadable; not our concern this tick
		}
		if _, ok := watch[cmd]; !ok {
			continue
		}
		targets = append(targets, Target{PID: pid, Command: cmd, Rule: RuleCommandMatch})
	}
	return targets, warnings, nil
}
