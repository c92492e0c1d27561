//go:build linux

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filepace/pkg/config"
	"filepace/pkg/engine"
	"filepace/pkg/types"

	"github.com/spf13/cobra"
)

type opts struct {
	pids       []int
	commands   []string
	additional []string

	wait      bool
	waitDelay float64

	monitor    bool
	follow     bool
	interval   time.Duration
	maxRuntime time.Duration

	minSize    string
	configPath string
	quiet      bool
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "filepace",
		Short: "Watch the progress of running file-processing commands",
		Long: `filepace estimates how far along already-running commands like cp, mv,
dd or cat are, by inspecting their open file descriptors through /proc
and comparing current offsets against file sizes. The monitored process
needs no cooperation and is never touched.

Without flags it scans once for the default watch list (cp, mv, dd, cat)
and prints one progress block per match.

Examples:
  filepace                         # one scan of the default watch list
  filepace -w                      # wait 1s first, so throughput is known
  filepace -p 12345 -p 23456       # watch specific PIDs
  filepace -c rsync -a tar -m      # follow rsync and tar until they exit
  filepace -M -i 500ms             # live view, keep running until Ctrl-C`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o)
		},
	}

	root.Flags().IntSliceVarP(&o.pids, "pid", "p", nil, "monitor a specific PID (repeatable)")
	root.Flags().StringSliceVarP(&o.commands, "command", "c", nil, "monitor a specific command name (replaces the default watch list)")
	root.Flags().StringSliceVarP(&o.additional, "additional-command", "a", nil, "add a command to the watch list (repeatable)")
	root.Flags().BoolVarP(&o.wait, "wait", "w", false, "wait 1s before the scan to estimate throughput")
	root.Flags().Float64VarP(&o.waitDelay, "wait-delay", "W", 1.0, "wait the given delay in seconds to estimate throughput")
	root.Flags().BoolVarP(&o.monitor, "monitor", "m", false, "keep monitoring until all matched processes exit")
	root.Flags().BoolVarP(&o.follow, "monitor-continuous", "M", false, "keep monitoring until interrupted, picking up new matches")
	root.Flags().DurationVarP(&o.interval, "interval", "i", time.Second, "poll interval")
	root.Flags().DurationVarP(&o.maxRuntime, "duration", "d", 0, "stop monitoring after this long (0 = no limit)")
	root.Flags().StringVar(&o.minSize, "min-size", "", "ignore files smaller than this size, e.g. 64KB")
	root.Flags().StringVar(&o.configPath, "config", "", "path to a YAML config file")
	root.Flags().BoolVarP(&o.quiet, "quiet", "q", false, "suppress resolution warnings")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, o opts) error {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(o.configPath)
		if err != nil {
			return err
		}
	}
	override := config.Config{
		Commands:           o.commands,
		AdditionalCommands: o.additional,
	}
	if cmd.Flags().Changed("interval") {
		override.Interval = o.interval
	}
	if o.minSize != "" {
		size, err := types.ParseBytes(o.minSize)
		if err != nil {
			return fmt.Errorf("parse --min-size: %w", err)
		}
		override.MinSize = size
	}
	cfg = cfg.Merge(override)
	if err := cfg.Validate(); err != nil {
		return err
	}

	spec := engine.Spec{
		PIDs:               o.pids,
		Commands:           cfg.Commands,
		AdditionalCommands: cfg.AdditionalCommands,
	}
	// explicit PIDs alone mean exactly those PIDs, no table scan
	if len(o.pids) > 0 && len(o.commands) == 0 && len(o.additional) == 0 && o.configPath == "" {
		spec.Commands = nil
		spec.AdditionalCommands = nil
	}

	mode := engine.RunOnce
	switch {
	case o.follow:
		mode = engine.RunContinuous
	case o.monitor:
		mode = engine.RunUntilExit
	}

	var warmup time.Duration
	if mode == engine.RunOnce && (o.wait || cmd.Flags().Changed("wait-delay")) {
		warmup = time.Duration(o.waitDelay * float64(time.Second))
	}

	mon, err := engine.New(engine.Config{
		Spec:         spec,
		Interval:     cfg.Interval,
		Mode:         mode,
		MaxDuration:  o.maxRuntime,
		Warmup:       warmup,
		HistoryDepth: cfg.HistoryDepth,
		Window:       cfg.Window,
		QueryTimeout: cfg.QueryTimeout,
		MinSize:      cfg.MinSize,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := newRenderer(os.Stdout, mode != engine.RunOnce, o.quiet)
	if err := mon.Run(ctx, r.Render); err != nil {
		if errors.Is(err, engine.ErrNoTargets) {
			fmt.Println("no matching command currently running")
			return nil
		}
		return err
	}
	return nil
}
