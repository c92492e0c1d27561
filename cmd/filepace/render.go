//go:build linux

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"filepace/pkg/engine"
	"filepace/pkg/system/proc"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 30

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	pctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	deadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// renderer consumes engine frames and prints them. In live mode every
// frame redraws the screen; in one-shot mode it prints a block per target.
type renderer struct {
	out   io.Writer
	live  bool
	quiet bool
}

func newRenderer(out io.Writer, live, quiet bool) *renderer {
	return &renderer{out: out, live: live, quiet: quiet}
}

// Render implements engine.EmitFunc.
func (r *renderer) Render(f engine.Frame) {
	if r.live {
		fmt.Fprint(r.out, "\033[H\033[2J")
		fmt.Fprintf(r.out, "%s  %s\n\n",
			labelStyle.Render("filepace"),
			dimStyle.Render(f.At.Format("15:04:05")))
	}

	if f.Err != nil {
		fmt.Fprintf(r.out, "%s\n", warnStyle.Render(fmt.Sprintf("process table unreadable: %v (retrying)", f.Err)))
	}
	if !r.quiet {
		for _, w := range f.Warnings {
			fmt.Fprintf(r.out, "%s\n", warnStyle.Render(w.String()))
		}
	}

	if len(f.Snapshots) == 0 && r.live && f.Err == nil {
		fmt.Fprintln(r.out, dimStyle.Render("no matching command currently running"))
		return
	}

	for _, s := range f.Snapshots {
		r.renderTarget(s)
	}
}

func (r *renderer) renderTarget(s engine.Snapshot) {
	label := s.Command
	if label == "" {
		label = "?"
	}
	head := fmt.Sprintf("[%d] %s", s.TargetID, labelStyle.Render(label))

	if s.Dead {
		fmt.Fprintf(r.out, "%s %s\n\n", head, deadStyle.Render("exited"))
		return
	}

	switch {
	case s.PrimaryPath != "" && s.CounterpartPath != "":
		// a transfer with both ends visible reads as source > destination
		src, dst := s.PrimaryPath, s.CounterpartPath
		if s.Mode == proc.WriteOnly {
			src, dst = s.CounterpartPath, s.PrimaryPath
		}
		fmt.Fprintf(r.out, "%s %s > %s\n", head, src, dst)
	case s.PrimaryPath != "":
		fmt.Fprintf(r.out, "%s %s %s\n", head, dirIndicator(s.Mode, s.Append), s.PrimaryPath)
	default:
		fmt.Fprintf(r.out, "%s\n", head)
	}

	if !s.FractionKnown {
		fmt.Fprintf(r.out, "\t%s\n\n", dimStyle.Render("unknown progress"))
		return
	}

	line := fmt.Sprintf("%s (%s / %s)",
		pctStyle.Render(fmt.Sprintf("%.1f%%", s.Fraction*100)),
		s.Offset.Humanized(), s.Size.Humanized())
	if s.ThroughputKnown {
		line += " " + s.Throughput.PerSecond()
		if remaining := eta(s); remaining != "" {
			line += " " + dimStyle.Render("ETA "+remaining)
		}
	}
	if s.Suspect {
		line += " " + warnStyle.Render("(file grew during scan)")
	}

	if r.live {
		fmt.Fprintf(r.out, "\t%s %s\n\n", bar(s.Fraction), line)
	} else {
		fmt.Fprintf(r.out, "\t%s\n\n", line)
	}
}

func dirIndicator(m proc.AccessMode, appendMode bool) string {
	switch {
	case m == proc.WriteOnly && appendMode:
		return ">>"
	case m == proc.WriteOnly:
		return ">"
	case m == proc.ReadWrite:
		return "<>"
	default:
		return "<"
	}
}

func bar(frac float64) string {
	filled := int(frac * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", barWidth-filled) + "]"
}

// eta estimates time to completion from the remaining bytes and the
// current rate. Display only, best-effort.
func eta(s engine.Snapshot) string {
	if !s.SizeKnown || !s.ThroughputKnown || s.Throughput == 0 || s.Offset >= s.Size {
		return ""
	}
	remaining := float64(s.Size-s.Offset) / float64(s.Throughput)
	return formatDuration(time.Duration(remaining * float64(time.Second)))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
