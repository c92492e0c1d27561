//go:build linux

package main

import (
	"bytes"
	"testing"
	"time"

	"filepace/pkg/engine"
	"filepace/pkg/system/proc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBar(t *testing.T) {
	assert.Equal(t, "["+spaces(barWidth)+"]", bar(0))
	full := bar(1)
	assert.Len(t, full, barWidth+2)
	assert.NotContains(t, full, " ")
	half := bar(0.5)
	assert.Contains(t, half, "#")
	assert.Contains(t, half, " ")
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "5s", formatDuration(5*time.Second))
	assert.Equal(t, "2m 30s", formatDuration(150*time.Second))
	assert.Equal(t, "1h 30m", formatDuration(90*time.Minute))
}

func TestEta(t *testing.T) {
	s := engine.Snapshot{
		Offset: 500, Size: 1000, SizeKnown: true,
		Throughput: 100, ThroughputKnown: true,
	}
	assert.Equal(t, "5s", eta(s))

	s.ThroughputKnown = false
	assert.Empty(t, eta(s))

	s.ThroughputKnown = true
	s.Offset = 1000 // already done
	assert.Empty(t, eta(s))
}

func TestRender_OneShotBlock(t *testing.T) {
	var buf bytes.Buffer
	r := newRenderer(&buf, false, false)

	r.Render(engine.Frame{
		At: time.Now(),
		Snapshots: []engine.Snapshot{{
			TargetID: 42, Command: "cp",
			Fraction: 0.5, FractionKnown: true,
			Offset: 500, Size: 1000, SizeKnown: true,
			PrimaryPath: "/src/big",
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "[42]")
	assert.Contains(t, out, "cp")
	assert.Contains(t, out, "/src/big")
	assert.Contains(t, out, "50.0%")
}

func TestRender_BothSidesHeader(t *testing.T) {
	var buf bytes.Buffer
	newRenderer(&buf, false, false).Render(engine.Frame{
		Snapshots: []engine.Snapshot{{
			TargetID: 42, Command: "cp",
			Fraction: 0.2, FractionKnown: true,
			Offset: 200, Size: 1000, SizeKnown: true,
			PrimaryPath:     "/src/big",
			Mode:            proc.ReadOnly,
			CounterpartPath: "/dst/big",
		}},
	})
	assert.Contains(t, buf.String(), "/src/big > /dst/big")
}

func TestRender_BothSidesHeaderWritePrimary(t *testing.T) {
	var buf bytes.Buffer
	newRenderer(&buf, false, false).Render(engine.Frame{
		Snapshots: []engine.Snapshot{{
			TargetID: 42, Command: "cp",
			Fraction: 0.2, FractionKnown: true,
			Offset: 200, Size: 1000, SizeKnown: true,
			PrimaryPath:     "/dst/big",
			Mode:            proc.WriteOnly,
			CounterpartPath: "/src/big",
		}},
	})
	assert.Contains(t, buf.String(), "/src/big > /dst/big",
		"source always reads left of destination")
}

func TestDirIndicator(t *testing.T) {
	assert.Equal(t, "<", dirIndicator(proc.ReadOnly, false))
	assert.Equal(t, ">", dirIndicator(proc.WriteOnly, false))
	assert.Equal(t, ">>", dirIndicator(proc.WriteOnly, true))
	assert.Equal(t, "<>", dirIndicator(proc.ReadWrite, false))
}

func TestRender_DeadTarget(t *testing.T) {
	var buf bytes.Buffer
	r := newRenderer(&buf, false, false)

	r.Render(engine.Frame{
		Snapshots: []engine.Snapshot{{TargetID: 42, Command: "cp", Dead: true}},
	})
	assert.Contains(t, buf.String(), "exited")
}

func TestRender_WarningsRespectQuiet(t *testing.T) {
	frame := engine.Frame{
		Warnings: []engine.Warning{{PID: 999, Err: engine.ErrNoSuchPID}},
	}

	var loud bytes.Buffer
	newRenderer(&loud, false, false).Render(frame)
	require.Contains(t, loud.String(), "999")

	var quiet bytes.Buffer
	newRenderer(&quiet, false, true).Render(frame)
	assert.NotContains(t, quiet.String(), "999")
}

func TestRender_UnknownProgress(t *testing.T) {
	var buf bytes.Buffer
	newRenderer(&buf, false, false).Render(engine.Frame{
		Snapshots: []engine.Snapshot{{TargetID: 7, Command: "dd"}},
	})
	assert.Contains(t, buf.String(), "unknown progress")
}
