package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Bytes is a uint64 wrapper representing a size or offset in bytes.
type Bytes uint64

// Humanized returns a human-readable string with automatic unit (B, KB, MB, GB, TB).
func (b Bytes) Humanized() string {
	v := float64(b)
	switch {
	case b >= 1<<40:
		return fmt.Sprintf("%.2f TB", v/(1<<40))
	case b >= 1<<30:
		return fmt.Sprintf("%.2f GB", v/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MB", v/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.2f KB", v/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// PerSecond formats the value as a transfer rate.
func (b Bytes) PerSecond() string {
	return b.Humanized() + "/s"
}

// ParseBytes parses a human-readable byte string such as "512", "64KB" or
// "1.5 GB". Units are 1024-based.
func ParseBytes(s string) (Bytes, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("types: empty byte string")
	}

	var mult float64 = 1
	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "TB"):
		mult = 1 << 40
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "GB"):
		mult = 1 << 30
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "MB"):
		mult = 1 << 20
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "KB"):
		mult = 1 << 10
		s = s[:len(s)-2]
	case strings.HasSuffix(upper, "B"):
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("types: invalid byte string %q", s)
	}
	return Bytes(v * mult), nil
}
