package util

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// ParseSize parses a human-readable size string (e.g. "200MB", "512KB", "2GB")
// into bytes. Returns defaultBytes if the string is empty or cannot be parsed.
func ParseSize(s string, defaultBytes int64) int64 {
	n, err := parseSize(s)
	if err != nil || n <= 0 {
		return defaultBytes
	}
	return n
}

// ValidSize reports whether s is empty or a parsable, positive size.
func ValidSize(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := parseSize(s)
	if err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("size %q must be positive", s)
	}
	return nil
}

func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	var multiplier int64 = 1
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = gib
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "MB"):
		multiplier = mib
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "KB"):
		multiplier = kib
		s = s[:len(s)-2]
	case strings.HasSuffix(s, "B"):
		s = s[:len(s)-1]
	}
	val, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return val * multiplier, nil
}

// FormatSize renders n bytes using the largest whole unit ("1.5MB", "512KB", "17B").
func FormatSize(n int64) string {
	switch {
	case n >= gib:
		return trimUnit(float64(n)/gib) + "GB"
	case n >= mib:
		return trimUnit(float64(n)/mib) + "MB"
	case n >= kib:
		return trimUnit(float64(n)/kib) + "KB"
	default:
		return strconv.FormatInt(n, 10) + "B"
	}
}

func trimUnit(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}

// MaskSecret hides sensitive parts of a string for safe display in logs.
// If the string is shorter than visiblePrefix, it is fully masked.
func MaskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}
