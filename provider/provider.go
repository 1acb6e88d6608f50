package provider

import (
	"context"
	"fmt"
	"time"
)

// Provider is the base interface all providers must implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable checks if the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider instance from configuration.
type Factory[T Provider] func(cfg map[string]any) (T, error)

// String reads an optional string entry from a factory config map.
func String(cfg map[string]any, key, fallback string) (string, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("provider: %s must be a string, got %T", key, v)
	}
	if s == "" {
		return fallback, nil
	}
	return s, nil
}

// Duration reads an optional duration entry, accepting time.Duration or a
// string such as "30s".
func Duration(cfg map[string]any, key string, fallback time.Duration) (time.Duration, error) {
	v, ok := cfg[key]
	if !ok || v == nil {
		return fallback, nil
	}
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case string:
		if d == "" {
			return fallback, nil
		}
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return 0, fmt.Errorf("provider: %s: %w", key, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("provider: %s must be a duration, got %T", key, v)
	}
}
