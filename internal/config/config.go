// Package config provides configuration helpers for callout commands.
package config

import (
	"os"
	"strconv"
)

// Defaults for the capture and alert cadence.
const (
	DefaultFPS           = 15
	DefaultAlertInterval = 2.0  // seconds between auto-alert sweeps
	DefaultAlertCooldown = 10.0 // seconds before the same alert repeats
	DefaultDashboardPort = "8090"
	DefaultWakeWord      = "callout"
)

// Env returns the value of an environment variable or a fallback.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvInt returns an integer environment variable or a fallback.
func EnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// EnvFloat returns a float environment variable or a fallback.
func EnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// MirrorURL returns the screen-mirror websocket URL from MIRROR_URL.
// Empty means no mirror endpoint is configured.
func MirrorURL() string {
	return os.Getenv("MIRROR_URL")
}
