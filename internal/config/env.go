// Package config provides environment helpers for cabinwalk commands.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Defaults used when the environment is silent.
const (
	DefaultAddr       = ":8080"
	DefaultConfigFile = "cabinwalk.yaml"
	DefaultTickRate   = 16 * time.Millisecond
	DefaultLogLevel   = "info"
)

// Addr returns the listen address from CABINWALK_ADDR, or def.
func Addr(def string) string {
	return env("CABINWALK_ADDR", def)
}

// ConfigPath returns the settings file from CABINWALK_CONFIG, or def.
func ConfigPath(def string) string {
	return env("CABINWALK_CONFIG", def)
}

// LogLevel returns LOG_LEVEL, or DefaultLogLevel.
func LogLevel() string {
	return env("LOG_LEVEL", DefaultLogLevel)
}

// TickRate returns CABINWALK_TICK parsed as a duration, e.g. "16ms".
// Unparseable or non-positive values fall back to def.
func TickRate(def time.Duration) time.Duration {
	v := os.Getenv("CABINWALK_TICK")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// BaseURL turns a listen address into an http URL a local client can dial.
// ":8080" becomes "http://localhost:8080".
func BaseURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimSuffix(addr, "/")
	}
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return fmt.Sprintf("http://%s", addr)
}

// WebsocketURL returns the ws:// URL for path on the server at addr.
func WebsocketURL(addr, path string) string {
	base := BaseURL(addr)
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	default:
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + path
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
