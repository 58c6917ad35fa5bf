package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// ProfileDir is the root of all state for the configured profile.
func (c *Config) ProfileDir() string {
	profile := strings.TrimSpace(c.Storage.Profile)
	if profile == "" {
		profile = DefaultProfile
	}
	return filepath.Join(c.Storage.DataDir, "profiles", profile)
}

// CacheDir is where cache entries live.
func (c *Config) CacheDir() string {
	return filepath.Join(c.ProfileDir(), "cache")
}

// ContextPath is the persisted context document.
func (c *Config) ContextPath() string {
	return filepath.Join(c.ProfileDir(), "context.json")
}

// ProgressPath is the persisted progress document.
func (c *Config) ProgressPath() string {
	return filepath.Join(c.ProfileDir(), "progress.json")
}

// HistoryPath is the sample history location for the configured backend.
func (c *Config) HistoryPath() string {
	if c.HistoryBackend() == "jsonl" {
		return filepath.Join(c.ProfileDir(), "history", "performance.jsonl")
	}
	return filepath.Join(c.ProfileDir(), "history", "performance.db")
}

// HistoryBackend normalizes performance.history_backend.
func (c *Config) HistoryBackend() string {
	backend := strings.ToLower(strings.TrimSpace(c.Performance.HistoryBackend))
	if backend == "" {
		return DefaultHistoryBackend
	}
	return backend
}

// RemoteTimeout bounds one request to the puzzle site.
func (c *Config) RemoteTimeout() time.Duration {
	if c.Remote.TimeoutSeconds <= 0 {
		return DefaultRemoteTimeout
	}
	return time.Duration(c.Remote.TimeoutSeconds) * time.Second
}

// RetryBackoff is the wait before the single transport retry.
func (c *Config) RetryBackoff() time.Duration {
	if d, err := time.ParseDuration(c.Remote.RetryBackoff); err == nil && d >= 0 {
		return d
	}
	return DefaultRetryBackoff
}

// SyncConcurrency bounds parallel overview fetches.
func (c *Config) SyncConcurrency() int {
	if c.Sync.Concurrency <= 0 {
		return DefaultSyncParallel
	}
	return c.Sync.Concurrency
}

// CookieEnvVar is the environment variable holding the session cookie.
func (c *Config) CookieEnvVar() string {
	if c.Session.CookieEnvVar == "" {
		return DefaultCookieEnvVar
	}
	return c.Session.CookieEnvVar
}
