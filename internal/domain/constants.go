package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// FilePermissions is the permission for state documents (rw-r--r--)
	FilePermissions = 0o644
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultRemoteTimeout bounds a single request to the puzzle site
	DefaultRemoteTimeout = 15 * time.Second
	// DefaultRetryBackoff is the wait before the single transport retry
	DefaultRetryBackoff = time.Second
)

// Defaults for configuration values
const (
	DefaultProfile        = "default"
	DefaultBaseURL        = "https://adventofcode.com"
	DefaultUserAgent      = "github.com/doeshing/aocenv"
	DefaultCookieEnvVar   = "AOC_SESSION"
	DefaultSyncParallel   = 4
	DefaultHistoryBackend = "sqlite"
	DefaultArchiveDir     = "solutions"
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
