package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aocenv/assets"
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/pkg/filesystem"
	"github.com/doeshing/aocenv/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "AOCENV_CONFIG"

// FileLoader loads YAML configuration from ~/.aocenv/config.yaml (overridable via AOCENV_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
				return domain.Config{}, err
			}
			return hydrateDefaults(defaultConfig()), nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".aocenv", "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Save writes the given config back to disk.
func (l *FileLoader) Save(cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := ensureConfigDir(l.resolvePath()); err != nil {
		return err
	}
	return os.WriteFile(l.resolvePath(), raw, domain.SecureFilePermissions)
}

// Reset overwrites the config with defaults and returns the default snapshot.
func (l *FileLoader) Reset() (domain.Config, error) {
	if err := ensureConfigDir(l.resolvePath()); err != nil {
		return domain.Config{}, err
	}
	if err := os.WriteFile(l.resolvePath(), assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(defaultConfig()), nil
}

// Backup copies the current config file to a timestamped backup.
func (l *FileLoader) Backup() (string, error) {
	path := l.resolvePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102T150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

func defaultConfig() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{ConfigFormatVersion: "1"}
	}
	return cfg
}

// DefaultConfig exposes the bootstrap configuration template.
func DefaultConfig() domain.Config {
	return hydrateDefaults(defaultConfig())
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if strings.TrimSpace(cfg.Storage.DataDir) == "" {
		cfg.Storage.DataDir = filepath.Join(filesystem.UserHomeDir(), ".aocenv")
	}
	cfg.Storage.DataDir = filesystem.ExpandPath(cfg.Storage.DataDir)
	if strings.TrimSpace(cfg.Storage.Profile) == "" {
		cfg.Storage.Profile = domain.DefaultProfile
	}
	if cfg.Session.CookieEnvVar == "" {
		cfg.Session.CookieEnvVar = domain.DefaultCookieEnvVar
	}
	cfg.Session.CookieFile = filesystem.ExpandPath(cfg.Session.CookieFile)
	if cfg.Remote.BaseURL == "" {
		cfg.Remote.BaseURL = domain.DefaultBaseURL
	}
	cfg.Remote.BaseURL = strings.TrimRight(cfg.Remote.BaseURL, "/")
	if cfg.Remote.UserAgent == "" {
		cfg.Remote.UserAgent = domain.DefaultUserAgent
	}
	if cfg.Remote.TimeoutSeconds <= 0 {
		cfg.Remote.TimeoutSeconds = int(domain.DefaultRemoteTimeout / time.Second)
	}
	if cfg.Remote.RetryBackoff == "" {
		cfg.Remote.RetryBackoff = domain.DefaultRetryBackoff.String()
	}
	if cfg.Solution.Shell == "" {
		cfg.Solution.Shell = "auto"
	}
	if cfg.Solution.ArchiveDir == "" {
		cfg.Solution.ArchiveDir = domain.DefaultArchiveDir
	}
	cfg.Classifier.RulesFile = filesystem.ExpandPath(cfg.Classifier.RulesFile)
	if cfg.Performance.HistoryBackend == "" {
		cfg.Performance.HistoryBackend = domain.DefaultHistoryBackend
	}
	if cfg.Sync.Concurrency <= 0 {
		cfg.Sync.Concurrency = domain.DefaultSyncParallel
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
