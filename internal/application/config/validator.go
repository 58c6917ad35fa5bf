package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/doeshing/aocenv/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if strings.TrimSpace(cfg.Storage.DataDir) == "" {
		return errors.New("storage.data_dir must be set")
	}
	if strings.ContainsAny(cfg.Storage.Profile, `/\`) || cfg.Storage.Profile == ".." {
		return fmt.Errorf("storage.profile must be a plain name, got %q", cfg.Storage.Profile)
	}
	if err := validateRemote(cfg.Remote); err != nil {
		return err
	}
	if err := validateSolution(cfg.Solution); err != nil {
		return err
	}
	if err := validatePerformance(cfg.Performance); err != nil {
		return err
	}
	if cfg.Sync.Concurrency < 0 {
		return fmt.Errorf("sync.concurrency must be >= 0")
	}
	return nil
}

func validateRemote(remote domain.RemoteSettings) error {
	u, err := url.Parse(remote.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("remote.base_url must be an http(s) URL, got %q", remote.BaseURL)
	}
	if remote.TimeoutSeconds < 0 {
		return fmt.Errorf("remote.timeout must be >= 0")
	}
	if remote.RetryBackoff != "" {
		d, err := time.ParseDuration(remote.RetryBackoff)
		if err != nil {
			return fmt.Errorf("remote.retry_backoff invalid: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("remote.retry_backoff must be >= 0")
		}
	}
	return nil
}

func validateSolution(sol domain.SolutionSettings) error {
	switch strings.ToLower(sol.Shell) {
	case "", "auto", "bash", "zsh", "sh":
	default:
		return fmt.Errorf("solution.shell must be auto|bash|zsh|sh, got %s", sol.Shell)
	}
	if sol.ArchiveOnCorrect && strings.TrimSpace(sol.Source) == "" {
		return fmt.Errorf("solution.source must be set when solution.archive_on_correct is enabled")
	}
	return nil
}

func validatePerformance(perf domain.PerformanceSettings) error {
	switch strings.ToLower(perf.HistoryBackend) {
	case "", "sqlite", "jsonl":
	default:
		return fmt.Errorf("performance.history_backend must be sqlite|jsonl, got %s", perf.HistoryBackend)
	}
	return nil
}
