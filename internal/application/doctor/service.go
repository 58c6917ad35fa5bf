package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	appconfig "github.com/doeshing/aocenv/internal/application/config"
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	// Session resolves the session cookie and names its source.
	Session func(domain.Config) (string, string, error)
	// Rules loads the classifier table and reports its size and source.
	Rules func(path string) (int, string, error)
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format %s, profile %s", cfg.ConfigFormatVersion, cfg.Storage.Profile)))
	}

	checks = append(checks, dataDirCheck(cfg.ProfileDir()))

	if s.Session != nil {
		if _, source, err := s.Session(cfg); err != nil {
			checks = append(checks, warn("Session cookie", err.Error()))
		} else {
			checks = append(checks, ok("Session cookie", "found in "+source))
		}
	}

	if s.Rules != nil {
		if n, source, err := s.Rules(cfg.Classifier.RulesFile); err != nil {
			checks = append(checks, fail("Classifier rules", err.Error()))
		} else {
			checks = append(checks, ok("Classifier rules", fmt.Sprintf("%d rules (%s)", n, source)))
		}
	}

	checks = append(checks, solutionCheck(cfg.Solution))

	return domain.HealthReport{Checks: checks}, nil
}

func dataDirCheck(dir string) domain.HealthCheck {
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return fail("Data directory", err.Error())
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fail("Data directory", fmt.Sprintf("%s is not writable: %v", dir, err))
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return ok("Data directory", dir)
}

func solutionCheck(sol domain.SolutionSettings) domain.HealthCheck {
	if strings.TrimSpace(sol.Command) == "" {
		return warn("Solution command", "solution.command not set; run, test and perf are unavailable")
	}
	if sol.WorkDir != "" {
		if info, err := os.Stat(sol.WorkDir); err != nil || !info.IsDir() {
			return fail("Solution command", fmt.Sprintf("solution.workdir %s is not a directory", sol.WorkDir))
		}
	}
	if sol.ArchiveOnCorrect {
		source := sol.Source
		if !filepath.IsAbs(source) && sol.WorkDir != "" {
			source = filepath.Join(sol.WorkDir, source)
		}
		if _, err := os.Stat(source); err != nil {
			return warn("Solution command", fmt.Sprintf("archive source %s not found", source))
		}
	}
	shell := sol.Shell
	if shell == "" || shell == "auto" {
		return ok("Solution command", sol.Command)
	}
	if _, err := exec.LookPath(shell); err != nil {
		return fail("Solution command", fmt.Sprintf("shell %s not found", shell))
	}
	return ok("Solution command", sol.Command)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
