package solution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/ports"
)

// ElapsedMarker prefixes the stderr line a solution may print to report its
// own timed region, e.g. "aoc:elapsed=1.25ms".
const ElapsedMarker = "aoc:elapsed="

// ErrNoCommand means solution.command is empty.
var ErrNoCommand = errors.New("solution.command is not configured")

// ShellRunner runs the user's solution through the host shell.
type ShellRunner struct {
	command string
	shell   string
	workdir string
	logger  ports.Logger
}

// NewShellRunner builds a runner; an empty or "auto" shell resolves to $SHELL, then /bin/sh.
func NewShellRunner(settings domain.SolutionSettings, logger ports.Logger) *ShellRunner {
	return &ShellRunner{
		command: strings.TrimSpace(settings.Command),
		shell:   resolveShell(settings.Shell),
		workdir: settings.WorkDir,
		logger:  logger,
	}
}

// Run implements ports.SolutionRunner. The input is fed on stdin and the
// puzzle coordinates and mode are exported as AOC_* variables.
func (r *ShellRunner) Run(ctx context.Context, req domain.RunRequest) (domain.RunResult, error) {
	if r.command == "" {
		return domain.RunResult{}, ErrNoCommand
	}

	c := exec.CommandContext(ctx, r.shell, "-c", r.command)
	c.Dir = r.workdir
	c.Env = append(os.Environ(),
		"AOC_YEAR="+strconv.Itoa(req.Key.Year),
		"AOC_DAY="+strconv.Itoa(req.Key.Day),
		"AOC_PART="+strconv.Itoa(int(req.Key.Part)),
		"AOC_MODE="+string(req.Mode),
	)
	c.Stdin = strings.NewReader(req.Input)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	wall := time.Since(start)

	remaining, reported, ok := extractElapsed(stderr.String())
	result := domain.RunResult{
		Output:   stdout.String(),
		Stderr:   remaining,
		Elapsed:  wall,
		Reported: ok,
	}
	if ok {
		result.Elapsed = reported
	}
	r.logger.Debug("solution finished", map[string]interface{}{
		"puzzle":   req.Key.String(),
		"mode":     string(req.Mode),
		"elapsed":  result.Elapsed.String(),
		"reported": ok,
	})

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, fmt.Errorf("solution exited with status %d: %w", result.ExitCode, err)
	}
	if err != nil {
		return result, fmt.Errorf("running solution: %w", err)
	}
	return result, nil
}

// extractElapsed strips marker lines from stderr and returns the last reported duration.
func extractElapsed(stderr string) (string, time.Duration, bool) {
	var (
		kept     []string
		elapsed  time.Duration
		reported bool
	)
	lines := strings.Split(stderr, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for _, line := range lines {
		if value, found := strings.CutPrefix(strings.TrimSpace(line), ElapsedMarker); found {
			if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && d >= 0 {
				elapsed, reported = d, true
				continue
			}
		}
		kept = append(kept, line)
	}
	out := strings.Join(kept, "\n")
	if out != "" && strings.HasSuffix(stderr, "\n") {
		out += "\n"
	}
	return out, elapsed, reported
}

func resolveShell(shell string) string {
	switch strings.ToLower(strings.TrimSpace(shell)) {
	case "", "auto":
		if env := os.Getenv("SHELL"); env != "" {
			return env
		}
		return "/bin/sh"
	case "sh":
		return "/bin/sh"
	default:
		if path, err := exec.LookPath(shell); err == nil {
			return path
		}
		return shell
	}
}

var _ ports.SolutionRunner = (*ShellRunner)(nil)
