package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/aocenv/internal/app"
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/aocenv/internal/infrastructure/config"
)

// NewInitCommand creates the init command that writes a fresh configuration.
func NewInitCommand(container *app.Container) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize aocenv configuration",
		Long: `Initialize aocenv configuration with default settings.

The wizard asks how to run your solution and, optionally, for the session
cookie of your adventofcode.com login. The cookie is stored with 0600
permissions in session.cookie_file; the AOC_SESSION environment variable
takes precedence over it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitWizard(cmd, container, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config without prompting")
	return cmd
}

// runInitWizard runs the configuration initialization wizard
func runInitWizard(cmd *cobra.Command, container *app.Container, force bool) error {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	if !shouldProceedWithInit(out, reader, loader.Path(), force) {
		fmt.Fprintln(out, MsgCancelled)
		return nil
	}

	cfg := configinfra.DefaultConfig()
	cfg = promptForUserPreferences(out, reader, cfg)

	if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
		return err
	}

	if cookie := helpers.PromptForString(out, reader, "Session cookie (leave empty to skip)", ""); cookie != "" {
		if err := writeSessionCookie(cfg.Session.CookieFile, cookie); err != nil {
			return err
		}
		fmt.Fprintf(out, "Session cookie saved to %s\n", cfg.Session.CookieFile)
	}

	displayCompletionInstructions(out, loader.Path())
	return nil
}

// shouldProceedWithInit checks if we should proceed with initialization
func shouldProceedWithInit(out io.Writer, reader *bufio.Reader, configPath string, force bool) bool {
	if _, err := os.Stat(configPath); err != nil {
		return true
	}
	if force {
		return true
	}
	question := fmt.Sprintf("%s exists. Overwrite?", configPath)
	return helpers.PromptForYesNo(out, reader, question, false)
}

// promptForUserPreferences asks for the settings that have no sensible default
func promptForUserPreferences(out io.Writer, reader *bufio.Reader, cfg domain.Config) domain.Config {
	fmt.Fprintln(out, "\nConfiguration preferences:")

	cfg.Solution.Command = helpers.PromptForString(out, reader,
		"Command that runs your solution (reads input on stdin, e.g. `go run ./day$AOC_DAY`)", cfg.Solution.Command)
	cfg.Solution.WorkDir = helpers.PromptForString(out, reader,
		"Working directory for the solution", cfg.Solution.WorkDir)
	cfg.Solution.Source = helpers.PromptForString(out, reader,
		"Solution source file to archive on a correct answer (empty to disable)", cfg.Solution.Source)
	cfg.Solution.ArchiveOnCorrect = cfg.Solution.Source != "" &&
		helpers.PromptForYesNo(out, reader, "Archive the source after a correct answer?", true)
	cfg.Storage.Profile = helpers.PromptForString(out, reader,
		"Profile (separates state of different accounts)", cfg.Storage.Profile)
	cfg.Performance.KeepHistory = helpers.PromptForYesNo(out, reader,
		"Keep a history of every timing sample?", cfg.Performance.KeepHistory)

	return cfg
}

func writeSessionCookie(path, cookie string) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimSpace(cookie)+"\n"), domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write session cookie: %w", err)
	}
	return nil
}

// displayCompletionInstructions displays instructions after successful initialization
func displayCompletionInstructions(out io.Writer, configPath string) {
	fmt.Fprintf(out, "\n✓ Configuration initialized: %s\n\n", configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Verify your setup:")
	fmt.Fprintln(out, "     aocenv doctor")
	fmt.Fprintln(out, "  2. Pick a puzzle and read it:")
	fmt.Fprintln(out, "     aocenv context set 2023 1 && aocenv fetch text")
	fmt.Fprintln(out, "  3. Add the example and test your solution:")
	fmt.Fprintln(out, "     aocenv test add --part 1 --input-file example.txt --expected 142")
	fmt.Fprintln(out, "     aocenv test")
	fmt.Fprintln(out, "  4. Run on the real input and submit:")
	fmt.Fprintln(out, "     aocenv run 1 --submit")
}
