package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/aocenv/internal/app"
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cli/helpers"
)

// NewRunCommand runs the solution against the real input.
func NewRunCommand(container *app.Container) *cobra.Command {
	var (
		flags      puzzleFlags
		submit     bool
		copyAnswer bool
	)
	cmd := &cobra.Command{
		Use:   "run <part>",
		Short: "Run the solution on the puzzle input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			part, err := parsePartArg(args[0])
			if err != nil {
				return err
			}
			key, err := flags.key(container, part)
			if err != nil {
				return err
			}

			input, err := container.PuzzleService.Input(cmd.Context(), key.Year, key.Day, false)
			if err != nil {
				return err
			}
			result, err := container.Runner.Run(cmd.Context(), domain.RunRequest{Key: key, Mode: domain.ModeLive, Input: input})
			if result.Stderr != "" {
				fmt.Fprint(cmd.ErrOrStderr(), result.Stderr)
			}
			if err != nil {
				return err
			}

			answer := strings.TrimSpace(result.Output)
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			fmt.Fprintln(cmd.ErrOrStderr(), helpers.Muted("elapsed "+helpers.Duration(result.Elapsed)))
			if copyAnswer && answer != "" {
				if err := helpers.CopyToClipboard(answer); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
				}
			}
			if !submit {
				return nil
			}
			if answer == "" {
				return errors.New(ErrEmptyOutput)
			}
			return submitAnswer(cmd, container, key, answer)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&submit, "submit", "s", false, "Submit the printed answer")
	cmd.Flags().BoolVarP(&copyAnswer, "copy", "c", false, "Copy the answer to the clipboard")
	return cmd
}
