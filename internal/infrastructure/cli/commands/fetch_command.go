package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/aocenv/internal/app"
	"github.com/doeshing/aocenv/internal/infrastructure/cli/helpers"
)

// NewFetchCommand creates the fetch command for puzzle text and input.
func NewFetchCommand(container *app.Container) *cobra.Command {
	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download puzzle text or input (cached after the first request)",
	}
	fetchCmd.AddCommand(
		newFetchTextCommand(container),
		newFetchInputCommand(container),
	)
	return fetchCmd
}

func newFetchTextCommand(container *app.Container) *cobra.Command {
	var (
		flags   puzzleFlags
		refresh bool
		raw     bool
	)
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Show the puzzle description",
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := flags.resolve(container)
			if err != nil {
				return err
			}
			var text string
			err = helpers.WithSpinner(cmd.ErrOrStderr(), "fetching "+pc.String(), func() error {
				var ferr error
				text, ferr = container.PuzzleService.Text(cmd.Context(), pc.Year, pc.Day, refresh)
				return ferr
			})
			if err != nil {
				return err
			}
			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			return helpers.RenderMarkdown(cmd.OutOrStdout(), text, TextWrapWidth)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch again even if cached (part two appears after part one is solved)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")
	return cmd
}

func newFetchInputCommand(container *app.Container) *cobra.Command {
	var (
		flags   puzzleFlags
		refresh bool
	)
	cmd := &cobra.Command{
		Use:   "input",
		Short: "Print the personal puzzle input",
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := flags.resolve(container)
			if err != nil {
				return err
			}
			input, err := container.PuzzleService.Input(cmd.Context(), pc.Year, pc.Day, refresh)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), input)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch again even if cached")
	return cmd
}
