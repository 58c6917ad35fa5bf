package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doeshing/aocenv/internal/app"
	"github.com/doeshing/aocenv/internal/application/puzzlecontext"
)

// NewContextCommand creates the context command with all subcommands
func NewContextCommand(container *app.Container) *cobra.Command {
	contextCmd := &cobra.Command{
		Use:   "context",
		Short: "Show or change the puzzle you are working on",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showContext(cmd.OutOrStdout(), container)
		},
	}

	contextCmd.AddCommand(
		newContextSetCommand(container),
		newContextShowCommand(container),
		newContextClearCommand(container),
	)
	return contextCmd
}

func newContextSetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set <year> <day>",
		Short: "Set the active year and day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			day, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid day %q", args[1])
			}
			pc, err := container.ContextService.Set(year, day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Context set to %s\n", pc)
			return nil
		},
	}
}

func newContextShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active year and day",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showContext(cmd.OutOrStdout(), container)
		},
	}
}

func newContextClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored context and fall back to the latest puzzle",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.ContextService.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Context cleared.")
			return showContext(cmd.OutOrStdout(), container)
		},
	}
}

func showContext(out io.Writer, container *app.Container) error {
	resolved, err := container.ContextService.Show()
	if err != nil {
		return err
	}
	origin := "stored"
	if resolved.Origin == puzzlecontext.OriginDefault {
		origin = "default: latest unlocked puzzle"
	}
	fmt.Fprintf(out, "%s (%s)\n", resolved.Context, origin)
	return nil
}
