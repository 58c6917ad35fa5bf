package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doeshing/aocenv/internal/app"
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cli/helpers"
)

// NewSyncCommand imports solved stars from the puzzle site.
func NewSyncCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [year...]",
		Short: "Import solved stars from the puzzle site (default: every event year)",
		RunE: func(cmd *cobra.Command, args []string) error {
			years := make([]int, 0, len(args))
			for _, arg := range args {
				y, err := strconv.Atoi(arg)
				if err != nil || y < domain.FirstEventYear {
					return fmt.Errorf("invalid year %q", arg)
				}
				years = append(years, y)
			}

			var diff domain.ProgressDiff
			err := helpers.WithSpinner(cmd.ErrOrStderr(), "syncing progress", func() error {
				var serr error
				diff, serr = container.ReconcileService.Sync(cmd.Context(), years)
				return serr
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(diff.NewlySolved) == 0 {
				fmt.Fprintln(out, "Progress is up to date.")
				return nil
			}
			fmt.Fprintf(out, "Imported %d new star(s):\n", len(diff.NewlySolved))
			for _, key := range diff.NewlySolved {
				fmt.Fprintf(out, "  %s\n", key)
			}
			return nil
		},
	}
}
