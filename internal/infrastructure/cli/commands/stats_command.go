package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/aocenv/internal/app"
	"github.com/doeshing/aocenv/internal/infrastructure/cli/helpers"
)

// NewStatsCommand prints the star table from local progress.
func NewStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show solved stars per year",
		RunE: func(cmd *cobra.Command, args []string) error {
			progress, err := container.ProgressStore.Load()
			if err != nil {
				return err
			}
			years := helpers.SummarizeStars(progress)
			out := cmd.OutOrStdout()
			if len(years) == 0 {
				fmt.Fprintln(out, MsgNoStars)
				return nil
			}

			fmt.Fprintln(out, helpers.Title("Stars"))
			fmt.Fprintf(out, "%-6s %-25s %5s %6s  %s\n", "Year", "1        10        20  25", "Stars", "Done", "Last solved")
			for _, ys := range years {
				fmt.Fprintf(out, "%-6d %s %5d %5.0f%%  %s\n",
					ys.Year,
					helpers.StarRow(ys.Days),
					ys.Stars,
					helpers.CalculateCompletionRate(ys.Stars),
					helpers.Ago(ys.LastSolved))
			}
			fmt.Fprintf(out, "\nTotal: %d stars\n", helpers.TotalStars(years))
			return nil
		},
	}
}
