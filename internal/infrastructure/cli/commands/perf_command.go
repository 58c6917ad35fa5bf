package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/aocenv/internal/app"
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cli/helpers"
)

// NewPerfCommand creates the perf command with all subcommands
func NewPerfCommand(container *app.Container) *cobra.Command {
	var force bool
	perfCmd := &cobra.Command{
		Use:   "perf",
		Short: "Time solutions and report cached timings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportPerformance(cmd, container, force)
		},
	}
	perfCmd.Flags().BoolVarP(&force, "force", "f", false, "Re-measure every cached timing first")

	perfCmd.AddCommand(
		newPerfMeasureCommand(container),
		newPerfReportCommand(container),
		newPerfHistoryCommand(container),
	)
	return perfCmd
}

func newPerfMeasureCommand(container *app.Container) *cobra.Command {
	var flags puzzleFlags
	cmd := &cobra.Command{
		Use:   "measure <part>",
		Short: "Run the solution on the real input and cache its timing",
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
			rec, err := container.PerformanceService.Measure(cmd.Context(), key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, helpers.Duration(rec.Duration()))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPerfReportCommand(container *app.Container) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize cached timings per year",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportPerformance(cmd, container, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-measure every cached timing first")
	return cmd
}

func newPerfHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the append-only timing history",
	}
	historyCmd.AddCommand(
		newPerfHistoryListCommand(container),
		newPerfHistoryClearCommand(container),
		newPerfHistoryExportCommand(container),
	)
	return historyCmd
}

func newPerfHistoryListCommand(container *app.Container) *cobra.Command {
	var (
		year  int
		day   int
		part  int
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseOptionalPart(part)
			if err != nil {
				return err
			}
			store, err := container.History()
			if err != nil {
				return err
			}
			records, err := store.Samples(year, day, p)
			if err != nil {
				return err
			}
			if limit > 0 && len(records) > limit {
				records = records[len(records)-limit:]
			}
			displaySamples(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Filter by year")
	cmd.Flags().IntVarP(&day, "day", "d", 0, "Filter by day")
	cmd.Flags().IntVarP(&part, "part", "p", 0, "Filter by part")
	cmd.Flags().IntVar(&limit, "limit", 20, "Show only the most recent N samples (0 for all)")
	return cmd
}

func newPerfHistoryClearCommand(container *app.Container) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded sample",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := container.History()
			if err != nil {
				return err
			}
			if !helpers.ConfirmDestructive(cmd.OutOrStdout(), cmd.InOrStdin(), force, "Delete all history samples in "+store.Path()+"?") {
				fmt.Fprintln(cmd.OutOrStdout(), MsgCancelled)
				return nil
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not ask for confirmation")
	return cmd
}

func newPerfHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export every sample as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := container.History()
			if err != nil {
				return err
			}
			if err := store.ExportJSONL(args[0]); err != nil {
				return fmt.Errorf("export history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History exported to %s\n", args[0])
			return nil
		},
	}
}

func reportPerformance(cmd *cobra.Command, container *app.Container, force bool) error {
	report, err := container.PerformanceService.Report(cmd.Context(), force)
	if err != nil {
		return err
	}
	displayPerformanceReport(cmd.OutOrStdout(), report)
	return nil
}

func displayPerformanceReport(out io.Writer, report domain.PerformanceReport) {
	if len(report.Records) == 0 {
		fmt.Fprintln(out, MsgNoTimings)
		return
	}
	fmt.Fprintln(out, helpers.Title("Timings"))
	for _, rec := range report.Records {
		fmt.Fprintf(out, "%d-%02d part %d  %12s  %s\n",
			rec.Year, rec.Day, rec.Part,
			helpers.Duration(rec.Duration()),
			helpers.Muted(helpers.Ago(rec.Timestamp)))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, helpers.Title("Per year"))
	fmt.Fprintf(out, "%-6s %5s %12s %12s %12s\n", "Year", "Count", "Mean", "Min", "Max")
	for _, y := range report.Years {
		fmt.Fprintf(out, "%-6d %5d %12s %12s %12s\n",
			y.Year, y.Count,
			helpers.Duration(y.Mean),
			helpers.Duration(y.Min),
			helpers.Duration(y.Max))
	}
}

func displaySamples(out io.Writer, records []domain.PerformanceRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistorySamples)
		return
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s  %d-%02d part %d  %s\n",
			rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
			rec.Year, rec.Day, rec.Part,
			helpers.Duration(rec.Duration()))
	}
}
