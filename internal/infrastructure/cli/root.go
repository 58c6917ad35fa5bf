package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/aocenv/internal/app"
	"github.com/doeshing/aocenv/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. The returned closer releases the
// container's resources and must be called once the command has run.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, io.Closer, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, nil, err
	}

	verbose := opts.Verbose
	root := &cobra.Command{
		Use:   "aocenv",
		Short: "aocenv - Advent of Code workspace",
		Long: "aocenv keeps puzzle text, inputs, examples and submissions in a local cache, " +
			"answers repeated submissions without touching the network and tracks your stars.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", opts.Verbose, "Enable debug logging on stderr")

	root.AddCommand(
		commands.NewContextCommand(container),
		commands.NewFetchCommand(container),
		commands.NewSubmitCommand(container),
		commands.NewSubmissionsCommand(container),
		commands.NewRunCommand(container),
		commands.NewTestCommand(container),
		commands.NewSyncCommand(container),
		commands.NewStatsCommand(container),
		commands.NewPerfCommand(container),
		commands.NewCacheCommand(container),
		commands.NewConfigCommand(container),
		commands.NewInitCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	return root, container, nil
}
