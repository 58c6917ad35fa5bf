package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/aocenv/internal/app"
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cli/helpers"
)

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(container *app.Container) *cobra.Command {
	var flags puzzleFlags
	cmd := &cobra.Command{
		Use:   "submit <part> <answer>",
		Short: "Submit an answer; known answers are answered from local history",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			part, err := parsePartArg(args[0])
			if err != nil {
				return err
			}
			key, err := flags.key(container, part)
			if err != nil {
				return err
			}
			return submitAnswer(cmd, container, key, strings.Join(args[1:], " "))
		},
	}
	flags.register(cmd)
	return cmd
}

// NewSubmissionsCommand lists the recorded submissions of the active puzzle.
func NewSubmissionsCommand(container *app.Container) *cobra.Command {
	var (
		flags puzzleFlags
		part  int
	)
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "List recorded submissions for the active puzzle",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parseOptionalPart(part)
			if err != nil {
				return err
			}
			pc, err := flags.resolve(container)
			if err != nil {
				return err
			}
			parts := []domain.Part{domain.PartOne, domain.PartTwo}
			if p != domain.PartNone {
				parts = []domain.Part{p}
			}
			var records []domain.SubmissionRecord
			for _, p := range parts {
				recs, err := container.SubmissionEngine.History(domain.PuzzleKey{Year: pc.Year, Day: pc.Day, Part: p})
				if err != nil {
					return err
				}
				records = append(records, recs...)
			}
			displaySubmissions(cmd.OutOrStdout(), records)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&part, "part", "p", 0, "Only this part (default both)")
	return cmd
}

func submitAnswer(cmd *cobra.Command, container *app.Container, key domain.PuzzleKey, answer string) error {
	var outcome domain.SubmissionOutcome
	err := helpers.WithSpinner(cmd.ErrOrStderr(), "submitting "+key.String(), func() error {
		var serr error
		outcome, serr = container.SubmissionEngine.Submit(cmd.Context(), key, answer)
		return serr
	})
	if err != nil {
		return err
	}
	helpers.RenderOutcome(cmd.OutOrStdout(), outcome)
	return nil
}

func displaySubmissions(out io.Writer, records []domain.SubmissionRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoSubmissions)
		return
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s  part %d  %-10s %s  %s\n",
			rec.SubmittedAt.Local().Format("2006-01-02 15:04"),
			rec.Part,
			rec.Classification,
			rec.Answer,
			helpers.Muted(helpers.Ago(rec.SubmittedAt)))
	}
}
