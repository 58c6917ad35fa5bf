package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/aocenv/internal/app"
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/infrastructure/cli/helpers"
)

// NewTestCommand manages and runs example test cases. Without a subcommand it runs them.
func NewTestCommand(container *app.Container) *cobra.Command {
	var (
		flags puzzleFlags
		part  int
	)
	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Run the solution against the stored examples",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, container, &flags, part)
		},
	}
	flags.register(testCmd)
	testCmd.Flags().IntVarP(&part, "part", "p", 0, "Only this part (default both)")

	testCmd.AddCommand(
		newTestAddCommand(container),
		newTestListCommand(container),
		newTestDeleteCommand(container),
		newTestRunCommand(container),
	)
	return testCmd
}

func newTestAddCommand(container *app.Container) *cobra.Command {
	var (
		flags     puzzleFlags
		part      int
		index     int
		input     string
		inputFile string
		expected  string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an example input with its expected answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := domain.ParsePart(part)
			if err != nil {
				return err
			}
			if expected == "" {
				return errors.New(ErrExpectedRequired)
			}
			text, err := readCaseInput(cmd.InOrStdin(), input, inputFile)
			if err != nil {
				return err
			}
			pc, err := flags.resolve(container)
			if err != nil {
				return err
			}
			tc, err := container.TestService.Add(pc.Year, pc.Day, domain.TestCase{
				Part:     p,
				Index:    index,
				Input:    text,
				Expected: expected,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s part %d case %d\n", pc, tc.Part, tc.Index)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&part, "part", "p", 1, "Part the example belongs to")
	cmd.Flags().IntVar(&index, "index", 0, "1-based position within the part (default: append)")
	cmd.Flags().StringVar(&input, "input", "", "Example input text (\"-\" reads stdin)")
	cmd.Flags().StringVar(&inputFile, "input-file", "", "Read the example input from a file")
	cmd.Flags().StringVarP(&expected, "expected", "e", "", "Expected answer")
	return cmd
}

func newTestListCommand(container *app.Container) *cobra.Command {
	var flags puzzleFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored examples",
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := flags.resolve(container)
			if err != nil {
				return err
			}
			cases, err := container.TestService.List(pc.Year, pc.Day)
			if err != nil {
				return err
			}
			displayTestCases(cmd.OutOrStdout(), cases)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newTestDeleteCommand(container *app.Container) *cobra.Command {
	var flags puzzleFlags
	cmd := &cobra.Command{
		Use:   "delete <part> <index>",
		Short: "Delete a stored example",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			part, err := parsePartArg(args[0])
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[1])
			}
			pc, err := flags.resolve(container)
			if err != nil {
				return err
			}
			if err := container.TestService.Delete(pc.Year, pc.Day, part, index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s part %d case %d\n", pc, part, index)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newTestRunCommand(container *app.Container) *cobra.Command {
	var (
		flags puzzleFlags
		part  int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the solution against the stored examples",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, container, &flags, part)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&part, "part", "p", 0, "Only this part (default both)")
	return cmd
}

func runTests(cmd *cobra.Command, container *app.Container, flags *puzzleFlags, part int) error {
	p, err := parseOptionalPart(part)
	if err != nil {
		return err
	}
	key, err := flags.key(container, p)
	if err != nil {
		return err
	}
	report, err := container.TestService.Run(cmd.Context(), key)
	displayTestReport(cmd.OutOrStdout(), report)
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d test cases failed", report.Failed, report.Passed+report.Failed)
	}
	return nil
}

func readCaseInput(stdin io.Reader, input, inputFile string) (string, error) {
	switch {
	case input != "" && inputFile != "", input == "" && inputFile == "":
		return "", errors.New(ErrInputRequired)
	case inputFile != "":
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	case input == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	default:
		return input, nil
	}
}

func displayTestCases(out io.Writer, cases []domain.TestCase) {
	if len(cases) == 0 {
		fmt.Fprintln(out, MsgNoTestCases)
		return
	}
	for _, tc := range cases {
		fmt.Fprintf(out, "part %d #%d  expected %q\n", tc.Part, tc.Index, tc.Expected)
		fmt.Fprintln(out, helpers.Muted(indent(tc.Input)))
	}
}

func displayTestReport(out io.Writer, report domain.TestReport) {
	if len(report.Results) == 0 {
		fmt.Fprintln(out, MsgNoTestCases)
		return
	}
	for _, res := range report.Results {
		fmt.Fprintf(out, "%s part %d #%d\n", helpers.Pass(res.Passed), res.Case.Part, res.Case.Index)
		switch {
		case res.Err != nil:
			fmt.Fprintf(out, "  error: %v\n", res.Err)
		case !res.Passed:
			fmt.Fprintf(out, "  diff (-expected +got):\n%s", indent(res.Diff))
		}
	}
	fmt.Fprintf(out, "\n%d passed, %d failed\n", report.Passed, report.Failed)
}

func indent(s string) string {
	s = strings.TrimRight(s, "\n")
	return "    " + strings.ReplaceAll(s, "\n", "\n    ") + "\n"
}
