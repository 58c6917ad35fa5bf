package helpers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/doeshing/aocenv/internal/domain"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	starStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#facc15"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Title styles a section heading.
func Title(s string) string {
	return titleStyle.Render(s)
}

// Muted styles secondary text.
func Muted(s string) string {
	return mutedStyle.Render(s)
}

// Status styles a health status label.
func Status(status domain.HealthStatus) string {
	label := "[" + strings.ToUpper(string(status)) + "]"
	switch status {
	case domain.HealthOK:
		return successStyle.Render(label)
	case domain.HealthWarn:
		return warningStyle.Render(label)
	default:
		return errorStyle.Render(label)
	}
}

// Pass styles a test verdict.
func Pass(passed bool) string {
	if passed {
		return successStyle.Render("PASS")
	}
	return errorStyle.Render("FAIL")
}

// RenderOutcome prints a submission outcome.
func RenderOutcome(out io.Writer, outcome domain.SubmissionOutcome) {
	var label string
	switch outcome.Classification {
	case domain.ClassificationCorrect:
		label = successStyle.Render("That's the right answer!")
	case domain.ClassificationIncorrect:
		label = errorStyle.Render("That's not the right answer.")
	case domain.ClassificationTooRecent:
		label = warningStyle.Render("You gave an answer too recently.")
	case domain.ClassificationAlreadyAnswered:
		label = warningStyle.Render("This part is already solved.")
	default:
		label = warningStyle.Render("Unrecognized response.")
	}

	fmt.Fprintf(out, "%s %s\n", outcome.Key, label)
	fmt.Fprintf(out, "Answer: %s\n", outcome.Answer)
	if outcome.Cached {
		fmt.Fprintln(out, Muted("Note: result served from local submission history"))
	}
	if outcome.Wait > 0 {
		fmt.Fprintf(out, "Wait %s before submitting again.\n", outcome.Wait)
	}
	if outcome.Archived != "" {
		fmt.Fprintf(out, "Solution archived to %s\n", outcome.Archived)
	}
	if outcome.Message == "" {
		return
	}
	switch outcome.Classification {
	case domain.ClassificationUnknown:
		fmt.Fprintf(out, "\n%s\n", outcome.Message)
	case domain.ClassificationIncorrect, domain.ClassificationTooRecent:
		fmt.Fprintf(out, "\n%s\n", Muted(outcome.Message))
	}
}

// RenderMarkdown renders puzzle text for the terminal. Plain text is written
// when the renderer cannot be built.
func RenderMarkdown(out io.Writer, markdown string, wrap int) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		_, err = fmt.Fprintln(out, markdown)
		return err
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		_, err = fmt.Fprintln(out, markdown)
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

// StarRow draws one year as 25 cells: '*' both parts, '+' one part, '.' none.
func StarRow(days [domain.LastDay]int) string {
	var b strings.Builder
	for _, stars := range days {
		switch stars {
		case 2:
			b.WriteString(starStyle.Render("*"))
		case 1:
			b.WriteString(mutedStyle.Render("+"))
		default:
			b.WriteString(mutedStyle.Render("."))
		}
	}
	return b.String()
}

// Ago renders a timestamp relative to now.
func Ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// Duration renders a timing with a unit suited to its magnitude.
func Duration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fµs", float64(d)/float64(time.Microsecond))
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.3fs", d.Seconds())
	}
}

// Bytes renders a size like "1.2 MB".
func Bytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
