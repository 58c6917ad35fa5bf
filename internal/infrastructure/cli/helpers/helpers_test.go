package helpers

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aocenv/internal/domain"
	configinfra "github.com/doeshing/aocenv/internal/infrastructure/config"
)

func TestSummarizeStars(t *testing.T) {
	first := time.Date(2022, 12, 25, 6, 0, 0, 0, time.UTC)
	last := time.Date(2023, 12, 2, 6, 0, 0, 0, time.UTC)
	progress := domain.Progress{}
	progress.MarkSolved(domain.PuzzleKey{Year: 2023, Day: 1, Part: domain.PartOne}, last.Add(-24*time.Hour), domain.SourceSubmission)
	progress.MarkSolved(domain.PuzzleKey{Year: 2023, Day: 1, Part: domain.PartTwo}, last.Add(-23*time.Hour), domain.SourceSubmission)
	progress.MarkSolved(domain.PuzzleKey{Year: 2023, Day: 2, Part: domain.PartOne}, last, domain.SourceRemote)
	progress.MarkSolved(domain.PuzzleKey{Year: 2022, Day: 25, Part: domain.PartOne}, first, domain.SourceRemote)

	years := SummarizeStars(progress)
	require.Len(t, years, 2)

	assert.Equal(t, 2023, years[0].Year)
	assert.Equal(t, 3, years[0].Stars)
	assert.Equal(t, 1, years[0].FullDays)
	assert.Equal(t, 2, years[0].Days[0])
	assert.Equal(t, 1, years[0].Days[1])
	assert.True(t, years[0].LastSolved.Equal(last))

	assert.Equal(t, 2022, years[1].Year)
	assert.Equal(t, 1, years[1].Days[24])
	assert.Equal(t, 4, TotalStars(years))
	assert.InDelta(t, 6.0, CalculateCompletionRate(years[0].Stars), 0.001)
}

func TestSummarizeStarsEmpty(t *testing.T) {
	assert.Empty(t, SummarizeStars(domain.Progress{}))
}

func TestPromptForYesNo(t *testing.T) {
	cases := map[string]struct {
		input string
		def   bool
		want  bool
	}{
		"empty takes default": {input: "\n", def: true, want: true},
		"yes":                 {input: "yes\n", def: false, want: true},
		"upper y":             {input: "Y\n", def: false, want: true},
		"anything else":       {input: "maybe\n", def: true, want: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			got := PromptForYesNo(&out, bufio.NewReader(strings.NewReader(tc.input)), "Continue?", tc.def)
			assert.Equal(t, tc.want, got)
			assert.Contains(t, out.String(), "Continue?")
		})
	}
}

func TestConfirmDestructive(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, ConfirmDestructive(&out, strings.NewReader(""), true, "Wipe?"))
	assert.Empty(t, out.String())

	assert.False(t, ConfirmDestructive(&out, strings.NewReader("\n"), false, "Wipe?"))
	assert.Contains(t, out.String(), "[y/N]")
}

func TestPromptForString(t *testing.T) {
	var out bytes.Buffer
	got := PromptForString(&out, bufio.NewReader(strings.NewReader("\n")), "Profile", "default")
	assert.Equal(t, "default", got)

	got = PromptForString(&out, bufio.NewReader(strings.NewReader("  work \n")), "Profile", "default")
	assert.Equal(t, "work", got)
}

func TestConfigMapRoundTrip(t *testing.T) {
	cfgMap, err := ConfigToMap(configinfra.DefaultConfig())
	require.NoError(t, err)

	value, found := TraverseNestedMap(cfgMap, []string{"sync", "concurrency"})
	require.True(t, found)
	assert.Equal(t, 4, value)

	_, found = TraverseNestedMap(cfgMap, []string{"sync", "missing"})
	assert.False(t, found)

	parsed, err := ParseYAMLValue("python3 solve.py")
	require.NoError(t, err)
	require.True(t, SetNestedMapValue(cfgMap, []string{"solution", "command"}, parsed))
	parsed, err = ParseYAMLValue("true")
	require.NoError(t, err)
	require.True(t, SetNestedMapValue(cfgMap, []string{"performance", "keep_history"}, parsed))

	cfg, err := MapToConfig(cfgMap)
	require.NoError(t, err)
	assert.Equal(t, "python3 solve.py", cfg.Solution.Command)
	assert.True(t, cfg.Performance.KeepHistory)
	assert.Equal(t, 4, cfg.Sync.Concurrency)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, "0.5µs", Duration(500*time.Nanosecond))
	assert.Equal(t, "1.50ms", Duration(1500*time.Microsecond))
	assert.Equal(t, "2.000s", Duration(2*time.Second))
}

func TestWithSpinnerReturnsError(t *testing.T) {
	var out bytes.Buffer
	err := WithSpinner(&out, "working", func() error { return assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRenderOutcomeShowsServerHint(t *testing.T) {
	key := domain.PuzzleKey{Year: 2023, Day: 1, Part: domain.PartOne}
	tests := []struct {
		name           string
		classification domain.Classification
		shown          bool
	}{
		{name: "incorrect", classification: domain.ClassificationIncorrect, shown: true},
		{name: "too recent", classification: domain.ClassificationTooRecent, shown: true},
		{name: "unknown", classification: domain.ClassificationUnknown, shown: true},
		{name: "correct", classification: domain.ClassificationCorrect, shown: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			RenderOutcome(&out, domain.SubmissionOutcome{
				Key:            key,
				Answer:         "99",
				Classification: tt.classification,
				Message:        "your answer is too high",
			})
			if tt.shown {
				assert.Contains(t, out.String(), "your answer is too high")
			} else {
				assert.NotContains(t, out.String(), "your answer is too high")
			}
		})
	}
}
