package classifier

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aocenv/assets"
	"github.com/doeshing/aocenv/internal/domain"
	"github.com/doeshing/aocenv/internal/pkg/filesystem"
	"github.com/doeshing/aocenv/internal/ports"
)

// Rules implements the ResponseClassifier port with an ordered substring table.
type Rules struct {
	rules  []compiledRule
	source string
}

type compiledRule struct {
	needle string
	rule   ResponseRule
	class  domain.Classification
}

// ResponseRule maps a response fragment to a classification.
type ResponseRule struct {
	Pattern        string `yaml:"pattern"`
	Classification string `yaml:"classification"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		Responses []ResponseRule `yaml:"responses"`
	} `yaml:"rules"`
}

// NewRules loads the rule table at path. A missing or empty file falls back
// to the embedded defaults; a malformed one is an error.
func NewRules(path string) (*Rules, error) {
	file, source, err := loadRules(path)
	if err != nil {
		return nil, err
	}
	return compile(file, source)
}

// Default returns the embedded rule table.
func Default() *Rules {
	file, err := parseRules(assets.DefaultClassifierYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded classifier rules: %v", err))
	}
	rules, err := compile(file, "embedded")
	if err != nil {
		panic(fmt.Sprintf("embedded classifier rules: %v", err))
	}
	return rules
}

// Classify returns the classification of the first rule whose pattern occurs
// in response, ignoring case. Nothing matching yields ClassificationUnknown.
func (r *Rules) Classify(response string) domain.Classification {
	if r == nil {
		return domain.ClassificationUnknown
	}
	haystack := strings.ToLower(response)
	for _, rule := range r.rules {
		if strings.Contains(haystack, rule.needle) {
			return rule.class
		}
	}
	return domain.ClassificationUnknown
}

// Source names where the active rules came from.
func (r *Rules) Source() string {
	return r.source
}

// Len is the number of active rules.
func (r *Rules) Len() int {
	return len(r.rules)
}

func compile(file RulesFile, source string) (*Rules, error) {
	compiled := make([]compiledRule, 0, len(file.Rules.Responses))
	for i, rule := range file.Rules.Responses {
		needle := strings.ToLower(strings.TrimSpace(rule.Pattern))
		if needle == "" {
			return nil, fmt.Errorf("%s: rule %d has an empty pattern", source, i+1)
		}
		class, ok := domain.ParseClassification(strings.ToLower(strings.TrimSpace(rule.Classification)))
		if !ok {
			return nil, fmt.Errorf("%s: rule %d has unknown classification %q", source, i+1, rule.Classification)
		}
		compiled = append(compiled, compiledRule{needle: needle, rule: rule, class: class})
	}
	return &Rules{rules: compiled, source: source}, nil
}

func loadRules(path string) (RulesFile, string, error) {
	if strings.TrimSpace(path) != "" {
		resolved := filesystem.ExpandPath(path)
		data, err := os.ReadFile(resolved)
		switch {
		case err == nil:
			file, err := parseRules(data)
			if err != nil {
				return RulesFile{}, "", fmt.Errorf("%s: %w", resolved, err)
			}
			if len(file.Rules.Responses) > 0 {
				return file, resolved, nil
			}
		case !errors.Is(err, fs.ErrNotExist):
			return RulesFile{}, "", err
		}
	}
	file, err := parseRules(assets.DefaultClassifierYAML)
	return file, "embedded", err
}

func parseRules(data []byte) (RulesFile, error) {
	var file RulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return RulesFile{}, err
	}
	return file, nil
}

var waitPattern = regexp.MustCompile(`(?i)you have\s+((?:\d+\s*h\s*)?(?:\d+\s*m\s*)?(?:\d+\s*s)?)\s*left to wait`)

// ParseWait extracts the remaining cooldown from a too-recent response,
// e.g. "You have 4m 58s left to wait". ok is false when no duration is present.
func ParseWait(response string) (time.Duration, bool) {
	m := waitPattern.FindStringSubmatch(response)
	if m == nil {
		return 0, false
	}
	compact := strings.Join(strings.Fields(m[1]), "")
	if compact == "" {
		return 0, false
	}
	d, err := time.ParseDuration(compact)
	if err != nil {
		return 0, false
	}
	return d, true
}

var _ ports.ResponseClassifier = (*Rules)(nil)
