package criteria

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/gertd/go-pluralize"
	"gopkg.in/yaml.v3"

	"claimsql/internal/errors"
)

// Normalizer rewrites free-text criteria so that known phrase variations
// collapse onto their canonical criterion keywords before parsing. The
// replacement table is loaded once; variations are expanded to singular and
// plural forms and matched longest-first so a longer phrase is never clobbered
// by one of its substrings.
type Normalizer struct {
	rules []replacementRule
}

type replacementRule struct {
	standard  string
	variation string
	pattern   *regexp.Regexp
}

// NewNormalizer loads a YAML replacement table mapping canonical phrases to
// their variations.
func NewNormalizer(path string) (*Normalizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigError, errors.Wrapf(err, "failed to read replacements file %s", path))
	}

	var table map[string][]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, errors.WithCode(errors.CodeConfigError, errors.Wrapf(err, "failed to parse replacements file %s", path))
	}

	return newNormalizer(table), nil
}

func newNormalizer(table map[string][]string) *Normalizer {
	engine := pluralize.NewClient()

	expanded := make(map[string][]string, len(table)*2)
	for standard, variations := range table {
		singular := engine.Singular(standard)
		if singular == "" {
			singular = standard
		}
		plural := engine.Plural(standard)

		seen := make(map[string]struct{})
		var forms []string
		for _, v := range variations {
			for _, form := range []string{strings.ToLower(v), engine.Singular(v), engine.Plural(v)} {
				if form == "" {
					continue
				}
				if _, dup := seen[form]; dup {
					continue
				}
				seen[form] = struct{}{}
				forms = append(forms, form)
			}
		}

		expanded[singular] = forms
		if plural != singular {
			expanded[plural] = forms
		}
	}

	var rules []replacementRule
	for standard, variations := range expanded {
		for _, variation := range variations {
			words := strings.Fields(variation)
			if len(words) == 0 {
				continue
			}
			escaped := make([]string, len(words))
			for i, w := range words {
				escaped[i] = regexp.QuoteMeta(w)
			}
			pattern := regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, `\s+`) + `)\b`)
			rules = append(rules, replacementRule{standard: standard, variation: variation, pattern: pattern})
		}
	}

	// Longest variation first; tie-break lexically for determinism.
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].variation) != len(rules[j].variation) {
			return len(rules[i].variation) > len(rules[j].variation)
		}
		if rules[i].variation != rules[j].variation {
			return rules[i].variation < rules[j].variation
		}
		return rules[i].standard < rules[j].standard
	})

	return &Normalizer{rules: rules}
}

// Normalize replaces every known variation in text with its canonical phrase.
// Replacement happens in two phases through placeholders so an inserted
// canonical phrase is never re-matched by a later rule.
func (n *Normalizer) Normalize(text string) string {
	placeholders := make(map[string]string)
	counter := 0

	for _, rule := range n.rules {
		text = rule.pattern.ReplaceAllStringFunc(text, func(string) string {
			placeholder := fmt.Sprintf("__PLACEHOLDER_%d__", counter)
			placeholders[placeholder] = rule.standard
			counter++
			return placeholder
		})
	}

	for placeholder, standard := range placeholders {
		text = strings.ReplaceAll(text, placeholder, standard)
	}
	return text
}
