// Package criteria turns loosely structured claims-search criteria text into
// normalized, ordered predicates.
package criteria

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"claimsql/internal/errors"
	"claimsql/models"
)

var (
	segmentSplitter = regexp.MustCompile(`\s*;\s*|\s+OR\s+|\s+AND\s+`)
	kvDelimiter     = regexp.MustCompile(`[:=<>]`)
	listSplitter    = regexp.MustCompile(`\s*,\s*`)
)

// prefixPriority orders criteria segments when reordering; unmatched prefixes
// sort after all matches.
var prefixPriority = []string{"DDC_CD", "DDC_DTL", "DDC_EA1", "DDC_EA2", "DDC_EA3"}

// Parse splits criteria text into a CriteriaSet. Segments are separated by
// ";", " OR " and " AND "; each segment splits once on the first of :=<>
// into a key and a comma-separated value list. Segments without a recognized
// delimiter are silently skipped. Key order follows first occurrence.
func Parse(text string) (*models.CriteriaSet, error) {
	if !utf8.ValidString(text) {
		return nil, errors.ParseError("criteria input is not valid text")
	}

	result := models.NewCriteriaSet()
	for _, segment := range segmentSplitter.Split(text, -1) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		kv := kvDelimiter.Split(segment, 2)
		if len(kv) < 2 {
			continue
		}

		key := strings.TrimSpace(kv[0])
		if key == "" {
			continue
		}

		var values []string
		for _, v := range listSplitter.Split(strings.TrimSpace(kv[1]), -1) {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
		result.Add(key, values)
	}
	return result, nil
}

// Reorder re-sorts ";"-delimited criteria segments by the fixed prefix
// priority list. The sort is stable: ties and unmatched segments keep their
// relative order.
func Reorder(text string) (string, error) {
	if !utf8.ValidString(text) {
		return "", errors.ParseError("criteria input is not valid text")
	}

	var segments []string
	for _, seg := range strings.Split(text, ";") {
		if seg = strings.TrimSpace(seg); seg != "" {
			segments = append(segments, seg)
		}
	}

	rank := func(seg string) int {
		for i, prefix := range prefixPriority {
			if strings.HasPrefix(seg, prefix) {
				return i
			}
		}
		return len(prefixPriority)
	}

	sort.SliceStable(segments, func(i, j int) bool {
		return rank(segments[i]) < rank(segments[j])
	})
	return strings.Join(segments, ";"), nil
}

// Shape prepares raw request criteria for parsing: an accompanying claim ID
// is prepended as a claim_number criterion, "=" is rewritten to ":" and a
// trailing ";" is guaranteed.
func Shape(claimID, text string) string {
	if claimID != "" {
		text = "claim_number : " + claimID + "; " + text
	}
	text = strings.ReplaceAll(text, "=", ":")
	if !strings.HasSuffix(strings.TrimSpace(text), ";") {
		text = text + ";"
	}
	return text
}
