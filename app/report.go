package app

import (
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"claimsql/domain/rules"
	"claimsql/models"
)

// PostProcessor reshapes a raw result frame into report rows: limit-code
// filtering, claim de-duplication and derived classification fields.
type PostProcessor struct {
	catalog *rules.Catalog
	lookup  *rules.LookupConfig
}

// NewPostProcessor creates a post-processor over the shared catalog and
// lookup configuration.
func NewPostProcessor(catalog *rules.Catalog, lookup *rules.LookupConfig) *PostProcessor {
	return &PostProcessor{catalog: catalog, lookup: lookup}
}

var (
	limitClausePattern = regexp.MustCompile(`(?i)limit.*?:\s*([^;]+?)\s*;`)
	limitValueSplitter = regexp.MustCompile(`\s*(?:,|or|and)\s*`)
)

// ExtractLimitValues pulls the literal limit-class value list out of criteria
// text. Only the first "limit...: values;" occurrence is recognized; behavior
// for multiple limit clauses is unspecified upstream and preserved as such.
func ExtractLimitValues(criteriaText string) []string {
	m := limitClausePattern.FindStringSubmatch(criteriaText)
	if m == nil {
		return nil
	}
	var values []string
	for _, v := range limitValueSplitter.Split(m[1], -1) {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// Process applies the full post-processing sequence for the given report
// type. The claim criteria text is consulted only for limit-code filtering.
func (p *PostProcessor) Process(frame *models.ResultFrame, reportType, claimCriteriaText string) *models.ResultFrame {
	if reportType == "" {
		reportType = "line"
	}
	reportType = strings.ToLower(reportType)

	if strings.Contains(strings.ToLower(claimCriteriaText), "limit") {
		if values := ExtractLimitValues(claimCriteriaText); len(values) > 0 {
			log.Printf("[PostProcessor] Filtering limit classes for values %v", values)
			frame = p.filterLimitClasses(frame, values)
		}
	}

	frame = frame.DropColumns(p.lookup.ExcludedFor(reportType))
	if reportType == "claim" {
		frame = frame.DropDuplicateRows()
	}

	frame = p.firstLinePerClaim(frame)
	frame = p.deriveFields(frame)
	frame = p.applyReplaceMappings(frame)

	log.Printf("[PostProcessor] Report shaped - type=%s, rows=%d", reportType, frame.RowCount())
	return frame
}

// filterLimitClasses concatenates each pointer-keyed limit-class column group
// per row and keeps rows whose concatenation contains any target value as a
// substring. The pointer column selects which group applies to a row.
func (p *PostProcessor) filterLimitClasses(frame *models.ResultFrame, values []string) *models.ResultFrame {
	// Group limit-class columns present in the frame by their pointer value
	// (the second-to-last numeric part of the column name).
	groups := make(map[string][]int)
	for i, col := range frame.Columns {
		if !strings.HasPrefix(col, rules.LimitClassPrefix) {
			continue
		}
		parts := strings.Split(col, "_")
		if len(parts) < 2 {
			continue
		}
		pointer := parts[len(parts)-2]
		if _, err := strconv.Atoi(pointer); err != nil {
			continue
		}
		groups[pointer] = append(groups[pointer], i)
	}

	pointerIdx := frame.ColumnIndex(rules.LimitPointerColumn)

	return frame.Filter(func(row []string) bool {
		if pointerIdx < 0 {
			return false
		}
		cols, ok := groups[row[pointerIdx]]
		if !ok {
			return false
		}
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = row[c]
		}
		concatenated := strings.Join(parts, ",")
		for _, v := range values {
			if strings.Contains(concatenated, v) {
				return true
			}
		}
		return false
	})
}

// firstLinePerClaim keeps, per claim identifier, only the minimum-sequence
// row among rows whose item code is in the accepted set and whose
// reject-continuation code does not start with the deletion marker.
func (p *PostProcessor) firstLinePerClaim(frame *models.ResultFrame) *models.ResultFrame {
	itemIdx := frame.ColumnIndex(rules.ItemCodeColumn)
	payRestIdx := frame.ColumnIndex(rules.PayActionRestColumn)
	dcnIdx := frame.ColumnIndex(rules.ClaimNumberColumn)
	seqIdx := frame.ColumnIndex(rules.SequenceColumn)
	if itemIdx < 0 || payRestIdx < 0 || dcnIdx < 0 || seqIdx < 0 {
		return frame
	}

	filtered := frame.Filter(func(row []string) bool {
		item := row[itemIdx]
		if item != rules.OriginalItemCode && item != rules.AdjustedItemCode {
			return false
		}
		return !strings.HasPrefix(row[payRestIdx], rules.DeletionMarker)
	})

	minSeq := make(map[string]string)
	for _, row := range filtered.Rows {
		dcn, seq := row[dcnIdx], row[seqIdx]
		current, seen := minSeq[dcn]
		if !seen || lessSequence(seq, current) {
			minSeq[dcn] = seq
		}
	}

	return filtered.Filter(func(row []string) bool {
		return row[seqIdx] == minSeq[row[dcnIdx]]
	})
}

// deriveFields computes the concatenated pay-action code, the adjudication
// mode and the provider status.
func (p *PostProcessor) deriveFields(frame *models.ResultFrame) *models.ResultFrame {
	payFirstIdx := frame.ColumnIndex(rules.PayActionFirstColumn)
	payRestIdx := frame.ColumnIndex(rules.PayActionRestColumn)
	if payFirstIdx >= 0 && payRestIdx >= 0 {
		frame = frame.AddColumn(rules.PayActionColumn, func(row int) string {
			return frame.Rows[row][payFirstIdx] + frame.Rows[row][payRestIdx]
		})
	}

	if adjudIdx := frame.ColumnIndex(rules.AdjudMethodColumn); adjudIdx >= 0 {
		frame = frame.AddColumn(rules.AdjudicateModeColumn, func(row int) string {
			if frame.Rows[row][adjudIdx] == rules.AutoAdjudicationCode {
				return "AUTO"
			}
			return "MANUAL"
		})
	}

	homeIdx := frame.ColumnIndex(rules.ITSHomeIndColumn)
	provIdx := frame.ColumnIndex(rules.ProviderIndColumn)
	keyedIdx := frame.ColumnIndex(rules.ParKeyedIndColumn)
	mxIdx := frame.ColumnIndex(rules.MxParIndColumn)
	if homeIdx >= 0 {
		frame = frame.AddColumn(rules.ProviderStatusColumn, func(row int) string {
			return p.catalog.ProviderStatus(
				cell(frame, row, homeIdx), cell(frame, row, provIdx),
				cell(frame, row, keyedIdx), cell(frame, row, mxIdx))
		})
	}
	return frame
}

// applyReplaceMappings produces new derived columns from the configured
// source-column value maps. Values absent from a map pass through unchanged.
func (p *PostProcessor) applyReplaceMappings(frame *models.ResultFrame) *models.ResultFrame {
	sources := make([]string, 0, len(p.lookup.ReplaceMappings))
	for source := range p.lookup.ReplaceMappings {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		mapping := p.lookup.ReplaceMappings[source]
		idx := frame.ColumnIndex(source)
		if idx < 0 {
			continue
		}
		m := mapping
		frame = frame.AddColumn(mapping.NewColumnName, func(row int) string {
			value := frame.Rows[row][idx]
			if mapped, ok := m.Mapping[value]; ok {
				return mapped
			}
			return value
		})
	}
	return frame
}

// lessSequence compares sequence numbers numerically when both parse as
// integers, falling back to string order otherwise.
func lessSequence(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimSpace(a))
	nb, errB := strconv.Atoi(strings.TrimSpace(b))
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

func cell(frame *models.ResultFrame, row, col int) string {
	if col < 0 {
		return ""
	}
	return frame.Rows[row][col]
}
