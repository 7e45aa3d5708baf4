package sqlguard

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"claimsql/domain/rules"
	"claimsql/models"
)

// primaryTablePattern locates the clause that introduces the claim header
// table with its fixed alias. Everything before it is replaced by the
// configured projection.
var primaryTablePattern = regexp.MustCompile(`(?i)\bFROM\s+` + rules.PrimaryTable + `\s+` + rules.PrimaryTableAlias + `\b`)

// dedupJoinAlias marks the injected first-line-per-claim join; its presence
// makes a second sanitize pass skip re-injection.
const dedupJoinAlias = "ms"

// Sanitizer rewrites generated SQL: it enforces the configured full-column
// projection, injects the first-line-per-claim join and refuses queries
// containing restricted operations.
type Sanitizer struct {
	catalog *rules.Catalog
	tables  *rules.TablesConfig
}

// NewSanitizer creates a sanitizer over the shared catalog and table
// configuration.
func NewSanitizer(catalog *rules.Catalog, tables *rules.TablesConfig) *Sanitizer {
	return &Sanitizer{catalog: catalog, tables: tables}
}

// Sanitize checks for restricted operations and, when clean, rewrites the
// query. A restricted query comes back with Restricted set and must never be
// executed. A query whose primary-table clause cannot be located is returned
// unmodified rather than failing.
func (s *Sanitizer) Sanitize(sql string) models.SanitizedQuery {
	if op, found := FindRestrictedOperation(sql, s.catalog.RestrictedOperations); found {
		log.Printf("[Sanitizer] Found restricted operation: %s", op)
		return models.SanitizedQuery{SQL: sql, Restricted: true}
	}
	return models.SanitizedQuery{SQL: s.rewrite(sql)}
}

// rewrite replaces the SELECT clause with the configured aliased projection
// and injects the minimum-sequence de-duplication join after the primary
// table clause.
func (s *Sanitizer) rewrite(query string) string {
	match := primaryTablePattern.FindStringIndex(query)
	if match == nil {
		log.Printf("[Sanitizer] Primary table clause not found; query left unmodified")
		return query
	}

	newQuery := "SELECT\n" + s.projection() + "\n" + strings.TrimSpace(query[match[0]:])

	if strings.Contains(newQuery, dedupJoinAlias+".min_seq") {
		// De-dup join already present; keep exactly one injection.
		return newQuery
	}

	inner := primaryTablePattern.FindStringIndex(newQuery)
	if inner == nil {
		return newQuery
	}
	end := inner[1]
	return newQuery[:end] + "\n" + s.dedupJoin() + "\n" + newQuery[end:]
}

// projection renders every configured column for every configured table,
// each qualified by its table alias. The tokenized member identifier is
// projected unqualified because it is post-processed by the detokenization
// function.
func (s *Sanitizer) projection() string {
	var columns []string
	for _, t := range s.tables.Tables {
		alias := s.catalog.AliasFor(t.Name)
		for _, col := range t.SelectColumns {
			if strings.Contains(col, rules.HCIDColumn) || alias == "" {
				columns = append(columns, col)
				continue
			}
			columns = append(columns, alias+"."+col)
		}
	}
	return strings.Join(columns, ",\n")
}

func (s *Sanitizer) dedupJoin() string {
	return fmt.Sprintf(`INNER JOIN (
    SELECT %[1]s, MIN(%[2]s) AS min_seq
    FROM %[3]s
    GROUP BY %[1]s
) AS %[4]s ON %[5]s.%[1]s = %[4]s.%[1]s AND %[5]s.%[2]s = %[4]s.min_seq`,
		rules.ClaimNumberColumn, rules.SequenceColumn, rules.PrimaryTable,
		dedupJoinAlias, rules.PrimaryTableAlias)
}
