// Package docs serves table documentation snippets for prompt grounding.
// Documents are ranked by keyword overlap with the criteria query.
package docs

import (
	"context"
	"log"
	"sort"
	"strings"

	"claimsql/domain/rules"
)

// Retriever ranks the table-documentation corpus against a criteria query.
// The corpus is built from the table configuration: one document per column,
// column name plus description.
type Retriever struct {
	documents []document
}

type document struct {
	text  string
	terms map[string]int
}

// NewRetriever builds the corpus from the table configuration.
func NewRetriever(tables *rules.TablesConfig) *Retriever {
	r := &Retriever{}
	for _, table := range tables.Tables {
		for _, column := range table.Columns {
			text := column.Name
			if column.Description != "" {
				text = column.Name + ": " + column.Description
			}
			r.documents = append(r.documents, document{
				text:  text,
				terms: termCounts(text),
			})
		}
	}
	return r
}

// Search returns the k highest-scoring documents in descending score order.
// Ties keep corpus order so repeated queries retrieve stable prompts.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]string, error) {
	queryTerms := termCounts(query)

	type scored struct {
		index int
		score int
	}
	ranked := make([]scored, 0, len(r.documents))
	for i, doc := range r.documents {
		score := 0
		for term := range queryTerms {
			if n, ok := doc.terms[term]; ok {
				score += n
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{index: i, score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	results := make([]string, len(ranked))
	for i, s := range ranked {
		results[i] = r.documents[s.index].text
	}
	log.Printf("[Docs] Retrieved %d documents for query of %d terms", len(results), len(queryTerms))
	return results, nil
}

func termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '_')
	}) {
		if len(field) < 2 {
			continue
		}
		counts[field]++
	}
	return counts
}
