package models

// QueryKind classifies what the generator extracted from the model response.
type QueryKind string

const (
	// QueryKindSQL means a SQL statement was extracted.
	QueryKindSQL QueryKind = "SQL"
	// QueryKindRefusal means the model declined and returned a clarification
	// or refusal message instead of a query.
	QueryKindRefusal QueryKind = "REFUSAL"
	// QueryKindUnparseable means neither a query nor a refusal wrapper was
	// found in the response.
	QueryKindUnparseable QueryKind = "UNPARSEABLE"
)

// GeneratedQuery is the outcome of one LLM generation call. It is created by
// the generator and consumed once by the sanitizer; it is never persisted.
type GeneratedQuery struct {
	Kind         QueryKind
	Text         string
	InputTokens  int
	OutputTokens int
}

// SanitizedQuery is the rewritten SQL plus the restricted-operation verdict.
// When Restricted is true the SQL must never reach the warehouse.
type SanitizedQuery struct {
	SQL        string
	Restricted bool
}
