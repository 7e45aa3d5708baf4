package models

import "time"

// RunStatus is the terminal status of a criteria-to-report run.
type RunStatus string

const (
	RunStatusSuccess RunStatus = "SUCCESS"
	RunStatusFailed  RunStatus = "FAILED"
)

// SessionRecord is the bookkeeping row written for every pipeline run,
// success or failure.
type SessionRecord struct {
	UserID       string    `db:"user_id"`
	TicketID     string    `db:"ticket_id"`
	RequestTime  string    `db:"request_time"`
	Status       string    `db:"status"`
	Comments     string    `db:"comments"`
	SQLQuery     string    `db:"sql_query"`
	ReportPath   string    `db:"report_path"`
	InputTokens  int       `db:"input_tokens"`
	OutputTokens int       `db:"output_tokens"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// UsageRecord is the per-day token-usage aggregate for one model entity.
type UsageRecord struct {
	EntityType       string `db:"entity_type"`
	CreatedDate      string `db:"created_date"`
	APICount         int    `db:"api_count"`
	InputTokenCount  int    `db:"input_token_count"`
	OutputTokenCount int    `db:"output_token_count"`
	TotalTokenCount  int    `db:"total_token_count"`
}
