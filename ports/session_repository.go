package ports

import (
	"context"

	"claimsql/models"
)

// SessionRepository records the outcome of every pipeline run. Every failure
// path must still reach UpsertSession so the session store reflects the
// terminal status.
type SessionRepository interface {
	UpsertSession(ctx context.Context, record *models.SessionRecord) error
	GetSession(ctx context.Context, ticketID string) (*models.SessionRecord, error)
}
