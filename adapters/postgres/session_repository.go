// Package postgres implements the bookkeeping repositories on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	apperrors "claimsql/internal/errors"
	"claimsql/models"
	"claimsql/ports"
)

// SessionRepositoryImpl implements SessionRepository for PostgreSQL.
type SessionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository.
func NewSessionRepository(db *sqlx.DB) ports.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// UpsertSession writes the terminal state of a run keyed by ticket.
func (r *SessionRepositoryImpl) UpsertSession(ctx context.Context, record *models.SessionRecord) error {
	record.UpdatedAt = time.Now().UTC()
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO report_sessions (
			user_id, ticket_id, request_time, status, comments,
			sql_query, report_path, input_tokens, output_tokens, updated_at
		) VALUES (
			:user_id, :ticket_id, :request_time, :status, :comments,
			:sql_query, :report_path, :input_tokens, :output_tokens, :updated_at
		)
		ON CONFLICT (ticket_id) DO UPDATE SET
			status = EXCLUDED.status,
			comments = EXCLUDED.comments,
			sql_query = EXCLUDED.sql_query,
			report_path = EXCLUDED.report_path,
			input_tokens = EXCLUDED.input_tokens,
			output_tokens = EXCLUDED.output_tokens,
			updated_at = EXCLUDED.updated_at
	`, record)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, apperrors.Wrap(err, "failed to upsert session"))
	}
	return nil
}

// GetSession retrieves the latest record for a ticket.
func (r *SessionRepositoryImpl) GetSession(ctx context.Context, ticketID string) (*models.SessionRecord, error) {
	var record models.SessionRecord
	err := r.db.GetContext(ctx, &record, `
		SELECT user_id, ticket_id, request_time, status, comments,
		       sql_query, report_path, input_tokens, output_tokens, updated_at
		FROM report_sessions
		WHERE ticket_id = $1
	`, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("session not found")
	}
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, apperrors.Wrap(err, "failed to get session"))
	}
	return &record, nil
}
