package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	apperrors "claimsql/internal/errors"
	"claimsql/models"
	"claimsql/ports"
)

// UsageRepositoryImpl implements UsageRepository for PostgreSQL.
type UsageRepositoryImpl struct {
	db *sqlx.DB
}

// NewUsageRepository creates a new PostgreSQL usage repository.
func NewUsageRepository(db *sqlx.DB) ports.UsageRepository {
	return &UsageRepositoryImpl{db: db}
}

// AddUsage increments the daily aggregate for one model entity. The row is
// created on first use of the (entity, date) pair.
func (r *UsageRepositoryImpl) AddUsage(ctx context.Context, entityType, date string, inputTokens, outputTokens int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO token_usage (
			entity_type, created_date, api_count,
			input_token_count, output_token_count, total_token_count
		) VALUES ($1, $2, 1, $3, $4, $3 + $4)
		ON CONFLICT (entity_type, created_date) DO UPDATE SET
			api_count = token_usage.api_count + 1,
			input_token_count = token_usage.input_token_count + EXCLUDED.input_token_count,
			output_token_count = token_usage.output_token_count + EXCLUDED.output_token_count,
			total_token_count = token_usage.total_token_count + EXCLUDED.total_token_count
	`, entityType, date, inputTokens, outputTokens)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, apperrors.Wrap(err, "failed to add usage"))
	}
	return nil
}

// GetUsage retrieves the aggregate for one (entity, date) pair.
func (r *UsageRepositoryImpl) GetUsage(ctx context.Context, entityType, date string) (*models.UsageRecord, error) {
	var record models.UsageRecord
	err := r.db.GetContext(ctx, &record, `
		SELECT entity_type, created_date, api_count,
		       input_token_count, output_token_count, total_token_count
		FROM token_usage
		WHERE entity_type = $1 AND created_date = $2
	`, entityType, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("usage record not found")
	}
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeDatabaseError, apperrors.Wrap(err, "failed to get usage"))
	}
	return &record, nil
}
