package ports

import (
	"context"

	"claimsql/models"
)

// UsageRepository accumulates daily token-usage aggregates per model entity.
type UsageRepository interface {
	AddUsage(ctx context.Context, entityType, date string, inputTokens, outputTokens int) error
	GetUsage(ctx context.Context, entityType, date string) (*models.UsageRecord, error)
}
