package ports

import (
	"context"

	"claimsql/models"
)

// Exporter is the report sink collaborator. Upload writes the processed rows
// keyed by ticket identifier and request timestamp and returns the stored
// report path.
type Exporter interface {
	Upload(ctx context.Context, frame *models.ResultFrame, ticketID, requestTime string) (string, error)
}
