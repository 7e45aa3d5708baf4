package export

import (
	"context"
	"fmt"

	"claimsql/models"
)

// MockExporter records uploads without touching the filesystem.
type MockExporter struct {
	Err      error
	Uploaded []*models.ResultFrame
}

func (m *MockExporter) Upload(ctx context.Context, frame *models.ResultFrame, ticketID, requestTime string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.Uploaded = append(m.Uploaded, frame)
	return fmt.Sprintf("reports/%s_%s.csv", ticketID, requestTime), nil
}
