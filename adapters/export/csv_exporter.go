// Package export writes finished report frames to files the requester can
// download.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"

	apperrors "claimsql/internal/errors"
	"claimsql/models"
)

// CSVExporter writes one report per run as <ticket>_<requestTime>.csv under
// the export directory.
type CSVExporter struct {
	dir string
}

// NewCSVExporter creates a CSV exporter rooted at dir.
func NewCSVExporter(dir string) *CSVExporter {
	return &CSVExporter{dir: dir}
}

// Upload writes the frame and returns the file path.
func (e *CSVExporter) Upload(ctx context.Context, frame *models.ResultFrame, ticketID, requestTime string) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", apperrors.WithCode(apperrors.CodeUploadError, apperrors.Wrap(err, "failed to create export directory"))
	}

	path := filepath.Join(e.dir, fmt.Sprintf("%s_%s.csv", ticketID, requestTime))
	file, err := os.Create(path)
	if err != nil {
		return "", apperrors.WithCode(apperrors.CodeUploadError, apperrors.Wrap(err, "failed to create report file"))
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(frame.Columns); err != nil {
		return "", apperrors.WithCode(apperrors.CodeUploadError, apperrors.Wrap(err, "failed to write report header"))
	}
	for _, row := range frame.Rows {
		if err := writer.Write(row); err != nil {
			return "", apperrors.WithCode(apperrors.CodeUploadError, apperrors.Wrap(err, "failed to write report row"))
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", apperrors.WithCode(apperrors.CodeUploadError, apperrors.Wrap(err, "failed to flush report"))
	}

	log.Printf("[Export] Wrote %d rows to %s", frame.RowCount(), path)
	return path, nil
}
