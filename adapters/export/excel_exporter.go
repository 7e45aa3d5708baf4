package export

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "claimsql/internal/errors"
	"claimsql/models"
)

const reportSheet = "Sheet1"

// ExcelExporter writes one report per run as <ticket>_<requestTime>.xlsx
// under the export directory.
type ExcelExporter struct {
	dir string
}

// NewExcelExporter creates an Excel exporter rooted at dir.
func NewExcelExporter(dir string) *ExcelExporter {
	return &ExcelExporter{dir: dir}
}

// Upload writes the frame and returns the file path.
func (e *ExcelExporter) Upload(ctx context.Context, frame *models.ResultFrame, ticketID, requestTime string) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", apperrors.WithCode(apperrors.CodeUploadError, apperrors.Wrap(err, "failed to create export directory"))
	}

	book := excelize.NewFile()
	defer book.Close()

	header := make([]interface{}, len(frame.Columns))
	for i, name := range frame.Columns {
		header[i] = name
	}
	if err := book.SetSheetRow(reportSheet, "A1", &header); err != nil {
		return "", apperrors.WithCode(apperrors.CodeUploadError, apperrors.Wrap(err, "failed to write report header"))
	}

	for i, row := range frame.Rows {
		cells := make([]interface{}, len(row))
		for j, value := range row {
			cells[j] = value
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", apperrors.WithCode(apperrors.CodeUploadError, apperrors.Wrap(err, "failed to address report row"))
		}
		if err := book.SetSheetRow(reportSheet, cell, &cells); err != nil {
			return "", apperrors.WithCode(apperrors.CodeUploadError, apperrors.Wrap(err, "failed to write report row"))
		}
	}

	path := filepath.Join(e.dir, fmt.Sprintf("%s_%s.xlsx", ticketID, requestTime))
	if err := book.SaveAs(path); err != nil {
		return "", apperrors.WithCode(apperrors.CodeUploadError, apperrors.Wrap(err, "failed to save report"))
	}

	log.Printf("[Export] Wrote %d rows to %s", frame.RowCount(), path)
	return path, nil
}
