package export

import (
	"strings"

	apperrors "claimsql/internal/errors"
	"claimsql/ports"
)

// ForFormat selects the report sink for a configured format name. An empty
// format means CSV.
func ForFormat(format, dir string) (ports.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "csv":
		return NewCSVExporter(dir), nil
	case "xlsx", "excel":
		return NewExcelExporter(dir), nil
	default:
		return nil, apperrors.ConfigError("unsupported export format: " + format)
	}
}
