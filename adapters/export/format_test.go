package export

import (
	"testing"

	apperrors "claimsql/internal/errors"
)

func TestForFormat_SelectsSink(t *testing.T) {
	exporter, err := ForFormat("csv", "reports")
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if _, ok := exporter.(*CSVExporter); !ok {
		t.Fatalf("csv selected %T", exporter)
	}

	exporter, err = ForFormat("", "reports")
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if _, ok := exporter.(*CSVExporter); !ok {
		t.Fatalf("default selected %T", exporter)
	}

	exporter, err = ForFormat("XLSX", "reports")
	if err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	if _, ok := exporter.(*ExcelExporter); !ok {
		t.Fatalf("xlsx selected %T", exporter)
	}
}

func TestForFormat_RejectsUnknownFormat(t *testing.T) {
	_, err := ForFormat("parquet", "reports")
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperrors.HasCode(err, apperrors.CodeConfigError) {
		t.Fatalf("code = %s", apperrors.GetCode(err))
	}
}
