package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadTables_PreservesOrder(t *testing.T) {
	path := writeFile(t, "tables.yaml", `
tables:
  - name: CLM_WGS_GNCCLMP_CMPCT
    select_columns: [GNCHIIOS_HCLM_DCN, GNCHIIOS_HCLM_SEQ_NBR]
    join_columns: [GNCHIIOS_HCLM_DCN]
  - name: CLM_WGS_GNCDTLP_CMPCT
    select_columns: [DDC_DTL_PRCDR_CDE]
    join_columns: [GNCHIIOS_HCLM_DCN]
`)

	cfg, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	if len(cfg.Tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(cfg.Tables))
	}
	if cfg.Tables[0].Name != "CLM_WGS_GNCCLMP_CMPCT" {
		t.Fatalf("table order not preserved: %v", cfg.Tables)
	}
	if spec := cfg.Table("CLM_WGS_GNCDTLP_CMPCT"); spec == nil || len(spec.SelectColumns) != 1 {
		t.Fatalf("table lookup failed: %+v", spec)
	}
}

func TestLoadTables_RejectsEmptyConfig(t *testing.T) {
	path := writeFile(t, "tables.yaml", "tables: []\n")
	if _, err := LoadTables(path); err == nil {
		t.Fatal("expected error for empty tables config")
	}
}

func TestLoadLookup_ReportTypeCaseInsensitive(t *testing.T) {
	path := writeFile(t, "lookup.yaml", `
exclude_columns:
  line: [DDC_CD_ITS_MSG_DATA_1]
replace_mappings:
  DDC_CD_HOW_ADJUD_CDE:
    new_column_name: ADJUDICATE_MODE
    mapping:
      A: AUTO
`)

	cfg, err := LoadLookup(path)
	if err != nil {
		t.Fatalf("LoadLookup: %v", err)
	}
	if got := cfg.ExcludedFor("LINE"); len(got) != 1 {
		t.Fatalf("case-insensitive lookup failed: %v", got)
	}
	mapping, ok := cfg.ReplaceMappings["DDC_CD_HOW_ADJUD_CDE"]
	if !ok || mapping.NewColumnName != "ADJUDICATE_MODE" {
		t.Fatalf("replace mapping not parsed: %+v", cfg.ReplaceMappings)
	}
}

func TestLoadLookup_MissingFileFails(t *testing.T) {
	if _, err := LoadLookup(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing lookup file")
	}
}
