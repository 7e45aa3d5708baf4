package docs

import (
	"context"
	"strings"
	"testing"

	"claimsql/domain/rules"
)

func testTables() *rules.TablesConfig {
	return &rules.TablesConfig{Tables: []rules.TableSpec{
		{
			Name: "CLM_WGS_GNCCLMP_CMPCT",
			Columns: []rules.ColumnDoc{
				{Name: "GNCHIIOS_HCLM_DCN", Description: "document control number identifying the claim"},
				{Name: "DDC_CD_ERR_CDE_1", Description: "error code position 1 of 32"},
				{Name: "DDC_CD_COPAY_AMT", Description: "member copay amount"},
			},
		},
		{
			Name: "CLM_WGS_GNCDTLP_CMPCT",
			Columns: []rules.ColumnDoc{
				{Name: "DDC_DTL_PRCDR_CDE", Description: "procedure code on the claim line"},
			},
		},
	}}
}

func TestSearch_RanksByKeywordOverlap(t *testing.T) {
	r := NewRetriever(testTables())

	got, err := r.Search(context.Background(), "error code", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("no documents retrieved")
	}
	if !strings.HasPrefix(got[0], "DDC_CD_ERR_CDE_1") {
		t.Fatalf("best match = %q", got[0])
	}
}

func TestSearch_HonorsK(t *testing.T) {
	r := NewRetriever(testTables())

	got, err := r.Search(context.Background(), "code claim", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
}

func TestSearch_NoOverlapReturnsEmpty(t *testing.T) {
	r := NewRetriever(testTables())

	got, err := r.Search(context.Background(), "zzqqy", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no documents, got %v", got)
	}
}

func TestSearch_StableOrderOnTies(t *testing.T) {
	r := NewRetriever(testTables())

	first, _ := r.Search(context.Background(), "claim", 10)
	second, _ := r.Search(context.Background(), "claim", 10)
	if len(first) != len(second) {
		t.Fatalf("result sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("order not stable at %d: %q vs %q", i, first[i], second[i])
		}
	}
}
