package models

import (
	"reflect"
	"testing"
)

func sampleFrame() *ResultFrame {
	f := NewResultFrame([]string{"A", "B", "C"})
	f.AppendRow([]string{"1", "x", "p"})
	f.AppendRow([]string{"2", "y", "q"})
	f.AppendRow([]string{"2", "y", "q"})
	return f
}

func TestResultFrame_ColumnIndexAndValue(t *testing.T) {
	f := sampleFrame()

	if f.ColumnIndex("B") != 1 {
		t.Fatalf("ColumnIndex(B) = %d", f.ColumnIndex("B"))
	}
	if f.ColumnIndex("missing") != -1 {
		t.Fatal("missing column should index -1")
	}
	if f.Value(1, "C") != "q" {
		t.Fatalf("Value = %q", f.Value(1, "C"))
	}
	if f.Value(0, "missing") != "" {
		t.Fatal("missing column value should be empty")
	}
}

func TestResultFrame_FilterDoesNotMutateOriginal(t *testing.T) {
	f := sampleFrame()

	got := f.Filter(func(row []string) bool { return row[0] == "1" })
	if got.RowCount() != 1 {
		t.Fatalf("filtered rows = %d", got.RowCount())
	}
	if f.RowCount() != 3 {
		t.Fatal("original frame mutated")
	}
}

func TestResultFrame_DropColumns(t *testing.T) {
	f := sampleFrame()

	got := f.DropColumns([]string{"B", "missing"})
	if !reflect.DeepEqual(got.Columns, []string{"A", "C"}) {
		t.Fatalf("columns = %v", got.Columns)
	}
	if !reflect.DeepEqual(got.Rows[0], []string{"1", "p"}) {
		t.Fatalf("row = %v", got.Rows[0])
	}
}

func TestResultFrame_AddColumnAppends(t *testing.T) {
	f := sampleFrame()

	got := f.AddColumn("D", func(row int) string { return f.Rows[row][0] + "!" })
	if got.ColumnIndex("D") != 3 {
		t.Fatalf("columns = %v", got.Columns)
	}
	if got.Value(1, "D") != "2!" {
		t.Fatalf("computed value = %q", got.Value(1, "D"))
	}
}

func TestResultFrame_AddColumnOverwritesInPlace(t *testing.T) {
	f := sampleFrame()

	got := f.AddColumn("B", func(row int) string { return "new" })
	if len(got.Columns) != 3 {
		t.Fatalf("duplicate column added: %v", got.Columns)
	}
	if got.Value(0, "B") != "new" {
		t.Fatalf("value = %q", got.Value(0, "B"))
	}
	if f.Value(0, "B") != "x" {
		t.Fatal("original frame mutated")
	}
}

func TestResultFrame_DropDuplicateRowsKeepsFirst(t *testing.T) {
	f := sampleFrame()

	got := f.DropDuplicateRows()
	if got.RowCount() != 2 {
		t.Fatalf("rows = %d", got.RowCount())
	}
}

func TestResultFrame_TruncatedFlagSurvivesTransforms(t *testing.T) {
	f := sampleFrame()
	f.Truncated = true

	if !f.Filter(func([]string) bool { return true }).Truncated {
		t.Fatal("Filter dropped the truncated flag")
	}
	if !f.DropColumns([]string{"B"}).Truncated {
		t.Fatal("DropColumns dropped the truncated flag")
	}
	if !f.AddColumn("Z", func(int) string { return "" }).Truncated {
		t.Fatal("AddColumn dropped the truncated flag")
	}
}
