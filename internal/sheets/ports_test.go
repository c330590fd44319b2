package sheets

import (
	"errors"
	"testing"
)

func TestWorksheetColumnIndex(t *testing.T) {
	ws := NewWorksheet(SheetAssets, []string{ColAssetName, ColAssetType, ColAssetValue})

	idx, err := ws.ColumnIndex(ColAssetValue)
	if err != nil || idx != 3 {
		t.Fatalf("ColumnIndex(%q) = %d, %v", ColAssetValue, idx, err)
	}
	if _, err := ws.ColumnIndex("Nilai Lama"); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestWorksheetDuplicateHeaderKeepsFirst(t *testing.T) {
	ws := NewWorksheet("X", []string{"A", "B", "A"})
	idx, err := ws.ColumnIndex("A")
	if err != nil || idx != 1 {
		t.Fatalf("duplicate header should resolve to first column, got %d, %v", idx, err)
	}
}

func TestRecordGet(t *testing.T) {
	rec := Record{ColAmount: " 5000 "}
	if got := rec.Get(ColAmount); got != "5000" {
		t.Fatalf("Get trims: %q", got)
	}
	if got := rec.Get(ColDate); got != "" {
		t.Fatalf("absent column should be empty, got %q", got)
	}
}
