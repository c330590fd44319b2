package google

import (
	"context"
	"os"
	"testing"
)

func TestNewFromEnv_MissingSpreadsheetID(t *testing.T) {
	oldID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	defer os.Setenv("GOOGLE_SPREADSHEET_ID", oldID)
	os.Unsetenv("GOOGLE_SPREADSHEET_ID")

	_, err := NewFromEnv(context.Background())
	if err == nil {
		t.Fatal("expected error for missing GOOGLE_SPREADSHEET_ID")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewFromEnv_MissingCredentials(t *testing.T) {
	for _, key := range []string{"GOOGLE_SPREADSHEET_ID", "GOOGLE_SERVICE_ACCOUNT_JSON", "GOOGLE_SERVICE_ACCOUNT_FILE", "GOOGLE_APPLICATION_CREDENTIALS"} {
		old := os.Getenv(key)
		defer os.Setenv(key, old)
		os.Unsetenv(key)
	}
	os.Setenv("GOOGLE_SPREADSHEET_ID", "test-id")

	_, err := NewFromEnv(context.Background())
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestColumnLetter(t *testing.T) {
	cases := []struct {
		col  int
		want string
	}{
		{1, "A"},
		{3, "C"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{703, "AAA"},
	}
	for _, tc := range cases {
		if got := columnLetter(tc.col); got != tc.want {
			t.Errorf("columnLetter(%d) = %q, want %q", tc.col, got, tc.want)
		}
	}
}

func TestLastN(t *testing.T) {
	rows := [][]any{{"a"}, {"b"}, {"c"}}
	if got := lastN(rows, 2); len(got) != 2 || got[0][0] != "b" {
		t.Fatalf("lastN(2): %v", got)
	}
	if got := lastN(rows, 0); len(got) != 3 {
		t.Fatalf("lastN(0) should not truncate: %v", got)
	}
	if got := lastN(rows, 10); len(got) != 3 {
		t.Fatalf("lastN beyond length should not truncate: %v", got)
	}
}

func TestSheetRefQuoting(t *testing.T) {
	if got := rangeRef("Transaksi", "C4"); got != "'Transaksi'!C4" {
		t.Errorf("rangeRef: %q", got)
	}
	if got := sheetRef("It's"); got != "'It''s'" {
		t.Errorf("sheetRef quoting: %q", got)
	}
}

func TestToStrings(t *testing.T) {
	got := toStrings([]any{" a ", 12, 3.5, true})
	want := []string{"a", "12", "3.5", "true"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("toStrings[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
