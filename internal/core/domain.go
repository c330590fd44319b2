package core

import (
	"errors"
	"strings"
	"time"
)

// Values as stored in the "Jenis" column of the Transaksi worksheet.
const (
	TypeIncome  = "Pemasukan"
	TypeExpense = "Pengeluaran"
)

// Well-known values of the "Jenis Aset" column. The column is an open
// string; anything else lands in the Other bucket of the summary.
const (
	AssetSavings = "Tabungan"
	AssetStock   = "Saham"
	AssetGold    = "Emas"
)

type (
	// Rupiah is a whole-rupiah amount. Sheet cells are coerced into it on
	// load; unparseable cells become zero, never an error.
	Rupiah int64

	// Transaction is one data row of the Transaksi worksheet.
	Transaction struct {
		Date        time.Time
		Type        string
		Category    string
		Description string
		Amount      Rupiah
	}

	// Asset is one data row of the Aset worksheet. Name is the de-facto
	// key used by the update operation; the store does not enforce
	// uniqueness, first match wins.
	Asset struct {
		Name  string
		Type  string
		Value Rupiah
	}

	// TransactionInput is an append-transaction request.
	TransactionInput struct {
		Date        time.Time
		Type        string
		Category    string
		Description string
		Amount      Rupiah
	}

	// AssetUpdateInput is an update-asset-value request.
	AssetUpdateInput struct {
		Name     string
		NewValue Rupiah
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrUnknownType      = errors.New("unknown transaction type")
	ErrUnknownCategory  = errors.New("unknown category for transaction type")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyAssetName   = errors.New("empty asset name")
	ErrAssetNotFound    = errors.New("asset not found")
)

// Fixed category vocabulary per transaction type.
var (
	IncomeCategories  = []string{"Gaji", "Bonus", "Hasil Investasi", "Lainnya"}
	ExpenseCategories = []string{"Konsumsi", "Transportasi", "Tagihan", "Pengeluaran Tidak Terduga", "Investasi", "Lainnya"}
)

// CategoriesFor returns the allowed categories for a transaction type,
// or nil when the type itself is unknown.
func CategoriesFor(txType string) []string {
	switch txType {
	case TypeIncome:
		return IncomeCategories
	case TypeExpense:
		return ExpenseCategories
	default:
		return nil
	}
}

func (m Rupiah) Validate() error {
	if m <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (in TransactionInput) Validate() error {
	if in.Date.IsZero() {
		return ErrInvalidDate
	}
	cats := CategoriesFor(in.Type)
	if cats == nil {
		return ErrUnknownType
	}
	found := false
	for _, c := range cats {
		if c == in.Category {
			found = true
			break
		}
	}
	if !found {
		return ErrUnknownCategory
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrEmptyDescription
	}
	if len(in.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return in.Amount.Validate()
}

func (in AssetUpdateInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyAssetName
	}
	if in.NewValue <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// dateLayouts are the formats accepted for the Tanggal column. The store
// does not enforce a format, so loading tolerates the common ones.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "02-01-2006"}

// ParseDate parses a Tanggal cell. A false return means the cell could
// not be interpreted as a date; the row is kept with a zero date so its
// amount still counts toward the totals.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
