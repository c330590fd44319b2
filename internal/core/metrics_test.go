package core

import (
	"math/rand"
	"testing"
	"time"
)

func tx(txType, category string, amount Rupiah) Transaction {
	return Transaction{
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Type:        txType,
		Category:    category,
		Description: "x",
		Amount:      amount,
	}
}

func TestSummarizeEmptyTables(t *testing.T) {
	s := Summarize(nil, nil)
	if s != (Summary{}) {
		t.Fatalf("empty tables should yield all zeros, got %+v", s)
	}
}

func TestSummarizeSingleIncome(t *testing.T) {
	s := Summarize([]Transaction{tx(TypeIncome, "Gaji", 5000000)}, nil)
	if s.TotalIncome != 5000000 || s.NetCashFlow != 5000000 {
		t.Fatalf("got income=%d net=%d", s.TotalIncome, s.NetCashFlow)
	}
}

func TestSummarizeAssetBuckets(t *testing.T) {
	assets := []Asset{
		{Name: "Gold-1", Type: AssetGold, Value: 1000000},
		{Name: "Fund-1", Type: AssetStock, Value: 2000000},
		{Name: "Cash-1", Type: AssetSavings, Value: 500000},
	}
	s := Summarize(nil, assets)
	if s.TotalInvestment != 3000000 {
		t.Errorf("investment = %d, want 3000000", s.TotalInvestment)
	}
	if s.TotalSavings != 500000 {
		t.Errorf("savings = %d, want 500000", s.TotalSavings)
	}
	if s.TotalAssets != 3500000 {
		t.Errorf("assets = %d, want 3500000", s.TotalAssets)
	}
}

func TestSummarizeUnknownAssetTypeGoesToOther(t *testing.T) {
	assets := []Asset{
		{Name: "Cash-1", Type: AssetSavings, Value: 500000},
		{Name: "Crypto-1", Type: "Kripto", Value: 750000},
	}
	s := Summarize(nil, assets)
	if s.TotalOther != 750000 {
		t.Errorf("other = %d, want 750000", s.TotalOther)
	}
	if s.TotalAssets != s.TotalSavings+s.TotalInvestment {
		t.Errorf("TotalAssets identity broken: %+v", s)
	}
	if s.TotalAssets != 500000 {
		t.Errorf("assets = %d, want 500000", s.TotalAssets)
	}
}

func TestSummarizeIdentitiesAndOrderIndependence(t *testing.T) {
	txs := []Transaction{
		tx(TypeIncome, "Gaji", 8000000),
		tx(TypeExpense, "Konsumsi", 1500000),
		tx(TypeIncome, "Bonus", 2000000),
		tx(TypeExpense, "Tagihan", 700000),
		tx("Transfer", "Lainnya", 99999), // unknown type excluded from both sums
	}
	assets := []Asset{
		{Name: "Cash-1", Type: AssetSavings, Value: 500000},
		{Name: "Gold-1", Type: AssetGold, Value: 1000000},
	}

	want := Summarize(txs, assets)
	if want.NetCashFlow != want.TotalIncome-want.TotalExpense {
		t.Fatalf("net cash flow identity broken: %+v", want)
	}
	if want.TotalAssets != want.TotalSavings+want.TotalInvestment {
		t.Fatalf("total assets identity broken: %+v", want)
	}
	if want.TotalIncome != 10000000 || want.TotalExpense != 2200000 {
		t.Fatalf("unknown type leaked into sums: %+v", want)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]Transaction(nil), txs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := Summarize(shuffled, assets); got != want {
			t.Fatalf("summary depends on row order: got %+v want %+v", got, want)
		}
	}
}

func TestAssetComposition(t *testing.T) {
	assets := []Asset{
		{Name: "Gold-1", Type: AssetGold, Value: 1000000},
		{Name: "Cash-1", Type: AssetSavings, Value: 500000},
		{Name: "Gold-1", Type: AssetGold, Value: 200000}, // duplicate names aggregate
	}
	got := AssetComposition(assets)
	if len(got) != 2 {
		t.Fatalf("want 2 slices, got %v", got)
	}
	if got[0] != (NameValue{Name: "Gold-1", Value: 1200000}) {
		t.Errorf("slice 0: %+v", got[0])
	}
	if got[1] != (NameValue{Name: "Cash-1", Value: 500000}) {
		t.Errorf("slice 1: %+v", got[1])
	}
}

func TestExpenseByCategory(t *testing.T) {
	txs := []Transaction{
		tx(TypeExpense, "Konsumsi", 100),
		tx(TypeIncome, "Gaji", 9999),
		tx(TypeExpense, "Transportasi", 200),
		tx(TypeExpense, "Konsumsi", 300),
	}
	got := ExpenseByCategory(txs, 0)
	if len(got) != 2 || got[0].Value != 400 || got[1].Value != 200 {
		t.Fatalf("unexpected breakdown: %v", got)
	}

	// Limit counts raw recent transactions, not expenses.
	got = ExpenseByCategory(txs, 2)
	if len(got) != 2 || got[0] != (NameValue{Name: "Transportasi", Value: 200}) || got[1] != (NameValue{Name: "Konsumsi", Value: 300}) {
		t.Fatalf("limited breakdown: %v", got)
	}
}
