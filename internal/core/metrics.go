package core

// Summary holds the aggregate totals shown at the top of the dashboard.
//
// TotalAssets is TotalSavings + TotalInvestment. Assets with an
// unrecognized Jenis Aset are reported in TotalOther and deliberately
// kept out of TotalAssets so the identity stays exact.
type Summary struct {
	TotalIncome     Rupiah
	TotalExpense    Rupiah
	TotalSavings    Rupiah
	TotalInvestment Rupiah
	TotalOther      Rupiah
	TotalAssets     Rupiah
	NetCashFlow     Rupiah
}

// NameValue is one slice of a pie-chart dataset.
type NameValue struct {
	Name  string
	Value Rupiah
}

// Summarize computes all totals in one pass per table. Empty tables
// yield zeros, never an error.
func Summarize(txs []Transaction, assets []Asset) Summary {
	var s Summary
	for _, t := range txs {
		switch t.Type {
		case TypeIncome:
			s.TotalIncome += t.Amount
		case TypeExpense:
			s.TotalExpense += t.Amount
		}
	}
	for _, a := range assets {
		switch a.Type {
		case AssetSavings:
			s.TotalSavings += a.Value
		case AssetStock, AssetGold:
			s.TotalInvestment += a.Value
		default:
			s.TotalOther += a.Value
		}
	}
	s.TotalAssets = s.TotalSavings + s.TotalInvestment
	s.NetCashFlow = s.TotalIncome - s.TotalExpense
	return s
}

// AssetComposition builds the asset pie-chart dataset, aggregating by
// asset name in first-seen order.
func AssetComposition(assets []Asset) []NameValue {
	return aggregate(assets, func(a Asset) (string, Rupiah) {
		return a.Name, a.Value
	})
}

// ExpenseByCategory builds the expense pie-chart dataset from expense
// rows, aggregated by category in first-seen order. A positive limit
// restricts the input to the most recent limit transactions before
// filtering, matching the dashboard's "last N" view.
func ExpenseByCategory(txs []Transaction, limit int) []NameValue {
	if limit > 0 && len(txs) > limit {
		txs = txs[len(txs)-limit:]
	}
	expenses := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if t.Type == TypeExpense {
			expenses = append(expenses, t)
		}
	}
	return aggregate(expenses, func(t Transaction) (string, Rupiah) {
		return t.Category, t.Amount
	})
}

func aggregate[T any](rows []T, keyValue func(T) (string, Rupiah)) []NameValue {
	sums := map[string]Rupiah{}
	order := make([]string, 0, len(rows))
	for _, r := range rows {
		name, value := keyValue(r)
		if _, seen := sums[name]; !seen {
			order = append(order, name)
		}
		sums[name] += value
	}
	out := make([]NameValue, 0, len(order))
	for _, name := range order {
		out = append(out, NameValue{Name: name, Value: sums[name]})
	}
	return out
}
