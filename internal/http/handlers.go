package http

import (
	"context"
	"net/http"

	"github.com/Spirit-void/dasbor-finansial/internal/core"
)

type summaryResponse struct {
	Degraded        bool              `json:"degraded"`
	TotalIncome     int64             `json:"total_income"`
	TotalExpense    int64             `json:"total_expense"`
	TotalSavings    int64             `json:"total_savings"`
	TotalInvestment int64             `json:"total_investment"`
	TotalOther      int64             `json:"total_other"`
	TotalAssets     int64             `json:"total_assets"`
	NetCashFlow     int64             `json:"net_cash_flow"`
	Display         map[string]string `json:"display"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	sum, degraded := s.svc.Summary(ctx)
	writeJSON(w, http.StatusOK, summaryResponse{
		Degraded:        degraded,
		TotalIncome:     int64(sum.TotalIncome),
		TotalExpense:    int64(sum.TotalExpense),
		TotalSavings:    int64(sum.TotalSavings),
		TotalInvestment: int64(sum.TotalInvestment),
		TotalOther:      int64(sum.TotalOther),
		TotalAssets:     int64(sum.TotalAssets),
		NetCashFlow:     int64(sum.NetCashFlow),
		Display: map[string]string{
			"total_aset":      formatRupiah(sum.TotalAssets),
			"total_tabungan":  formatRupiah(sum.TotalSavings),
			"total_investasi": formatRupiah(sum.TotalInvestment),
			"arus_kas_bersih": formatRupiah(sum.NetCashFlow),
		},
	})
}

type chartSlice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

func toChart(values []core.NameValue) []chartSlice {
	out := make([]chartSlice, 0, len(values))
	for _, v := range values {
		out = append(out, chartSlice{Name: v.Name, Value: int64(v.Value)})
	}
	return out
}

func (s *Server) handleAssetChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, map[string]any{
		"slices": toChart(s.svc.AssetChart(ctx)),
	})
}

func (s *Server) handleExpenseChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	limit := queryInt(r, "limit", 0)
	writeJSON(w, http.StatusOK, map[string]any{
		"slices": toChart(s.svc.ExpenseChart(ctx, limit)),
	})
}

type transactionRow struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
}

type pageResponse struct {
	Rows any           `json:"rows"`
	Page core.PageInfo `json:"page"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.appendTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	size := queryInt(r, "size", 20)
	number := queryInt(r, "page", 1)
	rows, page := s.svc.Transactions(ctx, size, number)

	out := make([]transactionRow, 0, len(rows))
	for _, tx := range rows {
		date := ""
		if !tx.Date.IsZero() {
			date = tx.Date.Format("2006-01-02")
		}
		out = append(out, transactionRow{
			Date:        date,
			Type:        tx.Type,
			Category:    tx.Category,
			Description: tx.Description,
			Amount:      int64(tx.Amount),
		})
	}
	writeJSON(w, http.StatusOK, pageResponse{Rows: out, Page: page})
}

type assetRow struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value int64  `json:"value"`
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	size := queryInt(r, "size", 20)
	number := queryInt(r, "page", 1)
	rows, page := s.svc.Assets(ctx, size, number)

	out := make([]assetRow, 0, len(rows))
	for _, a := range rows {
		out = append(out, assetRow{Name: a.Name, Type: a.Type, Value: int64(a.Value)})
	}
	writeJSON(w, http.StatusOK, pageResponse{Rows: out, Page: page})
}

func (s *Server) handleAssetNames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, map[string]any{
		"names": s.svc.AssetNames(ctx),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	txType := r.URL.Query().Get("type")
	cats := core.CategoriesFor(txType)
	if cats == nil {
		writeError(w, http.StatusBadRequest, "Jenis transaksi harus Pemasukan atau Pengeluaran.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"type":       txType,
		"categories": cats,
	})
}
