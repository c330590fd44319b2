// Package http exposes the dashboard over a small JSON API: the
// aggregate metrics, the two pie-chart datasets, paginated raw tables
// and the two write forms.
package http

import (
	"net/http"

	"github.com/Spirit-void/dasbor-finansial/internal/middleware/trace"
	"github.com/Spirit-void/dasbor-finansial/internal/services"
)

type Server struct {
	svc *services.FinanceService
	mux *http.ServeMux
}

func NewServer(svc *services.FinanceService) *Server {
	s := &Server{svc: svc, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/api/summary", s.handleSummary)
	s.mux.HandleFunc("/api/charts/assets", s.handleAssetChart)
	s.mux.HandleFunc("/api/charts/expenses", s.handleExpenseChart)
	s.mux.HandleFunc("/api/transactions", s.handleTransactions)
	s.mux.HandleFunc("/api/assets", s.handleAssets)
	s.mux.HandleFunc("/api/assets/names", s.handleAssetNames)
	s.mux.HandleFunc("/api/assets/value", s.handleUpdateAssetValue)
	s.mux.HandleFunc("/api/categories", s.handleCategories)
}

// Handler returns the full middleware-wrapped handler chain.
func (s *Server) Handler() http.Handler {
	return trace.Middleware(s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
