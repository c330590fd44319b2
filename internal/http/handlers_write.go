package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Spirit-void/dasbor-finansial/internal/core"
)

type appendTransactionRequest struct {
	Date        string      `json:"date"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
}

func (s *Server) appendTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req appendTransactionRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Permintaan tidak valid.")
		return
	}

	date, ok := core.ParseDate(req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, "Tanggal tidak valid.")
		return
	}
	amount, err := core.ParseRupiah(req.Amount.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Jumlah harus lebih besar dari nol.")
		return
	}

	in := core.TransactionInput{
		Date:        date,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Amount:      amount,
	}
	if err := s.svc.AppendTransaction(ctx, in); err != nil {
		s.writeFailure(w, r, "append transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"status":  "ok",
		"message": "Transaksi berhasil disimpan.",
	})
}

type updateAssetRequest struct {
	AssetName string      `json:"asset_name"`
	NewValue  json.Number `json:"new_value"`
}

func (s *Server) handleUpdateAssetValue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req updateAssetRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Permintaan tidak valid.")
		return
	}

	value, err := core.ParseRupiah(req.NewValue.String())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Nilai harus lebih besar dari nol.")
		return
	}

	in := core.AssetUpdateInput{Name: req.AssetName, NewValue: value}
	if err := s.svc.UpdateAssetValue(ctx, in); err != nil {
		s.writeFailure(w, r, "update asset value", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Nilai aset berhasil diperbarui.",
	})
}

// writeFailure maps a service error onto the response: validation
// failures become 400 with a user-facing message, anything else is a
// logged 500.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	if msg, ok := userMessage(err); ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	slog.ErrorContext(r.Context(), "Request failed",
		"operation", op,
		"error", err)
	writeError(w, http.StatusInternalServerError, "Terjadi kesalahan. Silakan coba lagi.")
}
