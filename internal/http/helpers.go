package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Spirit-void/dasbor-finansial/internal/core"
)

// requestTimeout bounds each handler's work against a slow store read.
const requestTimeout = 10 * time.Second

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// userMessage translates a validation error into the message shown in
// the UI. The second return is false for non-validation failures, which
// must not leak internals to the client.
func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return "Tanggal tidak valid.", true
	case errors.Is(err, core.ErrUnknownType):
		return "Jenis transaksi harus Pemasukan atau Pengeluaran.", true
	case errors.Is(err, core.ErrUnknownCategory):
		return "Kategori tidak sesuai dengan jenis transaksi.", true
	case errors.Is(err, core.ErrEmptyDescription):
		return "Deskripsi tidak boleh kosong.", true
	case errors.Is(err, core.ErrInvalidAmount):
		return "Jumlah harus lebih besar dari nol.", true
	case errors.Is(err, core.ErrEmptyAssetName):
		return "Nama aset tidak boleh kosong.", true
	case errors.Is(err, core.ErrAssetNotFound):
		return "Aset tidak ditemukan.", true
	}
	return "", false
}

// formatRupiah renders an amount the way the dashboard displays it,
// e.g. "Rp 5.000.000". Negative amounts keep the sign before the digits.
func formatRupiah(v core.Rupiah) string {
	n := int64(v)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return "Rp " + sign + b.String()
}

// queryInt reads an integer query parameter, falling back to def when
// absent or malformed.
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
