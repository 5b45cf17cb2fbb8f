package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/retail-etl/internal/queries"
)

// Handler serves the read-only query endpoints.
type Handler struct {
	runner *queries.Runner
	log    zerolog.Logger
}

// NewHandler creates a new query API handler
func NewHandler(runner *queries.Runner, log zerolog.Logger) *Handler {
	return &Handler{
		runner: runner,
		log:    log.With().Str("handler", "queries").Logger(),
	}
}

// RegisterRoutes registers all query routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/transactions/count", h.HandleCountByDate)
		r.Get("/sales/total", h.HandleTotalSellAmount)
		r.Get("/products/{name}/balance", h.HandleProductBalance)
	})
}

// HandleCountByDate handles GET /api/transactions/count?date=YYYY-MM-DD
func (h *Handler) HandleCountByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "missing required query parameter: date", http.StatusBadRequest)
		return
	}

	count, err := h.runner.CountByDate(date)
	if err != nil {
		h.log.Error().Err(err).Str("date", date).Msg("Failed to count transactions")
		http.Error(w, "Failed to count transactions", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]any{
		"date":  date,
		"count": count,
	})
}

// HandleTotalSellAmount handles GET /api/sales/total
func (h *Handler) HandleTotalSellAmount(w http.ResponseWriter, r *http.Request) {
	total, err := h.runner.TotalSellAmountIncTax()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to sum sell amounts")
		http.Error(w, "Failed to sum sell amounts", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]any{
		"total_inc_tax": total,
	})
}

// HandleProductBalance handles GET /api/products/{name}/balance
func (h *Handler) HandleProductBalance(w http.ResponseWriter, r *http.Request) {
	product := chi.URLParam(r, "name")

	balances, err := h.runner.BalanceByProduct(product)
	if err != nil {
		h.log.Error().Err(err).Str("product", product).Msg("Failed to query balance")
		http.Error(w, "Failed to query balance", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]any{
		"product":  product,
		"balances": balances,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
