package handler

import (
	"net/http"
	"strings"

	"github.com/iho/payouts/internal/adapter/http/dto"
	"github.com/iho/payouts/internal/infrastructure/metrics"
	"github.com/iho/payouts/internal/usecase"
)

// RateHandler handles exchange rate HTTP requests.
type RateHandler struct {
	rates *usecase.RateService
	base  string
	quote string
}

// NewRateHandler creates a new RateHandler. base is the local currency
// entries are denominated in.
func NewRateHandler(rates *usecase.RateService, base, quote string) *RateHandler {
	return &RateHandler{rates: rates, base: base, quote: quote}
}

// Get returns the current exchange rate. The base and quote query parameters
// override the configured pair. The rate service always produces a usable
// rate, so this endpoint never fails.
func (h *RateHandler) Get(w http.ResponseWriter, r *http.Request) {
	base := h.base
	if q := r.URL.Query().Get("base"); q != "" {
		base = strings.ToUpper(q)
	}

	quote := h.quote
	if q := r.URL.Query().Get("quote"); q != "" {
		quote = strings.ToUpper(q)
	}

	rate := h.rates.GetCurrentRate(r.Context(), base, quote)

	metrics.RateRequests.Inc()

	writeJSON(w, http.StatusOK, dto.RateResponse{
		Base:  base,
		Quote: quote,
		Rate:  rate,
	})
}
