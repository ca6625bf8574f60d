package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/maphoenix/solarroi/pkg/log"
	"github.com/maphoenix/solarroi/pkg/types"
)

// handleFinance returns loan breakdowns for a system cost: the standard
// market rate and the discounted green-energy rate, for comparison.
func (s *Server) handleFinance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Cost  float64 `json:"cost"`
		Years int     `json:"years,omitempty"`
	}
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	years := req.Years
	if years == 0 {
		years = s.financer.DefaultTermYears()
	}

	market, err := s.financer.CalculateAtMarketRate(ctx, req.Cost, years)
	if err != nil {
		if errors.Is(err, types.ErrInvalidInput) {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "finance calculation failed", slog.Any("error", err))
		writeJSONError(w, "finance calculation failed", http.StatusInternalServerError)
		return
	}
	green, err := s.financer.CalculateGreenEnergy(ctx, req.Cost, years)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "finance calculation failed", slog.Any("error", err))
		writeJSONError(w, "finance calculation failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, struct {
		Market types.FinanceBreakdown `json:"market"`
		Green  types.FinanceBreakdown `json:"green"`
	}{Market: market, Green: green})
}
