package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/maphoenix/solarroi/pkg/log"
	"github.com/maphoenix/solarroi/pkg/types"
)

func (s *Server) handleGetTariffs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tariffs, err := s.tariffs.Tariffs(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to load tariffs", slog.Any("error", err))
		writeJSONError(w, "failed to load tariffs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, tariffs)
}

// handleUpdateTariffs replaces the tariff catalog. Admin only.
func (s *Server) handleUpdateTariffs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var tariffs []types.Tariff
	if err := decodeJSONBody(w, r, &tariffs); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.tariffs.Update(ctx, tariffs); err != nil {
		if errors.Is(err, types.ErrInvalidInput) {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to update tariffs", slog.Any("error", err))
		writeJSONError(w, "failed to update tariffs", http.StatusInternalServerError)
		return
	}

	log.Ctx(ctx).InfoContext(ctx, "tariff catalog updated", slog.Int("tariffs", len(tariffs)))
	writeJSON(w, tariffs)
}
