package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/maphoenix/solarroi/pkg/log"
	"github.com/maphoenix/solarroi/pkg/storage"
	"github.com/maphoenix/solarroi/pkg/types"
)

// handleSaveReport runs a calculation and persists the request/response pair
// so it can be shared by ID later.
func (s *Server) handleSaveReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, resp, ok := s.calculate(w, r)
	if !ok {
		return
	}

	report := types.Report{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Request:   req,
		Response:  resp,
	}
	if err := s.storage.SaveReport(ctx, report); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to save report", slog.Any("error", err))
		writeJSONError(w, "failed to save report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, report)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if id == "" {
		writeJSONError(w, "report id required", http.StatusBadRequest)
		return
	}

	report, err := s.storage.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrReportNotFound) {
			writeJSONError(w, "report not found", http.StatusNotFound)
			return
		}
		log.Ctx(ctx).ErrorContext(ctx, "failed to get report", slog.String("reportID", id), slog.Any("error", err))
		writeJSONError(w, "failed to get report", http.StatusInternalServerError)
		return
	}

	// saved reports are immutable so they can be cached
	w.Header().Set("Cache-Control", "public, max-age=86400")
	writeJSON(w, report)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSONError(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = n
	}

	reports, err := s.storage.ListRecentReports(ctx, limit)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list reports", slog.Any("error", err))
		writeJSONError(w, "failed to list reports", http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []types.Report{}
	}
	writeJSON(w, reports)
}
