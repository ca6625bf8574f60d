package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/maphoenix/solarroi/pkg/log"
	"github.com/maphoenix/solarroi/pkg/types"
)

// runCalculation executes the full pipeline for a request against the current
// tariff catalog and writes any error response. Shared by the calculate,
// timeseries, and report handlers.
func (s *Server) runCalculation(w http.ResponseWriter, r *http.Request, req types.CalculationRequest) (types.CalculationResponse, bool) {
	ctx := r.Context()

	tariffs, err := s.tariffs.Tariffs(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to load tariffs", slog.Any("error", err))
		writeJSONError(w, "failed to load tariffs", http.StatusInternalServerError)
		return types.CalculationResponse{}, false
	}

	resp, err := s.engine.Calculate(ctx, req, tariffs)
	if err != nil {
		if errors.Is(err, types.ErrInvalidInput) {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
		} else {
			log.Ctx(ctx).ErrorContext(ctx, "calculation failed", slog.Any("error", err))
			writeJSONError(w, "calculation failed", http.StatusInternalServerError)
		}
		return types.CalculationResponse{}, false
	}
	return resp, true
}

// calculate decodes a request body and runs the pipeline. Shared by the
// calculate and report handlers.
func (s *Server) calculate(w http.ResponseWriter, r *http.Request) (types.CalculationRequest, types.CalculationResponse, bool) {
	// fields omitted from the body keep the documented defaults
	req := types.DefaultCalculationRequest()
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return req, types.CalculationResponse{}, false
	}

	resp, ok := s.runCalculation(w, r, req)
	return req, resp, ok
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	_, resp, ok := s.calculate(w, r)
	if !ok {
		return
	}
	writeJSON(w, resp)
}

// handleTimeseries is the quick GET variant of calculate: sizing comes from
// query parameters and anything omitted keeps the documented defaults, so a
// bare GET returns the default-system calculation.
func (s *Server) handleTimeseries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := types.DefaultCalculationRequest()
	for name, dst := range map[string]*float64{
		"batterySize": &req.BatterySizeKWH,
		"usage":       &req.AnnualUsageKWH,
		"solarSize":   &req.SolarSizeKW,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSONError(w, "invalid "+name+" parameter", http.StatusBadRequest)
			return
		}
		*dst = f
	}
	if v := q.Get("haveOrWillGetEv"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSONError(w, "invalid haveOrWillGetEv parameter", http.StatusBadRequest)
			return
		}
		req.HaveOrWillGetEV = b
	}

	resp, ok := s.runCalculation(w, r, req)
	if !ok {
		return
	}
	writeJSON(w, resp)
}
