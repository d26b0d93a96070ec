package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shfb-analytics/access-dashboard/internal/model"
	"github.com/shfb-analytics/access-dashboard/internal/pipeline"
	"github.com/shfb-analytics/access-dashboard/internal/render"
)

// noDataMessage matches the notice the original dashboard shows.
const noDataMessage = "No data available for this combination."

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFilters(w http.ResponseWriter, _ *http.Request) {
	dims := s.pipe.Dimensions()
	writeJSON(w, http.StatusOK, map[string]any{
		"urban":     dims.Urban,
		"rural":     dims.Rural,
		"weeks":     dims.Weeks,
		"days":      dims.Days,
		"hour_min":  0,
		"hour_max":  23,
		"colormaps": render.Names(),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	params, ok := s.filterParams(w, r)
	if !ok {
		return
	}
	result, ok := s.run(w, params)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"title":     result.Title,
		"summary":   result.Summary,
		"top":       result.Top,
		"bottom":    result.Bottom,
		"agencies":  agencyPayload(result.Agencies),
		"scale_min": result.Layer.ScaleMin,
		"scale_max": result.Layer.ScaleMax,
	})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	params, ok := s.filterParams(w, r)
	if !ok {
		return
	}
	result, ok := s.run(w, params)
	if !ok {
		return
	}

	cmap, err := render.ByName(params.Colormap)
	if err != nil {
		badRequest(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"title":     result.Title,
		"colormap":  cmap.Name(),
		"scale_min": result.Layer.ScaleMin,
		"scale_max": result.Layer.ScaleMax,
		"layer":     render.GeoJSONLayer(result.Layer, cmap),
	})
}

func (s *Server) handleMapSVG(w http.ResponseWriter, r *http.Request) {
	params, ok := s.filterParams(w, r)
	if !ok {
		return
	}
	result, ok := s.run(w, params)
	if !ok {
		return
	}

	cmap, err := render.ByName(params.Colormap)
	if err != nil {
		badRequest(w, err)
		return
	}

	svg := render.SVGLayer(result.Layer, cmap, render.SVGOptions{Title: result.Title})
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) handleTractAgencies(w http.ResponseWriter, r *http.Request) {
	params, ok := s.filterParams(w, r)
	if !ok {
		return
	}
	geoid := chi.URLParam(r, "geoid")

	breakdown, err := s.pipe.TractBreakdown(params, geoid)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoData) {
			writeJSON(w, http.StatusOK, map[string]any{
				"no_data": true,
				"message": noDataMessage,
			})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "tract not found in filtered view",
		})
		return
	}

	writeJSON(w, http.StatusOK, tractAgenciesBody(*breakdown))
}

// run executes the pipeline and writes the no-data notice itself; the bool
// reports whether the caller still has work to do.
func (s *Server) run(w http.ResponseWriter, params model.FilterParams) (*pipeline.Result, bool) {
	result, err := s.pipe.Run(params)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoData) {
			writeJSON(w, http.StatusOK, map[string]any{
				"no_data": true,
				"message": noDataMessage,
			})
			return nil, false
		}
		zap.L().Error("server: pipeline run failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return nil, false
	}
	return result, true
}

// filterParams parses and validates the query string into filter params.
func (s *Server) filterParams(w http.ResponseWriter, r *http.Request) (model.FilterParams, bool) {
	q := r.URL.Query()

	params := model.FilterParams{
		Day:      q.Get("day"),
		Hour:     model.DefaultHour,
		Colormap: q.Get("cmap"),
	}

	var err error
	if params.Urban, err = intParam(q.Get("urban"), 0); err != nil {
		badRequest(w, err)
		return params, false
	}
	if params.Rural, err = intParam(q.Get("rural"), 0); err != nil {
		badRequest(w, err)
		return params, false
	}
	if params.Week, err = intParam(q.Get("week"), 0); err != nil {
		badRequest(w, err)
		return params, false
	}
	if params.Hour, err = intParam(q.Get("hour"), model.DefaultHour); err != nil {
		badRequest(w, err)
		return params, false
	}
	params.AfterHours = q.Get("after_hours") == "true" || q.Get("after_hours") == "1"

	if err := params.Validate(); err != nil {
		badRequest(w, err)
		return params, false
	}
	return params, true
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// agencyPayload renders breakdown tables, making empty ones explicit.
func agencyPayload(breakdowns []pipeline.TractAgencies) []map[string]any {
	out := make([]map[string]any, 0, len(breakdowns))
	for _, b := range breakdowns {
		out = append(out, tractAgenciesBody(b))
	}
	return out
}

func tractAgenciesBody(b pipeline.TractAgencies) map[string]any {
	body := map[string]any{
		"geoid":  b.GEOID,
		"county": b.County,
	}
	if len(b.Rows) == 0 {
		body["no_data"] = true
		body["message"] = "No agency data available for this GEOID."
	} else {
		body["rows"] = b.Rows
	}
	return body
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}
