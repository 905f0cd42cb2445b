package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/leina-lyt/inference-dashboard/internal/country"
	"github.com/leina-lyt/inference-dashboard/internal/metrics"
	"github.com/leina-lyt/inference-dashboard/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	res := s.build()
	writeJSON(w, http.StatusOK, metrics.Evaluate(res.snap, s.monitor))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.build().snap)
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	diags := s.build().diags
	if diags == nil {
		diags = []model.Diagnostic{}
	}
	writeJSON(w, http.StatusOK, diags)
}

// countryListing pairs a dataset key with its display name and summary.
type countryListing struct {
	metrics.CountrySummary
	DisplayName string `json:"display_name"`
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	snap := s.build().snap

	listings := make([]countryListing, 0, len(snap.Countries))
	for _, c := range snap.Countries {
		listings = append(listings, countryListing{
			CountrySummary: c,
			DisplayName:    country.DisplayName(c.Country),
		})
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) handleCountry(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "country"))

	ds, ok := s.build().datasets[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown country: " + name})
		return
	}

	// Sorting by timestamp is a rendering-time concern; the pipeline itself
	// preserves join order.
	rows := make([]model.Row, len(ds.Rows))
	copy(rows, ds.Rows)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Timestamp.Before(rows[j].Timestamp) })

	writeJSON(w, http.StatusOK, model.Dataset{Country: ds.Country, Rows: rows})
}

func (s *Server) handleCountryGeoJSON(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "country"))

	ds, ok := s.build().datasets[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown country: " + name})
		return
	}

	fc := &geojson.FeatureCollection{}
	for _, row := range ds.Rows {
		point := geom.NewPointFlat(geom.XY, []float64{row.Location.Lon, row.Location.Lat}).SetSRID(4326)
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: point,
			Properties: map[string]any{
				"image_id":               row.ImageID,
				"timestamp":              row.Timestamp.Format(time.RFC3339),
				"inference_time_seconds": row.InferenceTimeSeconds,
			},
		})
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		zap.L().Error("server: marshal geojson", zap.String("country", name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "geojson encoding failed"})
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
