package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/camp-directory/internal/geocode"
)

// GetGeocode handles GET /geocode?address=.
// It resolves a single address so editors can preview a pin before saving.
func (s *Server) GetGeocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeJSON(w, r, http.StatusBadRequest, requestBody("address is required"))
		return
	}
	if s.geocoder == nil {
		writeJSON(w, r, http.StatusServiceUnavailable, notConfiguredBody())
		return
	}

	coords, err := s.geocoder.Geocode(r.Context(), address)
	switch {
	case errors.Is(err, geocode.ErrNotConfigured):
		writeJSON(w, r, http.StatusServiceUnavailable, notConfiguredBody())
	case err != nil:
		writeJSON(w, r, http.StatusBadGateway,
			ErrorResponse{Error: ErrorDetail{Code: "geocode_failed", Message: "geocoding service unavailable"}})
	case coords == nil:
		writeJSON(w, r, http.StatusNotFound, notFoundBody("address not found"))
	default:
		writeJSON(w, r, http.StatusOK, coords)
	}
}

func notConfiguredBody() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: "not_configured", Message: "geocoding is not configured"}}
}
