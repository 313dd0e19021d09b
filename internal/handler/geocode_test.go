package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/geocode"
	"github.com/pkordes/camp-directory/internal/handler"
)

type mockGeocoder struct {
	geocode func(ctx context.Context, address string) (*domain.Coordinates, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	return m.geocode(ctx, address)
}

var _ geocode.Geocoder = (*mockGeocoder)(nil)

func newGeocodeHTTPHandler(g geocode.Geocoder) http.Handler {
	return handler.NewServer(nil, nil, nil, g).Routes()
}

func TestGetGeocode_200(t *testing.T) {
	var asked string
	g := &mockGeocoder{geocode: func(_ context.Context, address string) (*domain.Coordinates, error) {
		asked = address
		return &domain.Coordinates{Lat: 45.52, Lng: -73.58}, nil
	}}

	req := httptest.NewRequest(http.MethodGet, "/geocode?address=4200+Rue+Saint-Denis", nil)
	rec := httptest.NewRecorder()
	newGeocodeHTTPHandler(g).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4200 Rue Saint-Denis", asked)

	var got domain.Coordinates
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, domain.Coordinates{Lat: 45.52, Lng: -73.58}, got)
}

func TestGetGeocode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		geocoder geocode.Geocoder
		want     int
		code     string
	}{
		{
			name:   "missing address",
			target: "/geocode?address=%20",
			want:   http.StatusBadRequest,
			code:   "validation_error",
		},
		{
			name:   "not found",
			target: "/geocode?address=nowhere",
			geocoder: &mockGeocoder{geocode: func(context.Context, string) (*domain.Coordinates, error) {
				return nil, nil
			}},
			want: http.StatusNotFound,
			code: "not_found",
		},
		{
			name:   "upstream failure",
			target: "/geocode?address=somewhere",
			geocoder: &mockGeocoder{geocode: func(context.Context, string) (*domain.Coordinates, error) {
				return nil, errors.New("timeout")
			}},
			want: http.StatusBadGateway,
			code: "geocode_failed",
		},
		{
			name:   "no api key",
			target: "/geocode?address=somewhere",
			geocoder: &mockGeocoder{geocode: func(context.Context, string) (*domain.Coordinates, error) {
				return nil, geocode.ErrNotConfigured
			}},
			want: http.StatusServiceUnavailable,
			code: "not_configured",
		},
		{
			name:   "no geocoder",
			target: "/geocode?address=somewhere",
			want:   http.StatusServiceUnavailable,
			code:   "not_configured",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newGeocodeHTTPHandler(tt.geocoder).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, tt.want, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Error.Code)
		})
	}
}
