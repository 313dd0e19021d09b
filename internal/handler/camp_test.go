package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/camp-directory/internal/batch"
	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/handler"
	"github.com/pkordes/camp-directory/internal/middleware"
	"github.com/pkordes/camp-directory/internal/service"
	"github.com/pkordes/camp-directory/testutil"
)

// mockCampServicer is a test double for handler.CampServicer.
// Set only the method fields your test needs.
type mockCampServicer struct {
	search    func(ctx context.Context, q service.SearchQuery) (service.SearchResult, error)
	facets    func(ctx context.Context) (service.Facets, error)
	get       func(ctx context.Context, name string) (domain.Camp, error)
	upsert    func(ctx context.Context, camp domain.Camp) (domain.Camp, error)
	delete    func(ctx context.Context, name string) error
	applyPlan func(ctx context.Context, plan batch.SavePlan) (service.SaveReport, error)
}

func (m *mockCampServicer) Search(ctx context.Context, q service.SearchQuery) (service.SearchResult, error) {
	return m.search(ctx, q)
}
func (m *mockCampServicer) Facets(ctx context.Context) (service.Facets, error) {
	return m.facets(ctx)
}
func (m *mockCampServicer) Get(ctx context.Context, name string) (domain.Camp, error) {
	return m.get(ctx, name)
}
func (m *mockCampServicer) Upsert(ctx context.Context, c domain.Camp) (domain.Camp, error) {
	return m.upsert(ctx, c)
}
func (m *mockCampServicer) Delete(ctx context.Context, name string) error {
	return m.delete(ctx, name)
}
func (m *mockCampServicer) ApplyPlan(ctx context.Context, plan batch.SavePlan) (service.SaveReport, error) {
	return m.applyPlan(ctx, plan)
}

// compile-time check: mockCampServicer must satisfy handler.CampServicer.
var _ handler.CampServicer = (*mockCampServicer)(nil)

// ---- helpers ---------------------------------------------------------------

const adminSecret = "s3cret"

type staticSecret string

func (s staticSecret) Validate(candidate string) bool {
	return s != "" && string(s) == candidate
}

// newHTTPHandler wires a Server with the given mock into the chi router.
// This mirrors how main.go wires it in production.
func newHTTPHandler(svc handler.CampServicer) http.Handler {
	return handler.NewServer(svc, nil, staticSecret(adminSecret), nil).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func adminRequest(method, target string, body *bytes.Buffer) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.AdminSecretHeader, adminSecret)
	return req
}

// campPayload is the JSON body a client sends for testutil.DayCamp.
func campPayload(name string) map[string]any {
	return map[string]any{
		"name":         name,
		"type":         "day",
		"borough":      "Verdun",
		"ageRange":     map[string]any{"allAges": false, "from": 5, "to": 12},
		"languages":    []string{"English", "French"},
		"dates":        map[string]any{"yearRound": false, "from": "2025-06-23", "to": "2025-08-15"},
		"hours":        "09:00 - 16:00",
		"cost":         map[string]any{"amount": 175, "period": "week"},
		"financialAid": "Sliding scale",
		"link":         "https://example.org/camps/" + name,
		"phone":        map[string]any{"number": "514-555-0100"},
		"notes":        "Outdoor activities",
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// ---- GET /camps ------------------------------------------------------------

func TestListCamps_200_DefaultsAndPagination(t *testing.T) {
	var got service.SearchQuery
	svc := &mockCampServicer{
		search: func(_ context.Context, q service.SearchQuery) (service.SearchResult, error) {
			got = q
			return service.SearchResult{
				Camps: []domain.Camp{testutil.DayCamp("Camp Soleil", "Plateau-Mont-Royal")},
				Total: 7,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/camps", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.CampTypeAll, got.Filter.CampType)
	assert.Equal(t, domain.SortAlphabetical, got.Sort)
	assert.Equal(t, domain.PaginationParams{Page: 1, Limit: 50}, got.Page)

	var resp handler.CampList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Camp Soleil", resp.Data[0].Name)
	assert.Equal(t, handler.Pagination{Page: 1, Limit: 50, Total: 7}, resp.Pagination)
}

func TestListCamps_ParsesFilters(t *testing.T) {
	var got service.SearchQuery
	svc := &mockCampServicer{
		search: func(_ context.Context, q service.SearchQuery) (service.SearchResult, error) {
			got = q
			return service.SearchResult{}, nil
		},
	}

	target := "/camps?q=soleil&type=day&borough=Verdun&borough=Plateau-Mont-Royal" +
		"&language=French,Arabic&sort=costHighToLow&page=2&limit=500"
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.FilterState{
		SearchQuery:       "soleil",
		CampType:          domain.CampTypeDay,
		Boroughs:          []string{"Verdun", "Plateau-Mont-Royal"},
		SelectedLanguages: []string{"French", "Arabic"},
	}, got.Filter)
	assert.Equal(t, domain.SortCostHighToLow, got.Sort)
	assert.Equal(t, domain.PaginationParams{Page: 2, Limit: 100}, got.Page)
}

func TestListCamps_422_BadQuery(t *testing.T) {
	for _, target := range []string{"/camps?type=overnight", "/camps?sort=price", "/camps?page=two"} {
		t.Run(target, func(t *testing.T) {
			svc := &mockCampServicer{}
			rec := httptest.NewRecorder()
			newHTTPHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, "validation_error", decodeError(t, rec).Error.Code)
		})
	}
}

func TestListCamps_500_ServiceError(t *testing.T) {
	svc := &mockCampServicer{
		search: func(context.Context, service.SearchQuery) (service.SearchResult, error) {
			return service.SearchResult{}, fmt.Errorf("db down")
		},
	}
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/camps", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

// ---- GET /camps/facets -----------------------------------------------------

func TestGetFacets_200(t *testing.T) {
	svc := &mockCampServicer{
		facets: func(context.Context) (service.Facets, error) {
			return service.Facets{Boroughs: []string{"Verdun"}, Languages: []string{"English", "French"}}, nil
		},
	}
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/camps/facets", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.FacetsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"Verdun"}, resp.Boroughs)
	assert.Equal(t, []string{"English", "French"}, resp.Languages)
}

// ---- GET /camps/{name} -----------------------------------------------------

func TestGetCamp_200_DecodesNameWithSpaces(t *testing.T) {
	fixture := testutil.DayCamp("Camp Soleil", "Plateau-Mont-Royal")
	fixture.Coordinates = &domain.Coordinates{Lat: 45.52, Lng: -73.58}
	var asked string
	svc := &mockCampServicer{
		get: func(_ context.Context, name string) (domain.Camp, error) {
			asked = name
			return fixture, nil
		},
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/camps/Camp%20Soleil", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Camp Soleil", asked)

	var resp handler.Camp
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Camp Soleil", resp.Name)
	assert.Equal(t, domain.CampTypeDay, resp.Type)
	require.NotNil(t, resp.AgeRange.From)
	assert.Equal(t, 5, *resp.AgeRange.From)
	require.NotNil(t, resp.Dates.From)
	assert.Equal(t, "2025-06-23", resp.Dates.From.Format(domain.DateLayout))
	require.NotNil(t, resp.Coordinates)
	assert.Equal(t, 45.52, resp.Coordinates.Lat)
}

func TestGetCamp_EncodesTaggedUnions(t *testing.T) {
	fixture := testutil.VacationCamp("Lac Vert")
	fixture.AgeRange = domain.AllAges()
	svc := &mockCampServicer{
		get: func(context.Context, string) (domain.Camp, error) { return fixture, nil },
	}

	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/camps/Lac%20Vert", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Equal(t, map[string]any{"allAges": true}, raw["ageRange"])
	assert.Equal(t, map[string]any{"yearRound": true}, raw["dates"])
	assert.NotContains(t, raw, "borough")
	assert.NotContains(t, raw, "coordinates")
}

func TestGetCamp_404(t *testing.T) {
	svc := &mockCampServicer{
		get: func(context.Context, string) (domain.Camp, error) {
			return domain.Camp{}, fmt.Errorf("service.CampService.Get: %w", domain.ErrNotFound)
		},
	}
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/camps/nobody", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error.Code)
}

// ---- PUT /camps/{name} -----------------------------------------------------

func TestPutCamp_200(t *testing.T) {
	var got domain.Camp
	svc := &mockCampServicer{
		upsert: func(_ context.Context, c domain.Camp) (domain.Camp, error) {
			got = c
			c.Coordinates = &domain.Coordinates{Lat: 45.46, Lng: -73.57}
			return c, nil
		},
	}

	payload := campPayload("Aventure")
	delete(payload, "name")
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, adminRequest(http.MethodPut, "/camps/Aventure", jsonBody(t, payload)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Aventure", got.Name, "the path names the record")
	assert.Equal(t, domain.AgesBetween(5, 12), got.AgeRange)
	assert.Equal(t, domain.Cost{Amount: 175, Period: domain.PeriodWeek}, got.Cost)
	assert.Equal(t, "2025-08-15", got.Dates.To.Format(domain.DateLayout))
	assert.NoError(t, got.Validate())

	var resp handler.Camp
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Coordinates)
	assert.Equal(t, 45.46, resp.Coordinates.Lat)
}

func TestPutCamp_401_WithoutSecret(t *testing.T) {
	svc := &mockCampServicer{}
	req := httptest.NewRequest(http.MethodPut, "/camps/Aventure", jsonBody(t, campPayload("Aventure")))
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Error.Code)
}

func TestPutCamp_422_NameMismatch(t *testing.T) {
	svc := &mockCampServicer{}
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, adminRequest(http.MethodPut, "/camps/Aventure", jsonBody(t, campPayload("Other"))))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPutCamp_422_MalformedBody(t *testing.T) {
	svc := &mockCampServicer{}
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, adminRequest(http.MethodPut, "/camps/Aventure", bytes.NewBufferString(`{"name":`)))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Error.Code)
}

func TestPutCamp_422_ValidationError(t *testing.T) {
	svc := &mockCampServicer{
		upsert: func(context.Context, domain.Camp) (domain.Camp, error) {
			return domain.Camp{}, fmt.Errorf("service.CampService.Upsert: %w: borough is required for day camps", domain.ErrValidation)
		},
	}
	payload := campPayload("Aventure")
	delete(payload, "borough")
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, adminRequest(http.MethodPut, "/camps/Aventure", jsonBody(t, payload)))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "borough is required for day camps", resp.Error.Message)
}

// ---- DELETE /camps/{name} --------------------------------------------------

func TestDeleteCamp_204(t *testing.T) {
	var deleted string
	svc := &mockCampServicer{
		delete: func(_ context.Context, name string) error {
			deleted = name
			return nil
		},
	}
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, adminRequest(http.MethodDelete, "/camps/Lac%20Vert", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Lac Vert", deleted)
}

func TestDeleteCamp_404(t *testing.T) {
	svc := &mockCampServicer{
		delete: func(context.Context, string) error { return domain.ErrNotFound },
	}
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, adminRequest(http.MethodDelete, "/camps/nobody", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCamp_401_WrongSecret(t *testing.T) {
	svc := &mockCampServicer{}
	req := httptest.NewRequest(http.MethodDelete, "/camps/A", nil)
	req.Header.Set(middleware.AdminSecretHeader, "guess")
	rec := httptest.NewRecorder()
	newHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
