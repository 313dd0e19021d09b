package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/service"
)

// ListCamps handles GET /camps.
// Supports ?q=, ?type=day|vacation|all, repeated ?borough= and ?language=,
// ?sort= and ?page= / ?limit= (defaults: page=1, limit=50, max=100).
func (s *Server) ListCamps(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, r, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	res, err := s.camps.Search(r.Context(), q)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, CampList{
		Data: campsToResponse(res.Camps),
		Pagination: Pagination{
			Page:  q.Page.Page,
			Limit: q.Page.Limit,
			Total: res.Total,
		},
	})
}

// GetFacets handles GET /camps/facets.
func (s *Server) GetFacets(w http.ResponseWriter, r *http.Request) {
	f, err := s.camps.Facets(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, FacetsResponse{Boroughs: f.Boroughs, Languages: f.Languages})
}

// GetCamp handles GET /camps/{name}.
func (s *Server) GetCamp(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r)
	if !ok {
		return
	}

	c, err := s.camps.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, r, http.StatusNotFound, notFoundBody("camp not found"))
			return
		}
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, campToResponse(c))
}

// PutCamp handles PUT /camps/{name}. The camp is stored under the name in
// the path; a body name, when present, must agree with it.
func (s *Server) PutCamp(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r)
	if !ok {
		return
	}
	var body Camp
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Name != "" && body.Name != name {
		writeJSON(w, r, http.StatusUnprocessableEntity, requestBody("body name does not match path"))
		return
	}
	body.Name = name

	saved, err := s.camps.Upsert(r.Context(), requestToCamp(body))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeJSON(w, r, http.StatusUnprocessableEntity, validationBody(err))
			return
		}
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, campToResponse(saved))
}

// DeleteCamp handles DELETE /camps/{name}.
func (s *Server) DeleteCamp(w http.ResponseWriter, r *http.Request) {
	name, ok := nameParam(w, r)
	if !ok {
		return
	}

	if err := s.camps.Delete(r.Context(), name); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, r, http.StatusNotFound, notFoundBody("camp not found"))
			return
		}
		writeInternal(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- query helpers ----------------------------------------------------------

// nameParam returns the unescaped {name} path segment. chi routes on the raw
// path when one is set (a name containing "/"), leaving the segment encoded.
func nameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	var err error
	if r.URL.RawPath != "" {
		name, err = url.PathUnescape(name)
	}
	if err != nil || strings.TrimSpace(name) == "" {
		writeJSON(w, r, http.StatusUnprocessableEntity, requestBody("invalid camp name"))
		return "", false
	}
	return name, true
}

func parseSearchQuery(v url.Values) (service.SearchQuery, error) {
	q := service.SearchQuery{
		Filter: domain.FilterState{
			SearchQuery:       v.Get("q"),
			CampType:          domain.CampTypeAll,
			Boroughs:          multiValue(v, "borough"),
			SelectedLanguages: multiValue(v, "language"),
		},
		Sort: domain.SortAlphabetical,
	}

	if t := v.Get("type"); t != "" {
		ct := domain.CampType(t)
		if ct != domain.CampTypeAll && !ct.Valid() {
			return q, fmt.Errorf("unknown camp type %q", t)
		}
		q.Filter.CampType = ct
	}
	if sk := v.Get("sort"); sk != "" {
		key := domain.SortKey(sk)
		if !key.Valid() {
			return q, fmt.Errorf("unknown sort key %q", sk)
		}
		q.Sort = key
	}

	page, err := optionalInt(v, "page")
	if err != nil {
		return q, err
	}
	limit, err := optionalInt(v, "limit")
	if err != nil {
		return q, err
	}
	q.Page = domain.NewPaginationParams(page, limit)
	return q, nil
}

// multiValue accepts both repeated parameters and comma-separated lists.
func multiValue(v url.Values, key string) []string {
	var out []string
	for _, raw := range v[key] {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func optionalInt(v url.Values, key string) (*int, error) {
	raw := v.Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}
