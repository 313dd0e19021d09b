// Package handler implements the HTTP handlers for the camp directory API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, camp.go, batch.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/camp-directory/internal/batch"
	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/geocode"
	"github.com/pkordes/camp-directory/internal/middleware"
	"github.com/pkordes/camp-directory/internal/service"
	"github.com/pkordes/camp-directory/spec"
)

// CampServicer defines the business operations the camp handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type CampServicer interface {
	Search(ctx context.Context, q service.SearchQuery) (service.SearchResult, error)
	Facets(ctx context.Context) (service.Facets, error)
	Get(ctx context.Context, name string) (domain.Camp, error)
	Upsert(ctx context.Context, camp domain.Camp) (domain.Camp, error)
	Delete(ctx context.Context, name string) error
	ApplyPlan(ctx context.Context, plan batch.SavePlan) (service.SaveReport, error)
}

// ExportServicer defines the operations the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the dependencies shared by every handler.
// Any dependency may be nil in tests that do not reach its routes.
type Server struct {
	camps    CampServicer
	export   ExportServicer
	auth     middleware.SecretValidator
	geocoder geocode.Geocoder
}

// NewServer constructs the Server with all its dependencies.
func NewServer(camps CampServicer, export ExportServicer, auth middleware.SecretValidator, geocoder geocode.Geocoder) *Server {
	return &Server{camps: camps, export: export, auth: auth, geocoder: geocoder}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes registers every API route on a fresh chi router. Mutating camp
// routes sit behind the admin secret guard.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)
	r.Get("/export", s.GetExport)
	r.Get("/geocode", s.GetGeocode)
	r.Post("/auth/validate", s.ValidateSecret)

	r.Route("/camps", func(r chi.Router) {
		r.Get("/", s.ListCamps)
		r.Get("/facets", s.GetFacets)
		r.Get("/{name}", s.GetCamp)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdminSecret(s.auth))
			r.Post("/batch", s.SaveBatch)
			r.Put("/{name}", s.PutCamp)
			r.Delete("/{name}", s.DeleteCamp)
		})
	})
	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
