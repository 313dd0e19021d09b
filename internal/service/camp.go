// Package service contains the business logic for the camp directory API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkordes/camp-directory/internal/batch"
	"github.com/pkordes/camp-directory/internal/catalog"
	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/geocode"
	"github.com/pkordes/camp-directory/internal/repo"
)

// CampService implements business logic for Camp operations.
type CampService struct {
	camps    repo.CampRepo
	geocoder geocode.Geocoder
	bulk     geocode.Geocoder
}

// NewCampService constructs a CampService backed by the provided CampRepo.
// geocoder serves single saves; bulk serves ApplyPlan and should serialize
// its lookups (see geocode.NewSerial). Either may be nil, in which case
// camps are saved without coordinates.
func NewCampService(camps repo.CampRepo, geocoder, bulk geocode.Geocoder) *CampService {
	return &CampService{camps: camps, geocoder: geocoder, bulk: bulk}
}

// SearchQuery is a filtered, sorted, paged view request.
type SearchQuery struct {
	Filter domain.FilterState
	Sort   domain.SortKey
	Page   domain.PaginationParams
}

// SearchResult is one page of a filtered view plus the size of the whole view.
type SearchResult struct {
	Camps []domain.Camp
	Total int
}

// Facets are the values the directory offers as filter choices.
type Facets struct {
	Boroughs  []string
	Languages []string
}

// SaveReport summarizes an applied save plan.
type SaveReport struct {
	Upserted int
	Deleted  int
	// AlreadyGone lists deletions whose camp no longer existed in the store.
	AlreadyGone []string
}

// List returns every camp ordered by name.
func (s *CampService) List(ctx context.Context) ([]domain.Camp, error) {
	camps, err := s.camps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CampService.List: %w", err)
	}
	return camps, nil
}

// Get returns the camp stored under name.
func (s *CampService) Get(ctx context.Context, name string) (domain.Camp, error) {
	c, err := s.camps.Get(ctx, name)
	if err != nil {
		return domain.Camp{}, fmt.Errorf("service.CampService.Get: %w", err)
	}
	return c, nil
}

// Search loads the collection and derives the requested view from it.
func (s *CampService) Search(ctx context.Context, q SearchQuery) (SearchResult, error) {
	camps, err := s.camps.List(ctx)
	if err != nil {
		return SearchResult{}, fmt.Errorf("service.CampService.Search: %w", err)
	}
	view := catalog.Apply(camps, q.Filter, q.Sort)
	return SearchResult{Camps: catalog.Paginate(view, q.Page), Total: len(view)}, nil
}

// Facets returns the distinct boroughs and languages across all camps.
func (s *CampService) Facets(ctx context.Context) (Facets, error) {
	camps, err := s.camps.List(ctx)
	if err != nil {
		return Facets{}, fmt.Errorf("service.CampService.Facets: %w", err)
	}
	return Facets{
		Boroughs:  catalog.UniqueBoroughs(camps),
		Languages: catalog.UniqueLanguages(camps),
	}, nil
}

// Upsert validates camp, resolves its coordinates against the stored version
// and writes it under camp.Name. A geocoding failure never fails the save.
func (s *CampService) Upsert(ctx context.Context, camp domain.Camp) (domain.Camp, error) {
	if err := camp.Validate(); err != nil {
		return domain.Camp{}, fmt.Errorf("service.CampService.Upsert: %w", err)
	}

	prev, err := s.previous(ctx, camp.Name)
	if err != nil {
		return domain.Camp{}, fmt.Errorf("service.CampService.Upsert: %w", err)
	}
	camp = geocode.Resolve(ctx, s.geocoder, prev == nil, prev, camp)

	saved, err := s.camps.Upsert(ctx, camp)
	if err != nil {
		return domain.Camp{}, fmt.Errorf("service.CampService.Upsert: %w", err)
	}
	return saved, nil
}

// Delete removes the camp stored under name.
func (s *CampService) Delete(ctx context.Context, name string) error {
	if err := s.camps.Delete(ctx, name); err != nil {
		return fmt.Errorf("service.CampService.Delete: %w", err)
	}
	return nil
}

// ApplyPlan writes a save plan to the store: every upsert, in order, then
// every deletion. All upserts are validated before anything is written.
//
// Writes are not atomic. On error the report counts what was applied and
// the caller should reload the collection before editing further.
// Deleting a camp that is already gone is not an error.
func (s *CampService) ApplyPlan(ctx context.Context, plan batch.SavePlan) (SaveReport, error) {
	var report SaveReport

	for _, c := range plan.Upserts {
		if err := c.Validate(); err != nil {
			return report, fmt.Errorf("service.CampService.ApplyPlan: camp %q: %w", c.Name, err)
		}
	}

	renamedFrom := make(map[string]string, len(plan.Renames))
	for _, r := range plan.Renames {
		renamedFrom[r.To] = r.From
	}

	// Stored versions are read before any write so that swapped names still
	// compare against the right record.
	prevs := make([]*domain.Camp, len(plan.Upserts))
	for i, c := range plan.Upserts {
		key := c.Name
		if from, ok := renamedFrom[c.Name]; ok {
			// A renamed camp keeps the coordinates stored under its old key.
			key = from
		}
		prev, err := s.previous(ctx, key)
		if err != nil {
			return report, fmt.Errorf("service.CampService.ApplyPlan: %w", err)
		}
		prevs[i] = prev
	}

	for i, c := range plan.Upserts {
		c = geocode.Resolve(ctx, s.bulk, prevs[i] == nil, prevs[i], c)

		if _, err := s.camps.Upsert(ctx, c); err != nil {
			return report, fmt.Errorf("service.CampService.ApplyPlan: upsert %q: %w", c.Name, err)
		}
		report.Upserted++
	}

	for _, name := range plan.Deletions {
		err := s.camps.Delete(ctx, name)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			report.AlreadyGone = append(report.AlreadyGone, name)
		case err != nil:
			return report, fmt.Errorf("service.CampService.ApplyPlan: delete %q: %w", name, err)
		default:
			report.Deleted++
		}
	}

	slog.InfoContext(ctx, "save plan applied",
		"upserted", report.Upserted,
		"deleted", report.Deleted,
		"already_gone", len(report.AlreadyGone),
		"renames", len(plan.Renames))
	return report, nil
}

// GeocodeMissing looks up coordinates for every camp with an address but
// none stored, one request at a time, and saves the ones that resolve.
// It returns the number of camps updated and the per-camp outcomes.
func (s *CampService) GeocodeMissing(ctx context.Context) (int, []geocode.Result, error) {
	if s.bulk == nil {
		return 0, nil, fmt.Errorf("service.CampService.GeocodeMissing: %w", geocode.ErrNotConfigured)
	}
	camps, err := s.camps.List(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("service.CampService.GeocodeMissing: %w", err)
	}

	byName := make(map[string]domain.Camp, len(camps))
	for _, c := range camps {
		byName[c.Name] = c
	}

	results := geocode.Missing(ctx, s.bulk, camps)
	updated := 0
	for _, r := range results {
		if r.Err != nil || r.Coordinates == nil {
			continue
		}
		c := byName[r.Name]
		c.Coordinates = r.Coordinates
		if _, err := s.camps.Upsert(ctx, c); err != nil {
			return updated, results, fmt.Errorf("service.CampService.GeocodeMissing: upsert %q: %w", c.Name, err)
		}
		updated++
	}
	return updated, results, nil
}

// previous returns the stored camp under name, or nil if there is none.
func (s *CampService) previous(ctx context.Context, name string) (*domain.Camp, error) {
	c, err := s.camps.Get(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
