// Package catalog derives the displayed view of the directory: it filters
// camps against a domain.FilterState and orders them by a domain.SortKey.
// All functions are pure and never modify their input slice.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pkordes/camp-directory/internal/codec"
	"github.com/pkordes/camp-directory/internal/domain"
)

// predicate is one AND-combined clause of the filter.
type predicate func(domain.Camp) bool

// Filter returns the camps that satisfy every active clause of criteria,
// in their original order.
//
// A non-empty Boroughs list excludes every vacation camp, since vacation
// camps never carry a borough.
func Filter(camps []domain.Camp, criteria domain.FilterState) []domain.Camp {
	clauses := clausesFor(criteria)
	out := make([]domain.Camp, 0, len(camps))
	for _, c := range camps {
		if matchesAll(c, clauses) {
			out = append(out, c)
		}
	}
	return out
}

// Matches reports whether a single camp passes criteria.
func Matches(c domain.Camp, criteria domain.FilterState) bool {
	return matchesAll(c, clausesFor(criteria))
}

func matchesAll(c domain.Camp, clauses []predicate) bool {
	for _, p := range clauses {
		if !p(c) {
			return false
		}
	}
	return true
}

func clausesFor(criteria domain.FilterState) []predicate {
	var clauses []predicate
	if criteria.CampType != "" && criteria.CampType != domain.CampTypeAll {
		want := criteria.CampType
		clauses = append(clauses, func(c domain.Camp) bool { return c.Type == want })
	}
	if criteria.SearchQuery != "" {
		query := strings.ToLower(criteria.SearchQuery)
		clauses = append(clauses, func(c domain.Camp) bool {
			return strings.Contains(haystack(c), query)
		})
	}
	if len(criteria.Boroughs) > 0 {
		boroughs := criteria.Boroughs
		clauses = append(clauses, func(c domain.Camp) bool {
			return c.Borough != "" && slices.Contains(boroughs, c.Borough)
		})
	}
	if len(criteria.SelectedLanguages) > 0 {
		wanted := lowerAll(criteria.SelectedLanguages)
		clauses = append(clauses, func(c domain.Camp) bool {
			return speaksAny(c.Languages, wanted)
		})
	}
	return clauses
}

// haystack is the lowercase text the free-text search runs against.
func haystack(c domain.Camp) string {
	age := "all ages"
	if !c.AgeRange.AllAges {
		age = codec.FormatAgeRange(c.AgeRange)
	}
	parts := make([]string, 0, 4+len(c.Languages))
	parts = append(parts, c.Name, c.Borough, c.Notes, age)
	parts = append(parts, c.Languages...)
	return strings.ToLower(strings.Join(parts, " "))
}

// speaksAny reports whether any wanted language is a substring of any of
// the camp's languages; "spanish" matches "Spanish (basic)".
func speaksAny(langs, wanted []string) bool {
	for _, w := range wanted {
		for _, l := range langs {
			if strings.Contains(strings.ToLower(l), w) {
				return true
			}
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// Sort returns a stably sorted copy of camps. Unknown keys return the copy
// in input order.
//
// Cost orderings compare raw amounts and ignore the period, so 100/week and
// 100/month tie. The borough ordering puts camps without a borough last.
func Sort(camps []domain.Camp, key domain.SortKey) []domain.Camp {
	sorted := slices.Clone(camps)
	if sorted == nil {
		sorted = []domain.Camp{}
	}
	switch key {
	case domain.SortAlphabetical:
		slices.SortStableFunc(sorted, func(a, b domain.Camp) int {
			return strings.Compare(a.Name, b.Name)
		})
	case domain.SortCostLowToHigh:
		slices.SortStableFunc(sorted, func(a, b domain.Camp) int {
			return cmp.Compare(a.Cost.Amount, b.Cost.Amount)
		})
	case domain.SortCostHighToLow:
		slices.SortStableFunc(sorted, func(a, b domain.Camp) int {
			return cmp.Compare(b.Cost.Amount, a.Cost.Amount)
		})
	case domain.SortBorough:
		slices.SortStableFunc(sorted, compareBorough)
	}
	return sorted
}

func compareBorough(a, b domain.Camp) int {
	switch {
	case a.Borough == "" && b.Borough == "":
		return 0
	case a.Borough == "":
		return 1
	case b.Borough == "":
		return -1
	}
	return strings.Compare(a.Borough, b.Borough)
}

// Apply filters camps and sorts the result. An empty key keeps store order.
func Apply(camps []domain.Camp, criteria domain.FilterState, key domain.SortKey) []domain.Camp {
	return Sort(Filter(camps, criteria), key)
}

// Paginate returns the page of camps selected by p.
func Paginate(camps []domain.Camp, p domain.PaginationParams) []domain.Camp {
	start, end := p.Window(len(camps))
	return camps[start:end]
}

// UniqueBoroughs returns the distinct non-empty boroughs, sorted.
// Vacation camps contribute nothing.
func UniqueBoroughs(camps []domain.Camp) []string {
	seen := make(map[string]struct{})
	for _, c := range camps {
		if c.Borough != "" {
			seen[c.Borough] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// UniqueLanguages returns the distinct languages across all camps, sorted.
func UniqueLanguages(camps []domain.Camp) []string {
	seen := make(map[string]struct{})
	for _, c := range camps {
		for _, l := range c.Languages {
			seen[l] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
