package domain

// CampTypeAll is the FilterState.CampType value that disables the type clause.
const CampTypeAll CampType = "all"

// FilterState is the compound criteria the catalog filters camps by.
// Empty fields disable their clause; active clauses are AND-combined.
type FilterState struct {
	SearchQuery       string
	CampType          CampType // day, vacation, or CampTypeAll
	Boroughs          []string
	SelectedLanguages []string
}

// SortKey selects one of the catalog orderings.
type SortKey string

const (
	SortAlphabetical  SortKey = "alphabetical"
	SortCostLowToHigh SortKey = "costLowToHigh"
	SortCostHighToLow SortKey = "costHighToLow"
	SortBorough       SortKey = "borough"
)

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	switch k {
	case SortAlphabetical, SortCostLowToHigh, SortCostHighToLow, SortBorough:
		return true
	}
	return false
}
