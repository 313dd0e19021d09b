// Package batch tracks a session of spreadsheet-style edits to the camp
// collection and turns it into the minimal set of store writes.
//
// Each working-copy row carries a stable surrogate ID. The camp name, which
// is the record store's primary key, is just another mutable field; the
// session remembers the name each row was loaded under (its original name)
// so that a rename can be saved as "write the new key, drop the old one".
//
// A Session is not safe for concurrent use.
package batch

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/camp-directory/internal/domain"
)

// row is one working-copy entry. original is the snapshot key the row was
// loaded under, or "" for rows added during this session.
type row struct {
	id       uuid.UUID
	camp     domain.Camp
	original string
	deleted  bool
}

func (r *row) isNew() bool { return r.original == "" }

// Row is a read-only view of a working-copy entry.
type Row struct {
	ID           uuid.UUID
	Camp         domain.Camp
	OriginalName string // "" for rows added in this session
	New          bool
	Dirty        bool
	Deleted      bool
}

// Session holds the working copy and the snapshot it is diffed against.
type Session struct {
	rows     []*row
	snapshot map[string]domain.Camp
	added    int
}

// NewSession starts a session over camps, the last-known persisted state.
func NewSession(camps []domain.Camp) *Session {
	s := &Session{}
	s.Reset(camps)
	return s
}

// Reset discards all tracking state and re-seeds the session from camps.
// Call it after a save, successful or not, with a fresh copy from the store.
func (s *Session) Reset(camps []domain.Camp) {
	s.rows = make([]*row, 0, len(camps))
	s.snapshot = make(map[string]domain.Camp, len(camps))
	s.added = 0
	for _, c := range camps {
		s.snapshot[c.Name] = c.Clone()
		s.rows = append(s.rows, &row{id: uuid.New(), camp: c.Clone(), original: c.Name})
	}
}

// Len returns the number of rows in the working copy, including rows
// marked for deletion.
func (s *Session) Len() int { return len(s.rows) }

// Rows returns the working copy in insertion order.
func (s *Session) Rows() []Row {
	out := make([]Row, len(s.rows))
	for i, r := range s.rows {
		out[i] = s.view(r)
	}
	return out
}

// Row returns the working-copy entry currently named name.
func (s *Session) Row(name string) (Row, bool) {
	r := s.find(name)
	if r == nil {
		return Row{}, false
	}
	return s.view(r), true
}

// Camps returns the working copy's camps, excluding rows marked for deletion.
func (s *Session) Camps() []domain.Camp {
	out := make([]domain.Camp, 0, len(s.rows))
	for _, r := range s.rows {
		if !r.deleted {
			out = append(out, r.camp.Clone())
		}
	}
	return out
}

func (s *Session) view(r *row) Row {
	return Row{
		ID:           r.id,
		Camp:         r.camp.Clone(),
		OriginalName: r.original,
		New:          r.isNew(),
		Dirty:        s.dirty(r),
		Deleted:      r.deleted,
	}
}

func (s *Session) find(name string) *row {
	for _, r := range s.rows {
		if r.camp.Name == name {
			return r
		}
	}
	return nil
}

// dirty reports whether r must be written on save. Rows added in this
// session are always dirty; loaded rows are dirty while they differ from
// their snapshot, name included.
func (s *Session) dirty(r *row) bool {
	if r.isNew() {
		return true
	}
	orig, ok := s.snapshot[r.original]
	return !ok || !r.camp.Equal(orig)
}

// UpdateCamp applies mutate to the row currently named name and reports
// whether such a row exists. The name cannot be changed this way; use
// RenameCamp, which enforces uniqueness.
func (s *Session) UpdateCamp(name string, mutate func(*domain.Camp)) bool {
	r := s.find(name)
	if r == nil {
		return false
	}
	updated := r.camp.Clone()
	mutate(&updated)
	updated.Name = r.camp.Name
	r.camp = updated
	return true
}

// RenameCamp changes a row's name from oldName to newName (trimmed).
// It is a no-op returning false when no row is named oldName, when newName
// is empty or unchanged, or when another row already uses newName
// (case-sensitive exact match, rows marked for deletion included).
func (s *Session) RenameCamp(oldName, newName string) bool {
	newName = strings.TrimSpace(newName)
	if newName == "" || newName == oldName {
		return false
	}
	r := s.find(oldName)
	if r == nil || s.find(newName) != nil {
		return false
	}
	r.camp.Name = newName
	return true
}

// AddRow appends a camp of the given type with default values and a unique
// provisional name, which it returns.
func (s *Session) AddRow(t domain.CampType) string {
	c := Defaults(t)
	for {
		s.added++
		c.Name = fmt.Sprintf("New %s camp %d", t, s.added)
		if s.find(c.Name) == nil {
			break
		}
	}
	s.rows = append(s.rows, &row{id: uuid.New(), camp: c})
	return c.Name
}

// ToggleDelete flips the delete mark on the row named name and reports
// whether such a row exists.
//
// Rows added in this session are never sent to the store as deletions:
// deleting one removes it from the working copy outright, undoing the add.
func (s *Session) ToggleDelete(name string) bool {
	idx := slices.IndexFunc(s.rows, func(r *row) bool { return r.camp.Name == name })
	if idx < 0 {
		return false
	}
	r := s.rows[idx]
	if r.isNew() {
		s.rows = slices.Delete(s.rows, idx, idx+1)
		return true
	}
	r.deleted = !r.deleted
	return true
}

// IsDirty reports whether the row named name would be upserted on save.
func (s *Session) IsDirty(name string) bool {
	r := s.find(name)
	return r != nil && !r.deleted && s.dirty(r)
}

// IsDeleted reports whether the row named name is marked for deletion.
func (s *Session) IsDeleted(name string) bool {
	r := s.find(name)
	return r != nil && r.deleted
}

// ChangedKeys returns the keys of every dirty row: the original name for
// loaded rows, the current name for rows added in this session. Rows
// marked for deletion are included; the save plan skips them.
func (s *Session) ChangedKeys() []string {
	var out []string
	for _, r := range s.rows {
		if !s.dirty(r) {
			continue
		}
		if r.isNew() {
			out = append(out, r.camp.Name)
		} else {
			out = append(out, r.original)
		}
	}
	return out
}

// DeletedNames returns the current names of rows marked for deletion.
func (s *Session) DeletedNames() []string {
	var out []string
	for _, r := range s.rows {
		if r.deleted {
			out = append(out, r.camp.Name)
		}
	}
	return out
}

// HasChanges reports whether saving would write anything.
func (s *Session) HasChanges() bool {
	return !s.ComputeSavePlan().Empty()
}

// Defaults returns the values a freshly added row starts with. Name, Link
// and Phone are left for the editor to fill in.
func Defaults(t domain.CampType) domain.Camp {
	c := domain.Camp{
		Type:         t,
		AgeRange:     domain.AgesBetween(5, 15),
		Languages:    []string{"English", "French"},
		Dates:        domain.YearRound(),
		Cost:         domain.Cost{Amount: 100, Period: domain.PeriodWeek},
		FinancialAid: "NA",
	}
	if t == domain.CampTypeDay {
		c.Borough = "Ahuntsic-Cartierville"
		c.Hours = "09:00 - 17:00"
	}
	return c
}
