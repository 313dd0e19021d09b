// Package importer reads YAML change sets and replays them as edits on a
// batch.Session, so a file import produces exactly the save plan an editor
// typing the same values into the batch table would.
//
// A change set looks like:
//
//	camps:
//	  - name: Camp Soleil
//	    type: day
//	    borough: Plateau-Mont-Royal
//	    ages: 5-12
//	    languages: English, French
//	    dates: 2025-06-23 to 2025-08-15
//	    hours: 09:00 - 16:00
//	    cost: 175/week
//	    financial_aid: Sliding scale
//	    link: https://example.org/soleil
//	    phone: 514-555-0100 ext 2
//	  - name: Lac Vert Lodge
//	    rename_from: Lac Vert
//	    notes: Renamed for the 2026 season
//	delete:
//	  - Closed Camp
//
// Field values use the same text forms as the batch table cells.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/pkordes/camp-directory/internal/batch"
	"github.com/pkordes/camp-directory/internal/codec"
	"github.com/pkordes/camp-directory/internal/domain"
)

// ErrInvalidChangeSet wraps every problem found while parsing or applying.
var ErrInvalidChangeSet = errors.New("invalid change set")

// ChangeSet is one import file.
type ChangeSet struct {
	Camps  []Entry  `yaml:"camps"`
	Delete []string `yaml:"delete"`
}

// Entry creates or edits one camp. Empty fields are left as they are; a new
// camp starts from batch.Defaults for its type.
type Entry struct {
	Name       string          `yaml:"name"`
	RenameFrom string          `yaml:"rename_from,omitempty"`
	Type       domain.CampType `yaml:"type,omitempty"`

	Borough      string `yaml:"borough,omitempty"`
	Ages         string `yaml:"ages,omitempty"`
	Languages    string `yaml:"languages,omitempty"`
	Dates        string `yaml:"dates,omitempty"`
	Hours        string `yaml:"hours,omitempty"`
	Cost         string `yaml:"cost,omitempty"`
	FinancialAid string `yaml:"financial_aid,omitempty"`
	Link         string `yaml:"link,omitempty"`
	Phone        string `yaml:"phone,omitempty"`
	Email        string `yaml:"email,omitempty"`
	Address      string `yaml:"address,omitempty"`
	Notes        string `yaml:"notes,omitempty"`
}

// Parse decodes a change set. Unknown keys are rejected so a misspelt
// field never silently drops an edit.
func Parse(r io.Reader) (ChangeSet, error) {
	var cs ChangeSet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cs); err != nil {
		if errors.Is(err, io.EOF) {
			return ChangeSet{}, nil
		}
		return ChangeSet{}, fmt.Errorf("%w: %w", ErrInvalidChangeSet, err)
	}
	return cs, nil
}

// Apply replays cs on s: every entry in file order, then every deletion.
// It keeps going after a bad entry and returns all problems joined; the
// session should be discarded when the error is non-nil.
func (cs ChangeSet) Apply(s *batch.Session) error {
	var errs []error
	for i, e := range cs.Camps {
		if err := applyEntry(s, e); err != nil {
			errs = append(errs, fmt.Errorf("%w: camps[%d]: %w", ErrInvalidChangeSet, i, err))
		}
	}
	for i, name := range cs.Delete {
		switch {
		case s.IsDeleted(name):
		case !s.ToggleDelete(name):
			errs = append(errs, fmt.Errorf("%w: delete[%d]: no camp named %q", ErrInvalidChangeSet, i, name))
		}
	}
	return errors.Join(errs...)
}

func applyEntry(s *batch.Session, e Entry) error {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return errors.New("name is required")
	}

	if err := locate(s, name, e); err != nil {
		return err
	}

	for _, fv := range fieldValues(e) {
		if fv.text == "" {
			continue
		}
		if !s.SetField(name, fv.field, fv.text) {
			return fmt.Errorf("camp %q: invalid %s %q", name, fv.field, fv.text)
		}
	}
	return nil
}

// locate makes sure a row named name exists, renaming or adding one as
// the entry asks.
func locate(s *batch.Session, name string, e Entry) error {
	if from := strings.TrimSpace(e.RenameFrom); from != "" && from != name {
		if _, ok := s.Row(from); !ok {
			return fmt.Errorf("rename_from: no camp named %q", from)
		}
		if !s.RenameCamp(from, name) {
			return fmt.Errorf("cannot rename %q to %q: name already in use", from, name)
		}
	}

	if row, ok := s.Row(name); ok {
		if e.Type != "" && e.Type != row.Camp.Type {
			return fmt.Errorf("camp %q: type cannot change from %s to %s", name, row.Camp.Type, e.Type)
		}
		return nil
	}

	if !e.Type.Valid() {
		return fmt.Errorf("camp %q: new camps need type %q or %q", name, domain.CampTypeDay, domain.CampTypeVacation)
	}
	provisional := s.AddRow(e.Type)
	if !s.RenameCamp(provisional, name) {
		return fmt.Errorf("camp %q: cannot name new camp", name)
	}
	return nil
}

type fieldValue struct {
	field batch.Field
	text  string
}

func fieldValues(e Entry) []fieldValue {
	var hoursFrom, hoursTo string
	if e.Hours != "" {
		hoursFrom, hoursTo = codec.SplitHours(e.Hours)
	}
	return []fieldValue{
		{batch.FieldBorough, e.Borough},
		{batch.FieldAgeRange, e.Ages},
		{batch.FieldLanguages, e.Languages},
		{batch.FieldDates, e.Dates},
		{batch.FieldHoursFrom, hoursFrom},
		{batch.FieldHoursTo, hoursTo},
		{batch.FieldCost, e.Cost},
		{batch.FieldFinancialAid, e.FinancialAid},
		{batch.FieldLink, e.Link},
		{batch.FieldPhone, e.Phone},
		{batch.FieldEmail, e.Email},
		{batch.FieldAddress, e.Address},
		{batch.FieldNotes, e.Notes},
	}
}
