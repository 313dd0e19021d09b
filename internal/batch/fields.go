package batch

import (
	"strconv"
	"strings"

	"github.com/pkordes/camp-directory/internal/codec"
	"github.com/pkordes/camp-directory/internal/domain"
)

// Field names an editable cell of the batch table.
type Field string

const (
	FieldName         Field = "name"
	FieldBorough      Field = "borough"
	FieldAgeRange     Field = "ageRange"
	FieldAgeFrom      Field = "ageFrom"
	FieldAgeTo        Field = "ageTo"
	FieldLanguages    Field = "languages"
	FieldDates        Field = "dates"
	FieldHoursFrom    Field = "hoursFrom"
	FieldHoursTo      Field = "hoursTo"
	FieldCost         Field = "cost"
	FieldCostAmount   Field = "costAmount"
	FieldCostPeriod   Field = "costPeriod"
	FieldFinancialAid Field = "financialAid"
	FieldLink         Field = "link"
	FieldPhone        Field = "phone"
	FieldEmail        Field = "email"
	FieldAddress      Field = "address"
	FieldNotes        Field = "notes"
)

// CellText renders a camp field the way the batch table displays it.
func CellText(c domain.Camp, f Field) string {
	switch f {
	case FieldName:
		return c.Name
	case FieldBorough:
		return c.Borough
	case FieldAgeRange:
		return codec.FormatAgeRange(c.AgeRange)
	case FieldAgeFrom:
		if c.AgeRange.AllAges {
			return ""
		}
		return strconv.Itoa(c.AgeRange.From)
	case FieldAgeTo:
		if c.AgeRange.AllAges {
			return ""
		}
		return strconv.Itoa(c.AgeRange.To)
	case FieldLanguages:
		return codec.FormatLanguages(c.Languages)
	case FieldDates:
		return codec.FormatDates(c.Dates)
	case FieldHoursFrom:
		from, _ := codec.SplitHours(c.Hours)
		return from
	case FieldHoursTo:
		_, to := codec.SplitHours(c.Hours)
		return to
	case FieldCost:
		return codec.FormatCost(c.Cost)
	case FieldCostAmount:
		return codec.FormatAmount(c.Cost.Amount)
	case FieldCostPeriod:
		return string(c.Cost.Period)
	case FieldFinancialAid:
		return c.FinancialAid
	case FieldLink:
		return c.Link
	case FieldPhone:
		return codec.FormatPhone(c.Phone)
	case FieldEmail:
		return c.Email
	case FieldAddress:
		return c.Address
	case FieldNotes:
		return c.Notes
	}
	return ""
}

// SetField parses text for field f and applies it to the row currently
// named name. It reports whether the edit was applied; unparseable text
// and unknown rows or fields leave the session untouched.
//
// Editing FieldName goes through RenameCamp.
func (s *Session) SetField(name string, f Field, text string) bool {
	if f == FieldName {
		return s.RenameCamp(name, text)
	}
	r := s.find(name)
	if r == nil {
		return false
	}
	apply, ok := parseCell(r.camp, f, text)
	if !ok {
		return false
	}
	return s.UpdateCamp(name, apply)
}

func parseCell(current domain.Camp, f Field, text string) (func(*domain.Camp), bool) {
	switch f {
	case FieldBorough:
		if current.Type != domain.CampTypeDay {
			return nil, false
		}
		v := strings.TrimSpace(text)
		if v == "" {
			return nil, false
		}
		return func(c *domain.Camp) { c.Borough = v }, true
	case FieldAgeRange:
		v, ok := codec.ParseAgeRange(text)
		return func(c *domain.Camp) { c.AgeRange = v }, ok
	case FieldAgeFrom, FieldAgeTo:
		v, ok := codec.ParseAgeBound(current.AgeRange, text, f == FieldAgeTo)
		return func(c *domain.Camp) { c.AgeRange = v }, ok
	case FieldLanguages:
		v := codec.ParseLanguages(text)
		if len(v) == 0 {
			return nil, false
		}
		return func(c *domain.Camp) { c.Languages = v }, true
	case FieldDates:
		v, ok := codec.ParseDates(text)
		return func(c *domain.Camp) { c.Dates = v }, ok
	case FieldHoursFrom:
		_, to := codec.SplitHours(current.Hours)
		v := codec.JoinHours(text, to)
		return func(c *domain.Camp) { c.Hours = v }, true
	case FieldHoursTo:
		from, _ := codec.SplitHours(current.Hours)
		v := codec.JoinHours(from, text)
		return func(c *domain.Camp) { c.Hours = v }, true
	case FieldCost:
		v, ok := codec.ParseCost(text)
		return func(c *domain.Camp) { c.Cost = v }, ok
	case FieldCostAmount:
		v, ok := codec.ParseAmount(text)
		return func(c *domain.Camp) { c.Cost.Amount = v }, ok
	case FieldCostPeriod:
		v, ok := codec.ParsePeriod(text)
		return func(c *domain.Camp) { c.Cost.Period = v }, ok
	case FieldFinancialAid:
		v := strings.TrimSpace(text)
		return func(c *domain.Camp) { c.FinancialAid = v }, v != ""
	case FieldLink:
		v := strings.TrimSpace(text)
		return func(c *domain.Camp) { c.Link = v }, v != ""
	case FieldPhone:
		v, ok := codec.ParsePhone(text)
		return func(c *domain.Camp) { c.Phone = v }, ok
	case FieldEmail:
		v := strings.TrimSpace(text)
		return func(c *domain.Camp) { c.Email = v }, true
	case FieldAddress:
		v := strings.TrimSpace(text)
		return func(c *domain.Camp) { c.Address = v }, true
	case FieldNotes:
		return func(c *domain.Camp) { c.Notes = text }, true
	}
	return nil, false
}
