// Package domain contains the core data types for the camp directory.
// It is imported by every other internal package (catalog, codec, batch,
// repo, service, handler) and holds no I/O.
package domain

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// CampType distinguishes neighbourhood day camps from vacation (overnight) camps.
type CampType string

const (
	CampTypeDay      CampType = "day"
	CampTypeVacation CampType = "vacation"
)

// Valid reports whether t is one of the known camp types.
func (t CampType) Valid() bool {
	return t == CampTypeDay || t == CampTypeVacation
}

// Period is the time unit a Cost amount is charged per.
type Period string

const (
	PeriodYear  Period = "year"
	PeriodMonth Period = "month"
	PeriodWeek  Period = "week"
	PeriodHour  Period = "hour"
)

// Periods lists every valid Period in display order.
var Periods = []Period{PeriodYear, PeriodMonth, PeriodWeek, PeriodHour}

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool {
	for _, known := range Periods {
		if p == known {
			return true
		}
	}
	return false
}

// AgeRange is either "all ages" or an inclusive From..To range of years.
// When AllAges is true From and To are zero.
type AgeRange struct {
	AllAges bool
	From    int
	To      int
}

// AllAges returns the all-ages variant.
func AllAges() AgeRange {
	return AgeRange{AllAges: true}
}

// AgesBetween returns the range variant. It does not validate its input;
// see Validate.
func AgesBetween(from, to int) AgeRange {
	return AgeRange{From: from, To: to}
}

// MaxAge is the largest age bound the record store's integer columns hold.
const MaxAge = math.MaxInt32

// Validate checks 0 < From <= To <= MaxAge for the range variant.
func (a AgeRange) Validate() error {
	if a.AllAges {
		return nil
	}
	if a.From <= 0 || a.To <= 0 {
		return fmt.Errorf("%w: age range bounds must be positive", ErrValidation)
	}
	if a.From > MaxAge || a.To > MaxAge {
		return fmt.Errorf("%w: age range bounds must not exceed %d", ErrValidation, MaxAge)
	}
	if a.To < a.From {
		return fmt.Errorf("%w: age range upper bound must not be below lower bound", ErrValidation)
	}
	return nil
}

// DateLayout is the ISO calendar date layout used for DateRange bounds.
const DateLayout = "2006-01-02"

// DateRange is either year-round or an inclusive From..To range of calendar dates.
// Bounds are midnight UTC; the zero value of From/To is unused when YearRound is true.
type DateRange struct {
	YearRound bool
	From      time.Time
	To        time.Time
}

// YearRound returns the year-round variant.
func YearRound() DateRange {
	return DateRange{YearRound: true}
}

// DatesBetween returns the range variant truncated to calendar dates.
func DatesBetween(from, to time.Time) DateRange {
	return DateRange{From: civilDate(from), To: civilDate(to)}
}

// Validate checks that both bounds are set and To is not before From.
func (d DateRange) Validate() error {
	if d.YearRound {
		return nil
	}
	if d.From.IsZero() || d.To.IsZero() {
		return fmt.Errorf("%w: date range requires both dates", ErrValidation)
	}
	if d.To.Before(d.From) {
		return fmt.Errorf("%w: end date must not be before start date", ErrValidation)
	}
	return nil
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Cost is a positive amount charged per Period.
type Cost struct {
	Amount float64
	Period Period
}

// MaxCostAmount is the exclusive upper bound on Cost.Amount. Amounts are
// stored as NUMERIC(12, 2), so they also carry at most two decimal places.
const MaxCostAmount = 1e10

// ValidAmount reports whether amount is a positive value below
// MaxCostAmount with at most two decimal places.
func ValidAmount(amount float64) bool {
	if math.IsNaN(amount) || amount <= 0 || amount >= MaxCostAmount {
		return false
	}
	_, frac, found := strings.Cut(strconv.FormatFloat(amount, 'f', -1, 64), ".")
	return !found || len(frac) <= 2
}

// Phone is a contact number with an optional extension.
type Phone struct {
	Number    string
	Extension string
}

// Coordinates is a WGS 84 point produced by geocoding a camp's address.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Camp is a single listing in the directory. Name is the primary key of the
// record store and is user-editable.
//
// Optional text fields use the empty string for "absent". Borough is set for
// day camps only. Coordinates are derived from Address by geocoding and are
// nil when the address is empty or could not be resolved.
type Camp struct {
	Name         string
	Type         CampType
	Borough      string
	AgeRange     AgeRange
	Languages    []string
	Dates        DateRange
	Hours        string
	Cost         Cost
	FinancialAid string
	Link         string
	Phone        Phone
	Email        string
	Address      string
	Notes        string
	Coordinates  *Coordinates
}

// campFields has Camp's layout but none of its methods, so cmp walks the
// fields instead of calling Camp.Equal again.
type campFields Camp

var campEquality = cmp.Options{cmpopts.EquateEmpty()}

// Equal reports whether c and other hold the same values field by field.
// Nil and empty language lists are equal; coordinates compare by value.
func (c Camp) Equal(other Camp) bool {
	return cmp.Equal(campFields(c), campFields(other), campEquality)
}

// Clone returns a deep copy of c so that edits to the copy never alias c.
func (c Camp) Clone() Camp {
	out := c
	if c.Languages != nil {
		out.Languages = append([]string(nil), c.Languages...)
	}
	if c.Coordinates != nil {
		coords := *c.Coordinates
		out.Coordinates = &coords
	}
	return out
}

// Validate enforces the invariants every persisted camp must satisfy.
// It returns the first violation found, wrapped in ErrValidation.
func (c Camp) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: type must be %q or %q", ErrValidation, CampTypeDay, CampTypeVacation)
	}
	switch c.Type {
	case CampTypeDay:
		if strings.TrimSpace(c.Borough) == "" {
			return fmt.Errorf("%w: borough is required for day camps", ErrValidation)
		}
	case CampTypeVacation:
		if c.Borough != "" {
			return fmt.Errorf("%w: vacation camps have no borough", ErrValidation)
		}
	}
	if err := c.AgeRange.Validate(); err != nil {
		return err
	}
	if !hasLanguage(c.Languages) {
		return fmt.Errorf("%w: at least one language is required", ErrValidation)
	}
	if err := c.Dates.Validate(); err != nil {
		return err
	}
	if c.Cost.Amount <= 0 {
		return fmt.Errorf("%w: cost amount must be positive", ErrValidation)
	}
	if !ValidAmount(c.Cost.Amount) {
		return fmt.Errorf("%w: cost amount must be below %.0f with at most two decimal places", ErrValidation, float64(MaxCostAmount))
	}
	if !c.Cost.Period.Valid() {
		return fmt.Errorf("%w: unknown cost period %q", ErrValidation, c.Cost.Period)
	}
	if strings.TrimSpace(c.FinancialAid) == "" {
		return fmt.Errorf("%w: financial aid information is required", ErrValidation)
	}
	if !validURL(c.Link) {
		return fmt.Errorf("%w: link must be a valid URL", ErrValidation)
	}
	if strings.TrimSpace(c.Phone.Number) == "" {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if c.Coordinates != nil {
		if c.Coordinates.Lat < -90 || c.Coordinates.Lat > 90 {
			return fmt.Errorf("%w: latitude must be between -90 and 90", ErrValidation)
		}
		if c.Coordinates.Lng < -180 || c.Coordinates.Lng > 180 {
			return fmt.Errorf("%w: longitude must be between -180 and 180", ErrValidation)
		}
	}
	return nil
}

func hasLanguage(langs []string) bool {
	for _, l := range langs {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}

func validURL(s string) bool {
	u, err := url.ParseRequestURI(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
