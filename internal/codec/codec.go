// Package codec converts camp fields to and from the free text typed into
// batch-edit cells.
//
// Every Format function is total. Every Parse function reports success with
// a boolean; on false the returned value is the zero value and callers must
// leave the field they were editing unchanged.
package codec

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/camp-directory/internal/domain"
)

const (
	allAgesText   = "all"
	yearRoundText = "year-round"
	phoneExtSep   = " ext "
	hoursSep      = " - "
)

var (
	ageRangePattern = regexp.MustCompile(`^(\d+)-(\d+)$`)
	datesPattern    = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+to\s+(\d{4}-\d{2}-\d{2})$`)
	costPattern     = regexp.MustCompile(`^(\d+(?:\.\d+)?)/(year|month|week|hour)$`)
	phonePattern    = regexp.MustCompile(`(?i)^(.+?)\s+ext\s+(.+)$`)
)

// FormatAgeRange renders "all" or "{from}-{to}".
func FormatAgeRange(a domain.AgeRange) string {
	if a.AllAges {
		return allAgesText
	}
	return strconv.Itoa(a.From) + "-" + strconv.Itoa(a.To)
}

// ParseAgeRange accepts "all" (any case) or "{from}-{to}" with 0 < from <= to.
func ParseAgeRange(s string) (domain.AgeRange, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == allAgesText {
		return domain.AllAges(), true
	}
	m := ageRangePattern.FindStringSubmatch(s)
	if m == nil {
		return domain.AgeRange{}, false
	}
	from, err := strconv.ParseInt(m[1], 10, 32)
	if err != nil {
		return domain.AgeRange{}, false
	}
	to, err := strconv.ParseInt(m[2], 10, 32)
	if err != nil {
		return domain.AgeRange{}, false
	}
	r := domain.AgesBetween(int(from), int(to))
	if r.Validate() != nil {
		return domain.AgeRange{}, false
	}
	return r, true
}

// ParseAgeBound applies a single "from" or "to" cell edit to current.
// The edited bound must be a positive integer; the other bound is pushed so
// that to >= from still holds. Editing an all-ages range converts it to a
// range: a lower bound v gives v-v, an upper bound v gives 1-v.
func ParseAgeBound(current domain.AgeRange, s string, upper bool) (domain.AgeRange, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil || n <= 0 {
		return domain.AgeRange{}, false
	}
	v := int(n)
	switch {
	case current.AllAges && upper:
		return domain.AgesBetween(1, v), true
	case current.AllAges:
		return domain.AgesBetween(v, v), true
	case upper:
		return domain.AgesBetween(current.From, max(v, current.From)), true
	default:
		return domain.AgesBetween(v, max(v, current.To)), true
	}
}

// FormatDates renders "year-round" or "{from} to {to}" with ISO dates.
func FormatDates(d domain.DateRange) string {
	if d.YearRound {
		return yearRoundText
	}
	return d.From.Format(domain.DateLayout) + " to " + d.To.Format(domain.DateLayout)
}

// ParseDates accepts "year-round", "yearround" or two ISO calendar dates
// joined by "to" with the second not before the first.
func ParseDates(s string) (domain.DateRange, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == yearRoundText || s == "yearround" {
		return domain.YearRound(), true
	}
	m := datesPattern.FindStringSubmatch(s)
	if m == nil {
		return domain.DateRange{}, false
	}
	from, err := time.Parse(domain.DateLayout, m[1])
	if err != nil {
		return domain.DateRange{}, false
	}
	to, err := time.Parse(domain.DateLayout, m[2])
	if err != nil {
		return domain.DateRange{}, false
	}
	d := domain.DatesBetween(from, to)
	if d.Validate() != nil {
		return domain.DateRange{}, false
	}
	return d, true
}

// FormatLanguages joins languages with ", ".
func FormatLanguages(langs []string) string {
	return strings.Join(langs, ", ")
}

// ParseLanguages splits on commas, trims each entry and drops empties.
// It always succeeds; empty input gives an empty, non-nil list.
func ParseLanguages(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// FormatCost renders "{amount}/{period}" using the shortest decimal form of amount.
func FormatCost(c domain.Cost) string {
	return FormatAmount(c.Amount) + "/" + string(c.Period)
}

// FormatAmount renders a cost amount without trailing zeros ("100", "12.5").
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// ParseCost accepts "{amount}/{period}" where amount is a positive decimal
// below domain.MaxCostAmount with at most two decimal places, and period is
// one of year, month, week, hour.
func ParseCost(s string) (domain.Cost, bool) {
	m := costPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return domain.Cost{}, false
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil || !domain.ValidAmount(amount) {
		return domain.Cost{}, false
	}
	return domain.Cost{Amount: amount, Period: domain.Period(m[2])}, true
}

// ParseAmount accepts a single cost amount typed into a cost-amount cell,
// under the same rules as ParseCost.
func ParseAmount(s string) (float64, bool) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !domain.ValidAmount(amount) {
		return 0, false
	}
	return amount, true
}

// ParsePeriod accepts one of the known cost periods, exact match.
func ParsePeriod(s string) (domain.Period, bool) {
	p := domain.Period(strings.TrimSpace(s))
	if !p.Valid() {
		return "", false
	}
	return p, true
}

// FormatPhone renders "{number}" or "{number} ext {extension}".
func FormatPhone(p domain.Phone) string {
	if strings.TrimSpace(p.Extension) != "" {
		return p.Number + phoneExtSep + p.Extension
	}
	return p.Number
}

// ParsePhone accepts any non-empty text. An " ext " separator (any case)
// splits the number from the extension.
func ParsePhone(s string) (domain.Phone, bool) {
	s = strings.TrimSpace(s)
	if m := phonePattern.FindStringSubmatch(s); m != nil {
		return domain.Phone{
			Number:    strings.TrimSpace(m[1]),
			Extension: strings.TrimSpace(m[2]),
		}, true
	}
	if s == "" {
		return domain.Phone{}, false
	}
	return domain.Phone{Number: s}, true
}

// SplitHours splits "09:00 - 17:00" into its opening and closing halves.
// Missing halves are empty.
func SplitHours(hours string) (from, to string) {
	from, to, _ = strings.Cut(hours, hoursSep)
	return strings.TrimSpace(from), strings.TrimSpace(to)
}

// JoinHours is the inverse of SplitHours. Two empty halves give "".
func JoinHours(from, to string) string {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return ""
	}
	return strings.TrimSpace(from + hoursSep + to)
}
