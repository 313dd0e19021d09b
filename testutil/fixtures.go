package testutil

import (
	"time"

	"github.com/pkordes/camp-directory/internal/domain"
)

// DayCamp returns a valid day camp in the given borough.
// Callers can override individual fields after calling this function.
func DayCamp(name, borough string) domain.Camp {
	return domain.Camp{
		Name:         name,
		Type:         domain.CampTypeDay,
		Borough:      borough,
		AgeRange:     domain.AgesBetween(5, 12),
		Languages:    []string{"English", "French"},
		Dates:        domain.DatesBetween(time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC), time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)),
		Hours:        "09:00 - 16:00",
		Cost:         domain.Cost{Amount: 175, Period: domain.PeriodWeek},
		FinancialAid: "Sliding scale",
		Link:         "https://example.org/camps/" + slug(name),
		Phone:        domain.Phone{Number: "514-555-0100"},
		Notes:        "Outdoor activities",
	}
}

// VacationCamp returns a valid vacation camp; vacation camps have no borough.
func VacationCamp(name string) domain.Camp {
	return domain.Camp{
		Name:         name,
		Type:         domain.CampTypeVacation,
		AgeRange:     domain.AgesBetween(8, 16),
		Languages:    []string{"French"},
		Dates:        domain.YearRound(),
		Cost:         domain.Cost{Amount: 900, Period: domain.PeriodMonth},
		FinancialAid: "NA",
		Link:         "https://example.org/vacation/" + slug(name),
		Phone:        domain.Phone{Number: "819-555-0199", Extension: "2"},
		Notes:        "Lakeside cabins",
	}
}

func slug(name string) string {
	b := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b = append(b, c+'a'-'A')
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b = append(b, c)
		default:
			b = append(b, '-')
		}
	}
	return string(b)
}
