package service

import (
	"context"
	"fmt"

	"github.com/pkordes/camp-directory/internal/catalog"
	"github.com/pkordes/camp-directory/internal/codec"
	"github.com/pkordes/camp-directory/internal/domain"
	"github.com/pkordes/camp-directory/internal/repo"
)

// ExportService flattens the camp collection for spreadsheet export.
type ExportService struct {
	camps repo.CampRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(camps repo.CampRepo) *ExportService {
	return &ExportService{camps: camps}
}

// Export returns one ExportRow per camp, alphabetically by name, with every
// structured field rendered the way the batch editor displays it.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	camps, err := s.camps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	camps = catalog.Sort(camps, domain.SortAlphabetical)
	rows := make([]domain.ExportRow, 0, len(camps))
	for _, c := range camps {
		rows = append(rows, toExportRow(c))
	}
	return rows, nil
}

func toExportRow(c domain.Camp) domain.ExportRow {
	return domain.ExportRow{
		Name:         c.Name,
		Type:         string(c.Type),
		Borough:      c.Borough,
		AgeRange:     codec.FormatAgeRange(c.AgeRange),
		Languages:    codec.FormatLanguages(c.Languages),
		Dates:        codec.FormatDates(c.Dates),
		Hours:        c.Hours,
		Cost:         codec.FormatCost(c.Cost),
		FinancialAid: c.FinancialAid,
		Link:         c.Link,
		Phone:        codec.FormatPhone(c.Phone),
		Email:        c.Email,
		Address:      c.Address,
		Notes:        c.Notes,
	}
}
