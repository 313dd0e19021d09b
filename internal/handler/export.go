// export.go implements GET /export.
// Returns every camp as a flat table of display strings.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).

package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/pkordes/camp-directory/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"name", "type", "borough", "age_range", "languages", "dates", "hours",
	"cost", "financial_aid", "link", "phone", "email", "address", "notes",
}

// ExportRow is the JSON form of a domain.ExportRow.
type ExportRow struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Borough      string `json:"borough,omitempty"`
	AgeRange     string `json:"ageRange"`
	Languages    string `json:"languages"`
	Dates        string `json:"dates"`
	Hours        string `json:"hours,omitempty"`
	Cost         string `json:"cost"`
	FinancialAid string `json:"financialAid"`
	Link         string `json:"link"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// GetExport handles GET /export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "json" {
		writeJSON(w, r, http.StatusUnprocessableEntity, requestBody("format must be csv or json"))
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	writeJSON(w, r, http.StatusOK, buildJSONRows(rows))
}

func buildJSONRows(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExportRow(r))
	}
	return out
}

// writeCSV encodes domain rows as CSV. Languages stay comma-joined inside a
// single quoted cell.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(exportRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="camps.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func exportRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.Name, r.Type, r.Borough, r.AgeRange, r.Languages, r.Dates, r.Hours,
		r.Cost, r.FinancialAid, r.Link, r.Phone, r.Email, r.Address, r.Notes,
	}
}
