package domain

// ExportRow is a single camp flattened to display strings for spreadsheet
// export. Every structured field is already formatted; empty strings mean
// the camp has no value for that column.
type ExportRow struct {
	Name         string
	Type         string
	Borough      string
	AgeRange     string
	Languages    string // comma-joined
	Dates        string
	Hours        string
	Cost         string
	FinancialAid string
	Link         string
	Phone        string
	Email        string
	Address      string
	Notes        string
}
