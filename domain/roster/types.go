package roster

import (
	"fmt"
	"strings"
	"time"

	"docugen/domain/core"
)

// Required spreadsheet columns, in the order they are reported when missing.
var RequiredColumns = []string{"Name", "Email", "Company Name", "Position", "Joining Date"}

// Record represents one raw spreadsheet row as header/value pairs
type Record = map[string]string

// Sheet represents a parsed roster file
type Sheet struct {
	Headers []string // Column headers, trimmed
	Records []Record // Data rows keyed by header
}

// Employee is one roster row after validation and normalization
type Employee struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
	Position    string `json:"position"`
	JoiningDate string `json:"joining_date"`
}

// Detail is a label/value pair rendered into the document body
type Detail struct {
	Label string
	Value string
}

// Details returns the document fields in their fixed rendering order
func (e Employee) Details() []Detail {
	return []Detail{
		{Label: "Name", Value: e.Name},
		{Label: "Position", Value: e.Position},
		{Label: "Email", Value: e.Email},
		{Label: "Joining Date", Value: e.JoiningDate},
	}
}

// MissingColumns returns the required columns absent from headers,
// preserving the RequiredColumns order
func MissingColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

// FromRecord builds an Employee from one raw row. Name and Company Name
// must be non-blank since output filenames derive from them; other fields
// may be empty and render as such.
func FromRecord(rec Record) (Employee, error) {
	emp := Employee{
		Name:        strings.TrimSpace(rec["Name"]),
		Email:       strings.TrimSpace(rec["Email"]),
		CompanyName: strings.TrimSpace(rec["Company Name"]),
		Position:    strings.TrimSpace(rec["Position"]),
		JoiningDate: strings.TrimSpace(rec["Joining Date"]),
	}

	if emp.Name == "" {
		return Employee{}, fmt.Errorf("%w: Name is blank", core.ErrBlankIdentity)
	}
	if emp.CompanyName == "" {
		return Employee{}, fmt.Errorf("%w: Company Name is blank", core.ErrBlankIdentity)
	}

	if normalized, ok := NormalizeDate(emp.JoiningDate); ok {
		emp.JoiningDate = normalized
	}

	return emp, nil
}

// dateLayouts covers the forms spreadsheets hand us: ISO, US slash dates,
// excelize's default short date rendering, and timestamp variants.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"2006/01/02",
	"02-Jan-2006",
}

// ParseDate parses a joining date in any accepted layout
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeDate rewrites a parseable date as 2006-01-02. Unparseable
// values are returned unchanged with ok=false and render verbatim.
func NormalizeDate(s string) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return s, false
	}
	return t.Format("2006-01-02"), true
}
