package roster

import (
	"errors"
	"testing"

	"docugen/domain/core"
)

func TestMissingColumns(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		expected []string
	}{
		{
			name:     "all present",
			headers:  []string{"Name", "Email", "Company Name", "Position", "Joining Date"},
			expected: nil,
		},
		{
			name:     "all present with extras and padding",
			headers:  []string{" Name ", "Email", "Company Name", "Position", "Joining Date", "Notes"},
			expected: nil,
		},
		{
			name:     "missing two",
			headers:  []string{"Name", "Position", "Joining Date"},
			expected: []string{"Email", "Company Name"},
		},
		{
			name:     "empty header row",
			headers:  []string{},
			expected: []string{"Name", "Email", "Company Name", "Position", "Joining Date"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			missing := MissingColumns(test.headers)
			if len(missing) != len(test.expected) {
				t.Fatalf("Expected %v, got %v", test.expected, missing)
			}
			for i := range missing {
				if missing[i] != test.expected[i] {
					t.Errorf("Expected %v at position %d, got %v", test.expected[i], i, missing[i])
				}
			}
		})
	}
}

func TestFromRecord(t *testing.T) {
	rec := Record{
		"Name":         " John Doe ",
		"Email":        "john@techcorp.com",
		"Company Name": "Tech Corp",
		"Position":     "Software Engineer",
		"Joining Date": "01/15/2024",
	}

	emp, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if emp.Name != "John Doe" {
		t.Errorf("Expected trimmed name, got %q", emp.Name)
	}
	if emp.JoiningDate != "2024-01-15" {
		t.Errorf("Expected normalized joining date, got %q", emp.JoiningDate)
	}
}

func TestFromRecordBlankIdentity(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{
			name: "blank name",
			rec:  Record{"Name": "  ", "Company Name": "Tech Corp"},
		},
		{
			name: "blank company",
			rec:  Record{"Name": "John Doe", "Company Name": ""},
		},
		{
			name: "missing keys entirely",
			rec:  Record{"Email": "x@y.com"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := FromRecord(test.rec)
			if err == nil {
				t.Fatal("Expected error, got none")
			}
			if !errors.Is(err, core.ErrBlankIdentity) {
				t.Errorf("Expected ErrBlankIdentity, got %v", err)
			}
		})
	}
}

func TestFromRecordKeepsUnparseableDate(t *testing.T) {
	rec := Record{
		"Name":         "Jane Smith",
		"Company Name": "Innovate Inc",
		"Joining Date": "sometime next quarter",
	}

	emp, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if emp.JoiningDate != "sometime next quarter" {
		t.Errorf("Expected verbatim joining date, got %q", emp.JoiningDate)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"2024-01-15", "2024-01-15", true},
		{"01/15/2024", "2024-01-15", true},
		{"1/5/2024", "2024-01-05", true},
		{"01-15-24", "2024-01-15", true},
		{"2024-01-15 09:30:00", "2024-01-15", true},
		{"2024/01/15", "2024-01-15", true},
		{"15-Mar-2023", "2023-03-15", true},
		{"not a date", "not a date", false},
		{"", "", false},
	}

	for _, test := range tests {
		got, ok := NormalizeDate(test.input)
		if got != test.expected || ok != test.ok {
			t.Errorf("NormalizeDate(%q) = %q, %v; expected %q, %v",
				test.input, got, ok, test.expected, test.ok)
		}
	}
}

func TestEmployeeDetailsOrder(t *testing.T) {
	emp := Employee{
		Name:        "Mike Johnson",
		Email:       "mike@techcorp.com",
		CompanyName: "Tech Corp",
		Position:    "Product Manager",
		JoiningDate: "2024-03-10",
	}

	details := emp.Details()
	expected := []string{"Name", "Position", "Email", "Joining Date"}
	if len(details) != len(expected) {
		t.Fatalf("Expected %d details, got %d", len(expected), len(details))
	}
	for i, label := range expected {
		if details[i].Label != label {
			t.Errorf("Expected label %q at position %d, got %q", label, i, details[i].Label)
		}
	}
	if details[1].Value != "Product Manager" {
		t.Errorf("Expected position value, got %q", details[1].Value)
	}
}
