package spreadsheet

import (
	"fmt"

	"docugen/domain/roster"

	"github.com/xuri/excelize/v2"
)

// SampleEmployees is the demo roster used for first-run walkthroughs.
var SampleEmployees = []roster.Employee{
	{
		Name:        "John Doe",
		Email:       "john.doe@example.com",
		CompanyName: "Tech Corp",
		Position:    "Software Engineer",
		JoiningDate: "2024-01-15",
	},
	{
		Name:        "Jane Smith",
		Email:       "jane.smith@example.com",
		CompanyName: "Tech Corp",
		Position:    "Product Manager",
		JoiningDate: "2024-02-01",
	},
	{
		Name:        "Mike Johnson",
		Email:       "mike.j@example.com",
		CompanyName: "Innovate Inc",
		Position:    "Data Analyst",
		JoiningDate: "2024-01-20",
	},
}

// WriteSampleWorkbook writes the demo roster as an Excel workbook at path.
func WriteSampleWorkbook(path string) error {
	return WriteWorkbook(path, SampleEmployees)
}

// WriteWorkbook writes employees as a roster workbook with the standard
// column layout.
func WriteWorkbook(path string, employees []roster.Employee) error {
	f := excelize.NewFile()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range roster.RequiredColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, emp := range employees {
		rowIdx := r + 2
		values := []string{emp.Name, emp.Email, emp.CompanyName, emp.Position, emp.JoiningDate}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
