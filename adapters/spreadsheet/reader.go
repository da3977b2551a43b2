package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docugen/domain/roster"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading employee rosters from Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a new data reader that handles both Excel and CSV rosters
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// Read reads the roster file into a header/record structure
func (r *DataReader) Read() (*roster.Sheet, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcel reads the first sheet of the workbook
func (r *DataReader) readExcel() (*roster.Sheet, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	fileOpenTime := time.Since(startTime)
	log.Printf("[DataReader] Excel file opened in %.2fms", float64(fileOpenTime.Nanoseconds())/1e6)

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("Excel file has no sheets")
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	readTime := time.Since(readStart)
	log.Printf("[DataReader] Sheet %q read in %.2fms (%d rows)", sheet, float64(readTime.Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// readCSV reads a comma-separated roster
func (r *DataReader) readCSV() (*roster.Sheet, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	readTime := time.Since(readStart)
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(readTime.Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// processRows converts raw string rows into a roster sheet. Rows where every
// cell is blank are dropped, matching how trailing formatting artifacts show
// up in exported workbooks.
func (r *DataReader) processRows(rows [][]string) (*roster.Sheet, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	var records []roster.Record
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		record := make(roster.Record)
		blank := true

		for j, cell := range row {
			if j < len(headers) {
				value := strings.TrimSpace(cell)
				record[headers[j]] = value
				if value != "" {
					blank = false
				}
			}
		}

		if blank {
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s file contains no data rows", strings.ToUpper(r.fileType))
	}

	log.Printf("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(records))

	return &roster.Sheet{
		Headers: headers,
		Records: records,
	}, nil
}
