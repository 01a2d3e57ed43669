package reporting

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/frahmantamala/hr-management/internal/core/common/validation"
)

const (
	CSVFilename    = "employees.csv"
	XLSXFilename   = "employees.xlsx"
	XLSXSheet      = "Employees"
	XLSXMIMEType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	CSVContentType = "text/csv"
)

var exportHeader = []string{"Employee ID", "Full Name", "Email", "Job Title", "Date Joined"}

func exportRecord(r EmployeeRow) []string {
	return []string{
		r.EmployeeID,
		r.FullName,
		r.Email,
		r.JobTitle,
		r.DateJoined.Format(validation.DateLayout),
	}
}

// WriteEmployeesCSV writes the header line followed by one line per employee.
func WriteEmployeesCSV(rows []EmployeeRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(exportRecord(r)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteEmployeesXLSX builds a single-sheet workbook with the CSV columns.
func WriteEmployeesXLSX(rows []EmployeeRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	writeRow := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		line := make([]interface{}, len(values))
		for i, v := range values {
			line[i] = v
		}
		return f.SetSheetRow(XLSXSheet, cell, &line)
	}

	if err := writeRow(1, exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		if err := writeRow(i+2, exportRecord(r)); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
