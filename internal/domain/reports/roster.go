package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"peopledesk/internal/domain/core"
)

// RosterCSV renders the employee roster with the same columns the
// employee serialization exposes. The password hash never reaches this
// layer.
func RosterCSV(employees []core.EmployeeView) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "first_name", "last_name", "email", "phone", "user_type_name", "job_title_name", "department_name"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, emp := range employees {
		record := []string{
			fmt.Sprintf("%d", emp.ID),
			emp.FirstName,
			emp.LastName,
			emp.Email,
			orEmpty(emp.Phone),
			orEmpty(emp.UserTypeName),
			orEmpty(emp.JobTitleName),
			orEmpty(emp.DepartmentName),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RosterPDF renders the roster as a landscape table, one row per
// employee.
func RosterPDF(employees []core.EmployeeView) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Employee Roster")
	pdf.Ln(12)

	widths := []float64{12, 38, 38, 70, 32, 30, 40, 40}
	headers := []string{"ID", "First name", "Last name", "Email", "Phone", "User type", "Job title", "Department"}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, emp := range employees {
		cols := []string{
			fmt.Sprintf("%d", emp.ID),
			emp.FirstName,
			emp.LastName,
			emp.Email,
			orEmpty(emp.Phone),
			orEmpty(emp.UserTypeName),
			orEmpty(emp.JobTitleName),
			orEmpty(emp.DepartmentName),
		}
		for i, col := range cols {
			pdf.CellFormat(widths[i], 6, col, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
