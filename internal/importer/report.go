package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/shrs/shrs/internal/validation"
)

// reportHeader is the error report layout: the failure location first, then
// every originally submitted value so the operator can fix the failing rows
// and re-upload exactly that subset.
var reportHeader = []string{
	"Row", "Field", "Error",
	"firstName", "lastName", "dateOfBirth", "gender",
	"bloodGroup", "class", "section", "admissionDate",
	"parentName", "parentPhone", "parentEmail", "parentRelationship",
}

func reportRow(e RowError) []string {
	return append([]string{strconv.Itoa(e.Row), e.Field, e.Message}, rowValues(e.Data)...)
}

func rowValues(r validation.StudentRow) []string {
	return []string{
		r.FirstName, r.LastName, r.DateOfBirth, r.Gender,
		r.BloodGroup, r.Class, r.Section, r.AdmissionDate,
		r.ParentName, r.ParentPhone, r.ParentEmail, r.ParentRelationship,
	}
}

// WriteErrorReportCSV writes the accumulated row errors as CSV.
func (p *Pipeline) WriteErrorReportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, e := range p.Errors() {
		if err := cw.Write(reportRow(e)); err != nil {
			return fmt.Errorf("write report row %d: %w", e.Row, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteErrorReportXLSX writes the accumulated row errors as an Excel
// workbook with a single "Errors" sheet.
func (p *Pipeline) WriteErrorReportXLSX(w io.Writer) error {
	wb := excelize.NewFile()
	defer wb.Close()

	const sheet = "Errors"
	index, err := wb.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create report sheet: %w", err)
	}
	wb.SetActiveSheet(index)
	if err := wb.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	writeRow := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		return wb.SetSheetRow(sheet, cell, &row)
	}

	if err := writeRow(1, reportHeader); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for i, e := range p.Errors() {
		if err := writeRow(i+2, reportRow(e)); err != nil {
			return fmt.Errorf("write report row %d: %w", e.Row, err)
		}
	}
	return wb.Write(w)
}
