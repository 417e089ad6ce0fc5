package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/shrs/shrs/internal/validation"
)

// Format names a supported upload format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatForFilename infers the upload format from a file name.
func FormatForFilename(name string) (Format, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(name), ".csv"):
		return FormatCSV, nil
	case strings.HasSuffix(strings.ToLower(name), ".xlsx"):
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file type %q: expected .csv or .xlsx", name)
	}
}

// requiredColumns is the fixed header contract of the import file.
var requiredColumns = []string{
	"firstName", "lastName", "dateOfBirth", "gender",
	"bloodGroup", "class", "section", "admissionDate",
}

func parse(r io.Reader, format Format) ([]validation.StudentRow, error) {
	switch format {
	case FormatCSV:
		return parseCSV(r)
	case FormatXLSX:
		return parseXLSX(r)
	default:
		return nil, fmt.Errorf("unknown import format %q", format)
	}
}

func parseCSV(r io.Reader) ([]validation.StudentRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("file is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []validation.StudentRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Framing errors are structural: the whole import aborts.
			return nil, fmt.Errorf("malformed row: %w", err)
		}
		rows = append(rows, rowFromRecord(record, cols))
	}
	return rows, nil
}

func parseXLSX(r io.Reader) ([]validation.StudentRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	cells, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, errors.New("file is empty")
	}
	cols, err := mapHeader(cells[0])
	if err != nil {
		return nil, err
	}
	var rows []validation.StudentRow
	for _, record := range cells[1:] {
		rows = append(rows, rowFromRecord(record, cols))
	}
	return rows, nil
}

// mapHeader resolves column positions by name, case-insensitively. Every
// required column must be present; a miss is a structural error.
func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, want := range requiredColumns {
		if _, ok := cols[strings.ToLower(want)]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func rowFromRecord(record []string, cols map[string]int) validation.StudentRow {
	cell := func(name string) string {
		i, ok := cols[strings.ToLower(name)]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	return validation.StudentRow{
		FirstName:          cell("firstName"),
		LastName:           cell("lastName"),
		DateOfBirth:        cell("dateOfBirth"),
		Gender:             cell("gender"),
		BloodGroup:         cell("bloodGroup"),
		Class:              cell("class"),
		Section:            cell("section"),
		AdmissionDate:      cell("admissionDate"),
		ParentName:         cell("parentName"),
		ParentPhone:        cell("parentPhone"),
		ParentEmail:        cell("parentEmail"),
		ParentRelationship: cell("parentRelationship"),
	}
}
