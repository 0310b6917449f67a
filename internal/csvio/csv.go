// Package csvio reads and writes the lead CSV exchange format. Tokenizing is
// delegated to encoding/csv; row semantics live in the intake package.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
)

// Header is the exact column order for both import and export.
var Header = []string{
	"fullName", "email", "phone", "city", "propertyType", "bhk", "purpose",
	"budgetMin", "budgetMax", "timeline", "source", "notes", "tags", "status",
}

// ReadRows parses a lead CSV document, validates the header row, and returns
// the raw data rows in file order. No per-field validation happens here.
func ReadRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func checkHeader(header []string) error {
	if len(header) != len(Header) {
		return fmt.Errorf("csv header has %d columns, want %d", len(header), len(Header))
	}
	for i, col := range header {
		if strings.TrimSpace(col) != Header[i] {
			return fmt.Errorf("csv header column %d is %q, want %q", i+1, strings.TrimSpace(col), Header[i])
		}
	}
	return nil
}

// WriteLeads renders leads in the exchange format, newest ordering preserved
// from the caller. Absent optional fields become empty cells; tags are joined
// with a comma, which cannot represent a tag that itself contains one.
func WriteLeads(w io.Writer, leads []domain.Lead) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for i := range leads {
		if err := writer.Write(leadRecord(&leads[i])); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func leadRecord(lead *domain.Lead) []string {
	return []string{
		lead.FullName,
		optionalCell(lead.Email),
		lead.Phone,
		string(lead.City),
		string(lead.PropertyType),
		bhkCell(lead.BHK),
		string(lead.Purpose),
		budgetCell(lead.BudgetMin),
		budgetCell(lead.BudgetMax),
		string(lead.Timeline),
		string(lead.Source),
		optionalCell(lead.Notes),
		strings.Join(lead.Tags, ","),
		string(lead.Status),
	}
}

func optionalCell(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}

func bhkCell(val *domain.BHK) string {
	if val == nil {
		return ""
	}
	return string(*val)
}

func budgetCell(val *int64) string {
	if val == nil {
		return ""
	}
	return strconv.FormatInt(*val, 10)
}
