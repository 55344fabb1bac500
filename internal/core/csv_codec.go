package core

// csv_codec.go converts loads to and from CSV text.
//
// Export quotes every field and does not escape embedded quotes, so values
// containing '"' or newlines do not survive a round trip.
//
// Import is forgiving about headers. Each logical field has a prioritized
// list of header substrings; for each substring in order, the first header
// containing it wins the field. Unresolved fields abort the whole file.
// Data rows that are short or lack route/party names are skipped silently
// and only counted.

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ExportFileName is the download name for exported loads.
const ExportFileName = "loads-export.csv"

// ExportHeader is the header row written by EncodeLoads.
var ExportHeader = []string{"ID", "Status", "Origin", "Destination", "Client", "Carrier"}

var (
	// ErrNotCSV is returned when an uploaded file is not a CSV file.
	ErrNotCSV = errors.New("invalid csv: please select a valid CSV file")

	// ErrTooFewLines is returned when the file lacks a header or data row.
	ErrTooFewLines = errors.New("too few lines: CSV file must contain at least a header row and one data row")

	// ErrFileTooLarge is returned when an upload exceeds the import size limit.
	ErrFileTooLarge = errors.New("file too large: CSV file exceeds the maximum import size")

	// ErrNoValidRows is returned when every data row was skipped.
	ErrNoValidRows = errors.New("no valid rows: no valid load data found in the CSV file")
)

// MissingColumnsError lists logical fields no header could be matched to.
type MissingColumnsError struct {
	Fields []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s. Expected: %s",
		strings.Join(e.Fields, ", "), strings.Join(ExportHeader, ", "))
}

// Logical import fields, in canonical order.
const (
	FieldID          = "id"
	FieldStatus      = "status"
	FieldOrigin      = "origin"
	FieldDestination = "destination"
	FieldClientName  = "client_name"
	FieldCarrierName = "carrier_name"
)

// headerAlias pairs a logical field with its acceptable header substrings.
type headerAlias struct {
	field   string
	matches []string
}

// headerAliases is scanned in order; within a field, earlier substrings win.
var headerAliases = []headerAlias{
	{FieldID, []string{"id", "load_id", "loadid"}},
	{FieldStatus, []string{"status", "load_status"}},
	{FieldOrigin, []string{"origin", "from", "pickup", "source"}},
	{FieldDestination, []string{"destination", "to", "delivery", "dest"}},
	{FieldClientName, []string{"client", "client_name", "customer", "customer_name"}},
	{FieldCarrierName, []string{"carrier", "carrier_name", "transport", "transporter"}},
}

// ColumnIndex maps each logical field to its CSV column position.
type ColumnIndex map[string]int

// ImportedLoad is a decoded CSV row. It has not been validated and its
// id is informational only; the store assigns its own ids on import.
type ImportedLoad struct {
	ID          int
	HasID       bool
	Status      string
	Origin      string
	Destination string
	ClientName  string
	CarrierName string
}

// DecodeResult holds the rows accepted by DecodeLoads.
type DecodeResult struct {
	Records []ImportedLoad
	Skipped int
	Columns ColumnIndex
}

// EncodeLoads renders loads as CSV text with a header row.
func EncodeLoads(loads []Load) string {
	rows := make([]string, 0, len(loads)+1)
	rows = append(rows, quoteRow(ExportHeader))
	for _, l := range loads {
		rows = append(rows, quoteRow([]string{
			strconv.Itoa(l.ID),
			string(l.Status),
			l.Origin,
			l.Destination,
			l.ClientName,
			l.CarrierName,
		}))
	}
	return strings.Join(rows, "\n")
}

func quoteRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, ",")
}

// DecodeLoads parses CSV text into load records.
//
// File-level failures (too few lines, unresolved columns, no surviving rows)
// return an error and no records. Row-level problems only increase Skipped.
func DecodeLoads(text string) (*DecodeResult, error) {
	lines := nonEmptyLines(sanitizeText(text))
	if len(lines) < 2 {
		return nil, ErrTooFewLines
	}

	headers := splitCSVLine(lines[0])
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.ReplaceAll(h, `"`, ""))
	}

	cols, err := ResolveColumns(headers)
	if err != nil {
		return nil, err
	}

	maxIdx := 0
	for _, idx := range cols {
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	result := &DecodeResult{Columns: cols}
	for _, line := range lines[1:] {
		values := splitCSVLine(line)
		if len(values) < maxIdx+1 {
			result.Skipped++
			continue
		}

		rec := ImportedLoad{
			Status:      strings.ToLower(stripQuotes(values[cols[FieldStatus]])),
			Origin:      stripQuotes(values[cols[FieldOrigin]]),
			Destination: stripQuotes(values[cols[FieldDestination]]),
			ClientName:  stripQuotes(values[cols[FieldClientName]]),
			CarrierName: stripQuotes(values[cols[FieldCarrierName]]),
		}
		rec.ID, rec.HasID = parseLoadID(values[cols[FieldID]])

		if rec.Origin == "" || rec.Destination == "" || rec.ClientName == "" || rec.CarrierName == "" {
			result.Skipped++
			continue
		}

		result.Records = append(result.Records, rec)
	}

	if len(result.Records) == 0 {
		return nil, ErrNoValidRows
	}

	return result, nil
}

// ResolveColumns matches lowercased headers to the logical import fields.
// Returns a *MissingColumnsError naming every unresolved field.
func ResolveColumns(headers []string) (ColumnIndex, error) {
	cols := make(ColumnIndex, len(headerAliases))
	var missing []string

	for _, alias := range headerAliases {
		idx := columnFor(headers, alias.matches)
		if idx < 0 {
			missing = append(missing, alias.field)
			continue
		}
		cols[alias.field] = idx
	}

	if len(missing) > 0 {
		return nil, &MissingColumnsError{Fields: missing}
	}
	return cols, nil
}

// columnFor returns the first header containing the earliest matching
// substring, or -1.
func columnFor(headers []string, matches []string) int {
	for _, m := range matches {
		for i, h := range headers {
			if strings.Contains(h, m) {
				return i
			}
		}
	}
	return -1
}

// splitCSVLine splits on commas outside double quotes.
// Quote characters are dropped and each field is trimmed.
func splitCSVLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	return append(fields, strings.TrimSpace(current.String()))
}

// nonEmptyLines splits text on '\n' and drops blank lines.
func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// sanitizeText drops a leading byte order mark and replaces invalid UTF-8
// sequences so spreadsheet exports decode like plain text.
func sanitizeText(text string) string {
	text = strings.TrimPrefix(text, "\uFEFF")
	if utf8.ValidString(text) {
		return text
	}
	return strings.ToValidUTF8(text, "\uFFFD")
}

func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

// parseLoadID reads a positive integer id. Anything else is reported as absent.
func parseLoadID(s string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// CheckImportFile rejects uploads that are neither named *.csv nor typed text/csv.
func CheckImportFile(name, contentType string) error {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return nil
	}
	mediaType, _, _ := strings.Cut(contentType, ";")
	if strings.EqualFold(strings.TrimSpace(mediaType), "text/csv") {
		return nil
	}
	return ErrNotCSV
}
