package etl

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Every file arriving in the raw directory encodes its business date in the
// name: retail_DD_MM_YYYY.csv. Any other prefix or suffix is ignored.
var fileDatePattern = regexp.MustCompile(`retail_(\d{2})_(\d{2})_(\d{4})`)

// requiredFields are the columns a source file must carry. Extra columns are
// tolerated here and dropped at the reorder step of the transformer.
var requiredFields = []string{
	"id",
	"category",
	"description",
	"quantity",
	"amount_excl_tax",
	"amount_inc_tax",
}

// ResolveFileDate derives the ISO transaction date from a source filename.
// Returns FormatError when the name doesn't match the pattern and
// InvalidDateError when the encoded triple isn't a real calendar date.
func ResolveFileDate(filename string) (string, error) {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	m := fileDatePattern.FindStringSubmatch(base)
	if m == nil {
		return "", &FormatError{Filename: base}
	}

	// The pattern guarantees digits, so Atoi cannot fail here.
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	// time.Date normalizes out-of-range components (Feb 31 becomes Mar 3),
	// so a component round-trip is the calendar validity check.
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return "", &InvalidDateError{Day: day, Month: month, Year: year}
	}

	return date.Format("2006-01-02"), nil
}

// Extract reads a source CSV file into a table and resolves its transaction
// date from the filename. The filename is validated before any content is
// read so a misnamed file fails fast. Values are returned as read: coercion
// and renaming belong to the transformer.
func Extract(path string) (*Table, string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, "", &NotFoundError{Path: path}
		}
		return nil, "", err
	}

	transactionDate, err := ResolveFileDate(path)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err != nil {
		return nil, "", &ParseError{Path: path, Reason: "failed to read CSV header", Err: err}
	}

	table := NewTable(header)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, "", &ParseError{Path: path, Reason: "failed to read CSV row", Err: err}
		}

		row := make(Row, len(header))
		for i, field := range header {
			row[field] = record[i]
		}
		table.Append(row)
	}

	if table.Len() == 0 {
		return nil, "", &ParseError{Path: path, Reason: "CSV file has no data rows"}
	}

	if missing := missingFields(table, requiredFields); len(missing) > 0 {
		return nil, "", &SchemaError{Missing: missing}
	}

	return table, transactionDate, nil
}

// missingFields returns every wanted field absent from the table, sorted so
// error messages are deterministic.
func missingFields(t *Table, wanted []string) []string {
	var missing []string
	for _, field := range wanted {
		if !t.HasField(field) {
			missing = append(missing, field)
		}
	}
	sort.Strings(missing)
	return missing
}
