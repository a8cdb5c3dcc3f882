package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadCSV reads a comma-delimited, double-quote-escaped file into a header
// row plus data rows. Rows that fail to parse, are completely empty, or don't
// match the header's column count are skipped and counted; they never abort
// the batch.
func ReadCSV(r io.Reader) (header []string, rows [][]string, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err = cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, 0, fmt.Errorf("empty file")
		}
		return nil, nil, 0, fmt.Errorf("failed to read header: %w", err)
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(row) != len(header) || emptyRow(row) {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	return header, rows, skipped, nil
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
