package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Record is one extract row keyed by header field name.
type Record map[string]string

// Get returns the first non-empty value among the given field names. Header
// names vary between extract format generations (e.g. "Schema" vs "SchemaID"),
// so callers list the accepted spellings in preference order.
func (r Record) Get(fields ...string) string {
	for _, field := range fields {
		if v, ok := r[field]; ok && v != "" {
			return v
		}
	}
	return ""
}

// Has reports whether any of the given field names is present in the record.
func (r Record) Has(fields ...string) bool {
	for _, field := range fields {
		if _, ok := r[field]; ok {
			return true
		}
	}
	return false
}

// ReadRecords parses decoded extract text into header-keyed records.
//
// The delimiter must match the source system's separator exactly or every row
// misparses; the current format uses the not-sign, legacy files comma or tab.
// A blank first physical line (the current structure extract's sentinel) is
// discarded before header parsing. Rows shorter than the header are padded
// with empty values the way a dict reader would.
func ReadRecords(text string, delimiter rune, fileName string, required ...string) ([]Record, error) {
	// Discard the blank sentinel line if present.
	if idx := strings.IndexByte(text, '\n'); idx >= 0 && strings.TrimSpace(text[:idx]) == "" {
		text = text[idx+1:]
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &MissingHeaderError{File: fileName, Fields: required}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse header of %s: %w", fileName, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	if missing := missingFields(header, required); len(missing) > 0 {
		return nil, &MissingHeaderError{File: fileName, Fields: missing}
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse row of %s: %w", fileName, err)
		}

		record := make(Record, len(header))
		for i, field := range header {
			if i < len(row) {
				record[field] = row[i]
			} else {
				record[field] = ""
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// missingFields returns the required names absent from the header. A name
// containing "|" matches if any one of its alternatives is present.
func missingFields(header, required []string) []string {
	present := make(map[string]bool, len(header))
	for _, field := range header {
		present[field] = true
	}

	var missing []string
	for _, req := range required {
		found := false
		for _, alt := range strings.Split(req, "|") {
			if present[alt] {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, req)
		}
	}
	return missing
}
