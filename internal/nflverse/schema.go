package nflverse

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// columnSchema maps logical field names to column positions in one CSV
// asset. nflverse has renamed columns across release generations, so each
// logical field carries an ordered alias list and the schema is resolved
// once per file from its header row, never per record.
type columnSchema struct {
	idx map[string]int
}

// resolveColumns matches each logical field's aliases against the header.
// The first alias present wins. Fields listed in required must resolve.
func resolveColumns(header []string, aliases map[string][]string, required []string) (columnSchema, error) {
	pos := make(map[string]int, len(header))
	for i, col := range header {
		pos[strings.ToLower(strings.TrimSpace(col))] = i
	}

	s := columnSchema{idx: make(map[string]int, len(aliases))}
	for field, names := range aliases {
		for _, name := range names {
			if i, ok := pos[name]; ok {
				s.idx[field] = i
				break
			}
		}
	}
	for _, field := range required {
		if _, ok := s.idx[field]; !ok {
			return columnSchema{}, fmt.Errorf("no column found for %q (aliases %v)", field, aliases[field])
		}
	}
	return s, nil
}

func (s columnSchema) str(record []string, field string) string {
	i, ok := s.idx[field]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// float parses a numeric cell. Absent columns, empty cells, and the "NA"
// marker all decode as zero: a missing stat is a zero stat.
func (s columnSchema) float(record []string, field string) float64 {
	raw := s.str(record, field)
	if raw == "" || raw == "NA" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func (s columnSchema) int(record []string, field string) int {
	return int(s.float(record, field))
}

// parseCSV decodes an asset body and hands each record to fn along with the
// resolved schema. Records with the wrong field count are skipped rather
// than failing the whole asset.
func parseCSV(body []byte, aliases map[string][]string, required []string, fn func(columnSchema, []string)) error {
	r := csv.NewReader(strings.NewReader(string(body)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading CSV header: %w", err)
	}
	schema, err := resolveColumns(header, aliases, required)
	if err != nil {
		return err
	}

	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		if len(record) < len(header)/2 {
			continue
		}
		fn(schema, record)
	}
	return nil
}
