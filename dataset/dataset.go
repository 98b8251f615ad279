// Package dataset loads record collections from CSV files into the
// attribute shape the core indexes consume. It is the data-loading
// collaborator: all parsing and column cleaning happens here, never
// inside the index packages.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/SaviorKas/multidex/model"
)

// Load reads CSV rows into records against schema. The first row must
// be a header naming every schema attribute. Rows whose numeric cells
// do not parse are dropped; the second return value counts them.
// Identifiers are assigned in retained-row order.
func Load(r io.Reader, schema model.Schema) ([]model.Record, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("dataset: read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	for _, name := range schema.NumericDimensions {
		if _, ok := cols[name]; !ok {
			return nil, 0, fmt.Errorf("dataset: missing numeric column %q", name)
		}
	}
	for _, name := range append(append([]string{}, schema.TextAttributes...), schema.MetadataAttributes...) {
		if _, ok := cols[name]; !ok {
			return nil, 0, fmt.Errorf("dataset: missing column %q", name)
		}
	}

	var records []model.Record
	skipped := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("dataset: read row: %w", err)
		}

		numeric, ok := parseNumeric(row, cols, schema.NumericDimensions)
		if !ok {
			skipped++
			continue
		}

		rec := model.Record{
			ID:      model.RecordID(len(records)),
			Numeric: numeric,
			Meta:    make(map[string]string, len(schema.MetadataAttributes)),
			Text:    make(map[string]string, len(schema.TextAttributes)),
		}
		for _, name := range schema.MetadataAttributes {
			rec.Meta[name] = cell(row, cols[name])
		}
		for _, name := range schema.TextAttributes {
			rec.Text[name] = cell(row, cols[name])
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

// LoadFile loads a CSV file from disk.
func LoadFile(path string, schema model.Schema) ([]model.Record, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()
	return Load(f, schema)
}

func parseNumeric(row []string, cols map[string]int, dims []string) ([]float64, bool) {
	numeric := make([]float64, len(dims))
	for i, name := range dims {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell(row, cols[name])), 64)
		if err != nil {
			return nil, false
		}
		numeric[i] = v
	}
	return numeric, true
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
