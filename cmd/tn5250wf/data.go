package main

import (
	"encoding/csv"
	"fmt"
	"os"
)

// loadDataRows reads a CSV data file: the first line is the header,
// giving the column names later steps reference via ${data.X}; every
// subsequent line becomes one row. Parsing the data file itself is
// CLI plumbing, not the workflow engine's concern (it receives rows
// already as maps).
func loadDataRows(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing data file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("data file has no header row")
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("data file row %d: expected %d columns, got %d", i+1, len(header), len(record))
		}
		row := make(map[string]string, len(header))
		for j, col := range header {
			row[col] = record[j]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// primaryKeyColumn returns the data column used to name a row's
// artifact directory, preferring a column named exactly "id", "ID" or
// "Id" over bare row-index naming.
func primaryKeyColumn(row map[string]string) (string, bool) {
	for _, candidate := range []string{"id", "ID", "Id"} {
		if v, ok := row[candidate]; ok {
			return v, true
		}
	}
	return "", false
}
