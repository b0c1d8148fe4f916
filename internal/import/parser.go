package importutil

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GustavoCaso/expensedesk/internal/expense"
)

// ParsedData represents the raw data extracted from a file.
type ParsedData struct {
	Headers []string   // Column headers/field names
	Rows    [][]string // Data rows (all values as strings)
	Format  string     // File format (csv, json or yaml)
}

// ParseFile parses a CSV, JSON or YAML file and extracts headers and rows
// without making assumptions about structure or field mapping.
func ParseFile(filename string, reader io.Reader) (*ParsedData, error) {
	fileFormat := strings.ToLower(path.Ext(filename))

	switch fileFormat {
	case ".csv":
		return parseCSV(reader)
	case ".json":
		var data []map[string]any
		if err := json.NewDecoder(reader).Decode(&data); err != nil {
			return nil, fmt.Errorf("error parsing JSON: %w", err)
		}
		return fromObjects(data, "json")
	case ".yaml", ".yml":
		var data []map[string]any
		if err := yaml.NewDecoder(reader).Decode(&data); err != nil {
			return nil, fmt.Errorf("error parsing YAML: %w", err)
		}
		return fromObjects(data, "yaml")
	default:
		return nil, fmt.Errorf("unsupported file format: %s", fileFormat)
	}
}

// parseCSV reads CSV data and extracts headers and rows.
func parseCSV(reader io.Reader) (*ParsedData, error) {
	r := csv.NewReader(reader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, errors.New("CSV file is empty")
	}

	headers := records[0]
	rows := records[1:]

	if len(rows) == 0 {
		return nil, errors.New("CSV file has no data rows")
	}

	return &ParsedData{
		Headers: headers,
		Rows:    rows,
		Format:  "csv",
	}, nil
}

// fromObjects flattens a list of objects into rows. Headers are the union of
// every object's keys, sorted.
func fromObjects(data []map[string]any, format string) (*ParsedData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s file contains no records", strings.ToUpper(format))
	}

	seen := map[string]bool{}
	headers := []string{}
	for _, record := range data {
		for key := range record {
			if !seen[key] {
				seen[key] = true
				headers = append(headers, key)
			}
		}
	}
	sort.Strings(headers)

	rows := make([][]string, 0, len(data))
	for _, record := range data {
		row := make([]string, len(headers))
		for i, header := range headers {
			switch val := record[header].(type) {
			case nil:
			case time.Time:
				row[i] = val.Format(expense.DateLayout)
			default:
				row[i] = fmt.Sprintf("%v", val)
			}
		}
		rows = append(rows, row)
	}

	return &ParsedData{
		Headers: headers,
		Rows:    rows,
		Format:  format,
	}, nil
}

// GetTotalRows returns the total number of data rows.
func (p *ParsedData) GetTotalRows() int {
	return len(p.Rows)
}
