package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/GustavoCaso/expensedesk/internal/expense"
)

const decimalPlaces = 2

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var Formats = []Format{FormatCSV, FormatJSON, FormatYAML}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q: must be one of %v", s, Formats)
}

// Row is an exported expense. Amounts keep two decimals as text.
type Row struct {
	ID       string `json:"id" yaml:"id"`
	Date     string `json:"date" yaml:"date"`
	Title    string `json:"title" yaml:"title"`
	Category string `json:"category" yaml:"category"`
	Amount   string `json:"amount" yaml:"amount"`
}

func toRow(r expense.Record) Row {
	return Row{
		ID:       r.ID.String(),
		Date:     r.Date.String(),
		Title:    r.Title,
		Category: r.Category,
		Amount:   r.Amount.StringFixed(decimalPlaces),
	}
}

func toRows(records []expense.Record) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = toRow(r)
	}
	return rows
}

// Write encodes records to writer in format.
func Write(writer io.Writer, format Format, records []expense.Record) error {
	switch format {
	case FormatCSV:
		return CSV(writer, records)
	case FormatJSON:
		return JSON(writer, records)
	case FormatYAML:
		return YAML(writer, records)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// CSV exports expenses to CSV format
// format: ID,Date,Title,Category,Amount
func CSV(writer io.Writer, records []expense.Record) error {
	w := csv.NewWriter(writer)

	lines := make([][]string, 0, len(records)+1)
	lines = append(lines, []string{"ID", "Date", "Title", "Category", "Amount"})

	for _, row := range toRows(records) {
		lines = append(lines, []string{row.ID, row.Date, row.Title, row.Category, row.Amount})
	}

	if err := w.WriteAll(lines); err != nil {
		return fmt.Errorf("failed to write CSV records: %w", err)
	}

	return nil
}

func JSON(writer io.Writer, records []expense.Record) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toRows(records)); err != nil {
		return fmt.Errorf("failed to write JSON records: %w", err)
	}
	return nil
}

func YAML(writer io.Writer, records []expense.Record) error {
	enc := yaml.NewEncoder(writer)
	enc.SetIndent(2)
	if err := enc.Encode(toRows(records)); err != nil {
		return fmt.Errorf("failed to write YAML records: %w", err)
	}
	return enc.Close()
}
