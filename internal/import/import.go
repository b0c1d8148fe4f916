package importutil

import (
	"context"
	"fmt"
	"io"

	"github.com/GustavoCaso/expensedesk/internal/api"
	"github.com/GustavoCaso/expensedesk/internal/category"
	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/logger"
)

// Result lists the expenses created and every row that was skipped.
type Result struct {
	Created []expense.ID
	Errors  []error
}

// Import creates one expense per row of the file. Rows that fail to map,
// validate or save are reported in Result.Errors and the rest still go
// through. The returned error is only set when the file itself is unusable.
func Import(
	ctx context.Context,
	filename string,
	reader io.Reader,
	client api.ExpenseAPI,
	categoryMatcher *category.Matcher,
	l *logger.Logger,
) (Result, error) {
	var result Result

	data, err := ParseFile(filename, reader)
	if err != nil {
		return result, err
	}

	mapping, err := DetectMapping(data.Headers)
	if err != nil {
		return result, err
	}

	mapped, err := ApplyMapping(data, mapping, categoryMatcher)
	if err != nil {
		return result, err
	}
	result.Errors = append(result.Errors, mapped.Errors...)

	for _, row := range mapped.Rows {
		if err = ctx.Err(); err != nil {
			return result, err
		}

		payload, payloadErr := row.Form.Payload()
		if payloadErr != nil {
			result.Errors = append(result.Errors, &RowError{Row: row.Row, Err: payloadErr})
			continue
		}

		m, createErr := client.Create(ctx, payload)
		if createErr != nil {
			l.Warn("failed to import row", "row", row.Row, "error", createErr)
			result.Errors = append(result.Errors, &RowError{Row: row.Row, Err: createErr})
			continue
		}

		result.Created = append(result.Created, m.ID)
	}

	l.Info("import finished",
		"file", filename,
		"format", data.Format,
		"rows", data.GetTotalRows(),
		"created", len(result.Created),
		"errors", len(result.Errors),
	)

	return result, nil
}

// Summary renders the one line outcome of an import.
func (r Result) Summary() string {
	return fmt.Sprintf("%d expenses imported, %d rows skipped", len(r.Created), len(r.Errors))
}
