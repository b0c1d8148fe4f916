// Package expense holds the records served by the remote expense API and the
// payload sent back to it on create and update.
package expense

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ID is an opaque record identifier. The API may send it as a number or a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid expense id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar date of now in the local timezone.
func Today(now time.Time) Date {
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate accepts YYYY-MM-DD and falls back to RFC3339.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		var rfcErr error
		t, rfcErr = time.Parse(time.RFC3339, s)
		if rfcErr != nil {
			return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
		}
	}

	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid date %s: %w", data, err)
	}

	if s == "" {
		*d = Date{}
		return nil
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Record is an expense as returned by the API.
type Record struct {
	ID        ID              `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Date      Date            `json:"date"`
	IsDeleted bool            `json:"is_deleted"`
}

// Payload is the body of create and update requests.
type Payload struct {
	Title     string
	Amount    decimal.Decimal
	Category  string
	Date      Date
	IsDeleted bool
}

// MarshalJSON encodes the amount as a JSON number rather than the quoted
// string decimal.Decimal produces by default.
func (p Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title     string      `json:"title"`
		Amount    json.Number `json:"amount"`
		Category  string      `json:"category"`
		Date      Date        `json:"date"`
		IsDeleted bool        `json:"is_deleted"`
	}{
		Title:     p.Title,
		Amount:    json.Number(p.Amount.String()),
		Category:  p.Category,
		Date:      p.Date,
		IsDeleted: p.IsDeleted,
	})
}

// Sum adds up the amounts of the given records.
func Sum(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

// ParseID validates an identifier typed by the user.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("expense id cannot be empty")
	}

	if strings.ContainsAny(s, "/?#") {
		return "", fmt.Errorf("invalid expense id %q", s)
	}

	return ID(s), nil
}
