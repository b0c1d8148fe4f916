package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expensedesk/internal/filter"
	"github.com/GustavoCaso/expensedesk/internal/session"
	"github.com/GustavoCaso/expensedesk/internal/util"
)

// NewNotifier prints user-facing errors to out.
func NewNotifier(out io.Writer) session.Notifier {
	return session.NotifierFunc(func(message string) {
		fmt.Fprintln(out, util.ColorOutput("Error: "+message, "red"))
	})
}

// FilterFlags registers the list filter flags, writing their raw values to in.
func FilterFlags(fs *flag.FlagSet, in *filter.Input) {
	fs.StringVar(&in.Title, "title", "", "only expenses whose title contains this text")
	fs.StringVar(&in.Category, "category", "", "only expenses whose category contains this text")
	fs.StringVar(&in.AmountMin, "min", "", "minimum amount (inclusive)")
	fs.StringVar(&in.AmountMax, "max", "", "maximum amount (inclusive)")
	fs.StringVar(&in.AmountGreaterThan, "gt", "", "amount strictly greater than")
	fs.StringVar(&in.DateFrom, "from", "", "from date YYYY-MM-DD (inclusive)")
	fs.StringVar(&in.DateTo, "to", "", "to date YYYY-MM-DD (inclusive)")
	fs.StringVar(&in.Sort, "sort", "", "sort as field[:asc|desc], field one of title, amount, category, date")
}

// OptionalString is a string flag that remembers whether it was given.
type OptionalString struct {
	Value string
	IsSet bool
}

func (o *OptionalString) String() string {
	if o == nil {
		return ""
	}
	return o.Value
}

func (o *OptionalString) Set(value string) error {
	o.Value = value
	o.IsSet = true
	return nil
}

// Confirm asks question on out and accepts y or yes from in. Anything else,
// including end of input, declines.
func Confirm(in io.Reader, out io.Writer, question string) func() bool {
	return func() bool {
		fmt.Fprintf(out, "%s [y/N] ", question)

		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && answer == "" {
			return false
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}

// Money renders an amount the way every command prints it.
func Money(amount decimal.Decimal, currency string) string {
	return currency + util.FormatMoney(amount, ",", ".")
}
