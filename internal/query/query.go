// Package query encodes the filter and page state into the query string the
// expense API understands. It does no validation beyond "is the field set".
package query

import (
	"net/url"
	"strconv"

	"github.com/GustavoCaso/expensedesk/internal/filter"
	"github.com/GustavoCaso/expensedesk/internal/pager"
)

// Query parameter names recognized by the API.
const (
	ParamPage              = "page"
	ParamPageSize          = "page_size"
	ParamCategory          = "category"
	ParamTitle             = "title"
	ParamSortBy            = "sort_by"
	ParamSortOrder         = "sort_order"
	ParamAmountMin         = "amount_min"
	ParamAmountMax         = "amount_max"
	ParamAmountGreaterThan = "amount_greater_than"
	ParamDateFrom          = "date_from"
	ParamDateTo            = "date_to"
)

// Descriptor is the canonical list request.
type Descriptor struct {
	values url.Values
}

// Build always includes page and page_size, and every other parameter only
// when the user set it.
func Build(f filter.ExpenseFilter, p pager.State) Descriptor {
	v := url.Values{}

	v.Set(ParamPage, strconv.Itoa(p.Current))
	v.Set(ParamPageSize, strconv.Itoa(p.Size))

	if f.Category != "" {
		v.Set(ParamCategory, f.Category)
	}
	if f.Title != "" {
		v.Set(ParamTitle, f.Title)
	}

	if f.Sort.IsSet() {
		direction := f.Sort.Direction
		if direction == "" {
			direction = filter.SortAsc
		}
		v.Set(ParamSortBy, string(f.Sort.Field))
		v.Set(ParamSortOrder, string(direction))
	}

	if f.AmountMin != nil {
		v.Set(ParamAmountMin, f.AmountMin.String())
	}
	if f.AmountMax != nil {
		v.Set(ParamAmountMax, f.AmountMax.String())
	}
	if f.AmountGreaterThan != nil {
		v.Set(ParamAmountGreaterThan, f.AmountGreaterThan.String())
	}

	if f.DateFrom != nil {
		v.Set(ParamDateFrom, f.DateFrom.String())
	}
	if f.DateTo != nil {
		v.Set(ParamDateTo, f.DateTo.String())
	}

	return Descriptor{values: v}
}

// Encode returns the query string with keys in sorted order.
func (d Descriptor) Encode() string {
	return d.values.Encode()
}

func (d Descriptor) Get(key string) string {
	return d.values.Get(key)
}

func (d Descriptor) Has(key string) bool {
	return d.values.Has(key)
}

// Values returns a copy of the parameters.
func (d Descriptor) Values() url.Values {
	out := make(url.Values, len(d.values))
	for k, vs := range d.values {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func (d Descriptor) String() string {
	return d.Encode()
}
