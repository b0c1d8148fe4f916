package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GustavoCaso/expensedesk/internal/expense"
)

// ListKind tells which shape the list endpoint answered with.
type ListKind int

const (
	// KindPaged is {expenses, pagination, summary}.
	KindPaged ListKind = iota
	// KindFlat is a bare JSON array of records.
	KindFlat
)

func (k ListKind) String() string {
	switch k {
	case KindPaged:
		return "paged"
	case KindFlat:
		return "flat"
	default:
		return "unknown"
	}
}

type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalCount int  `json:"total_count"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

type Summary struct {
	TotalSum decimal.Decimal `json:"total_sum"`
	Count    int             `json:"count"`
}

// ListResponse is the list endpoint answer. Exactly one of the two shapes is
// populated, as told by Kind. Sections missing from a paged reply stay nil.
type ListResponse struct {
	Kind ListKind

	Expenses   []expense.Record
	Pagination *Pagination
	Summary    *Summary

	Records []expense.Record
}

type pagedBody struct {
	Expenses   []expense.Record `json:"expenses"`
	Pagination *Pagination      `json:"pagination"`
	Summary    *Summary         `json:"summary"`
}

func decodeList(body []byte) (ListResponse, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ListResponse{}, errors.New("empty body")
	}

	switch trimmed[0] {
	case '[':
		var records []expense.Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return ListResponse{}, err
		}
		return ListResponse{Kind: KindFlat, Records: records}, nil
	case '{':
		var paged pagedBody
		if err := json.Unmarshal(trimmed, &paged); err != nil {
			return ListResponse{}, err
		}
		return ListResponse{
			Kind:       KindPaged,
			Expenses:   paged.Expenses,
			Pagination: paged.Pagination,
			Summary:    paged.Summary,
		}, nil
	default:
		return ListResponse{}, fmt.Errorf("unexpected body starting with %q", trimmed[0])
	}
}

// Mutation is what create, update and delete answer with.
type Mutation struct {
	Message string
	ID      expense.ID
}

func decodeMutation(body []byte) (Mutation, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Mutation{}, nil
	}

	var raw struct {
		Message   string      `json:"message"`
		ExpenseID *expense.ID `json:"expense_id"`
		LegacyID  *expense.ID `json:"Expense_ID"`
		ID        *expense.ID `json:"id"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Mutation{}, err
	}

	m := Mutation{Message: raw.Message}
	for _, id := range []*expense.ID{raw.ExpenseID, raw.LegacyID, raw.ID} {
		if id != nil && *id != "" {
			m.ID = *id
			break
		}
	}

	return m, nil
}

// errorMessage extracts the user-facing message from an error body:
// {"detail": "..."} or {"detail": [{"msg": "..."}, ...]}.
func errorMessage(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		if strings.TrimSpace(detail) == "" {
			return ""
		}
		return detail
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err != nil {
		return ""
	}

	messages := make([]string, 0, len(items))
	for _, item := range items {
		if item.Msg != "" {
			messages = append(messages, item.Msg)
		}
	}

	return strings.Join(messages, "; ")
}
