// Package api talks to the remote expense API. It issues one request per call,
// with no client-side timeout and no retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GustavoCaso/expensedesk/internal/expense"
	"github.com/GustavoCaso/expensedesk/internal/logger"
	"github.com/GustavoCaso/expensedesk/internal/query"
)

const (
	expensesPath    = "/expenses/"
	requestIDHeader = "X-Request-ID"
)

// ExpenseAPI is the set of calls the client side needs from the remote API.
type ExpenseAPI interface {
	List(ctx context.Context, q query.Descriptor) (ListResponse, error)
	Get(ctx context.Context, id expense.ID) (expense.Record, error)
	Create(ctx context.Context, p expense.Payload) (Mutation, error)
	Update(ctx context.Context, id expense.ID, p expense.Payload) (Mutation, error)
	Delete(ctx context.Context, id expense.ID) (Mutation, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// New builds a client for the API served at baseURL. A nil httpClient uses a
// plain http.Client.
func New(baseURL string, httpClient *http.Client, l *logger.Logger) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: must be absolute", baseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     l.With("component", "api"),
	}, nil
}

func (c *Client) List(ctx context.Context, q query.Descriptor) (ListResponse, error) {
	const op = "list expenses"

	body, err := c.do(ctx, op, http.MethodGet, expensesPath, q.Encode(), nil)
	if err != nil {
		return ListResponse{}, err
	}

	resp, err := decodeList(body)
	if err != nil {
		return ListResponse{}, &DecodingError{Op: op, Err: err}
	}

	return resp, nil
}

func (c *Client) Get(ctx context.Context, id expense.ID) (expense.Record, error) {
	const op = "get expense"

	body, err := c.do(ctx, op, http.MethodGet, recordPath(id), "", nil)
	if err != nil {
		return expense.Record{}, err
	}

	var record expense.Record
	if err = json.Unmarshal(body, &record); err != nil {
		return expense.Record{}, &DecodingError{Op: op, Err: err}
	}

	return record, nil
}

func (c *Client) Create(ctx context.Context, p expense.Payload) (Mutation, error) {
	return c.mutate(ctx, "create expense", http.MethodPost, expensesPath, &p)
}

func (c *Client) Update(ctx context.Context, id expense.ID, p expense.Payload) (Mutation, error) {
	return c.mutate(ctx, "update expense", http.MethodPut, recordPath(id), &p)
}

func (c *Client) Delete(ctx context.Context, id expense.ID) (Mutation, error) {
	return c.mutate(ctx, "delete expense", http.MethodDelete, recordPath(id), nil)
}

func (c *Client) mutate(ctx context.Context, op, method, path string, p *expense.Payload) (Mutation, error) {
	var payload io.Reader
	if p != nil {
		encoded, err := json.Marshal(p)
		if err != nil {
			return Mutation{}, fmt.Errorf("%s: encoding payload: %w", op, err)
		}
		payload = bytes.NewReader(encoded)
	}

	body, err := c.do(ctx, op, method, path, "", payload)
	if err != nil {
		return Mutation{}, err
	}

	m, err := decodeMutation(body)
	if err != nil {
		return Mutation{}, &DecodingError{Op: op, Err: err}
	}

	return m, nil
}

// do sends the request and returns the body of a 2xx reply. Any other reply
// becomes a ServerValidationError or a TransportError.
func (c *Client) do(ctx context.Context, op, method, path, rawQuery string, payload io.Reader) ([]byte, error) {
	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "op", op, "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	c.logger.Debug("request completed",
		"op", op,
		"method", method,
		"path", path,
		"query", rawQuery,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if msg := errorMessage(body); msg != "" {
			return nil, &ServerValidationError{Op: op, StatusCode: resp.StatusCode, Message: msg}
		}
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	return body, nil
}

func recordPath(id expense.ID) string {
	return "/expenses/" + url.PathEscape(id.String())
}
