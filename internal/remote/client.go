// Package remote is the query client for the managed data service that
// owns all directory records. It speaks the service's PostgREST surface:
// one resource path per table, filters as query parameters, JSON arrays
// in and out. No storage or auth logic lives in this codebase — the
// client only carries keys the service itself validates.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// ErrReadOnly is returned for mutations when no write key is configured.
// The message matches what the service shows for denied access.
var ErrReadOnly = errors.New("دسترسی محدود شده است!")

// Error is a failure reported by the data service.
type Error struct {
	Code       string
	Message    string
	Details    string
	Hint       string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("remote error (status %d)", e.StatusCode)
}

// Options configures a Client.
type Options struct {
	ServiceURL   string
	AnonKey      string
	WriteKey     string
	SessionToken string
	Timeout      time.Duration
	Logger       *logrus.Logger
}

// Client talks to one data service project.
type Client struct {
	restURL      string
	authURL      string
	anonKey      string
	writeKey     string
	sessionToken string
	http         *retryablehttp.Client
}

// New builds a client from options. ServiceURL and AnonKey are required.
func New(opts Options) (*Client, error) {
	if opts.ServiceURL == "" {
		return nil, errors.New("service URL is required")
	}
	if opts.AnonKey == "" {
		return nil, errors.New("anon key is required")
	}

	base := strings.TrimRight(opts.ServiceURL, "/")
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid service URL: %w", err)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	hc := retryablehttp.NewClient()
	hc.RetryMax = 3
	hc.HTTPClient.Timeout = timeout
	// Keep the final response when retries run out so the service's
	// error body still reaches the caller.
	hc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Logger != nil {
		hc.Logger = opts.Logger
	} else {
		hc.Logger = nil
	}

	return &Client{
		restURL:      base + "/rest/v1",
		authURL:      base + "/auth/v1",
		anonKey:      opts.AnonKey,
		writeKey:     opts.WriteKey,
		sessionToken: opts.SessionToken,
		http:         hc,
	}, nil
}

// CanWrite reports whether mutations are possible with this client.
func (c *Client) CanWrite() bool {
	return c.writeKey != ""
}

// List fetches all rows of table ordered by created_at descending into
// dest, which must be a pointer to a slice.
func (c *Client) List(ctx context.Context, table string, dest any) error {
	return c.ListSelect(ctx, table, "*", dest)
}

// ListSelect is List with an explicit column/embedding selection, e.g.
// "*,category(*)" to embed a doctor's category relation.
func (c *Client) ListSelect(ctx context.Context, table, sel string, dest any) error {
	q := url.Values{}
	q.Set("select", sel)
	q.Set("order", "created_at.desc")

	body, err := c.do(ctx, http.MethodGet, table, q, nil, c.anonKey, "")
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dest)
}

// FetchOne fetches the row of table with the given id. A missing row is
// reported as a nil map with a nil error; the caller decides what absence
// means.
func (c *Client) FetchOne(ctx context.Context, table, id string) (map[string]any, error) {
	return c.fetchBy(ctx, table, "id", id)
}

// FetchBySlug fetches a row by its slug column.
func (c *Client) FetchBySlug(ctx context.Context, table, slug string) (map[string]any, error) {
	return c.fetchBy(ctx, table, "slug", slug)
}

func (c *Client) fetchBy(ctx context.Context, table, column, value string) (map[string]any, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set(column, "eq."+value)
	q.Set("limit", "1")

	body, err := c.do(ctx, http.MethodGet, table, q, nil, c.anonKey, "")
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode %s row: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// CreateRow inserts fields into table and returns the created row.
func (c *Client) CreateRow(ctx context.Context, table string, fields map[string]any) (map[string]any, error) {
	if !c.CanWrite() {
		return nil, ErrReadOnly
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodPost, table, nil, payload, c.writeKey, "return=representation")
	if err != nil {
		return nil, err
	}
	return firstRow(body)
}

// UpdateRow patches the row of table with the given id.
func (c *Client) UpdateRow(ctx context.Context, table, id string, fields map[string]any) (map[string]any, error) {
	if !c.CanWrite() {
		return nil, ErrReadOnly
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("id", "eq."+id)
	body, err := c.do(ctx, http.MethodPatch, table, q, payload, c.writeKey, "return=representation")
	if err != nil {
		return nil, err
	}
	return firstRow(body)
}

// DeleteRow removes the row of table with the given id.
func (c *Client) DeleteRow(ctx context.Context, table, id string) error {
	if !c.CanWrite() {
		return ErrReadOnly
	}
	q := url.Values{}
	q.Set("id", "eq."+id)
	_, err := c.do(ctx, http.MethodDelete, table, q, nil, c.writeKey, "")
	return err
}

// UserID resolves the authenticated user behind the configured session
// token. Without a token it returns the empty string: anonymous requests
// are valid, they just carry a null user_id.
func (c *Client) UserID(ctx context.Context) (string, error) {
	if c.sessionToken == "" {
		return "", nil
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.authURL+"/user", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.sessionToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", parseError(body, resp.StatusCode)
	}
	return gjson.GetBytes(body, "id").String(), nil
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, payload []byte, key, prefer string) ([]byte, error) {
	endpoint := c.restURL + "/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s failed: %w", method, table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, parseError(body, resp.StatusCode)
	}
	return body, nil
}

// parseError lifts the service's error shape (code/message/details/hint)
// out of a failure body.
func parseError(body []byte, status int) error {
	e := &Error{StatusCode: status}
	if !gjson.ValidBytes(body) {
		e.Message = strings.TrimSpace(string(body))
		return e
	}

	e.Code = gjson.GetBytes(body, "code").String()
	e.Details = gjson.GetBytes(body, "details").String()
	e.Hint = gjson.GetBytes(body, "hint").String()
	for _, field := range []string{"message", "error_description", "error", "msg"} {
		if v := gjson.GetBytes(body, field).String(); v != "" {
			e.Message = v
			break
		}
	}
	return e
}

func firstRow(body []byte) (map[string]any, error) {
	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		// Some endpoints answer with a bare object.
		var row map[string]any
		if err2 := json.Unmarshal(body, &row); err2 == nil {
			return row, nil
		}
		return nil, fmt.Errorf("decode mutation result: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
