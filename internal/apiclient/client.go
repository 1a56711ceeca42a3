package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"clinicbook/internal/domain"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// HTTPError is returned for non-2xx responses
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	body := strings.TrimSpace(string(e.Body))
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, body)
}

// IsHTTPError reports whether err wraps an *HTTPError
func IsHTTPError(err error) bool {
	var he *HTTPError
	return errors.As(err, &he)
}

// Client talks to the appointment backend
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a client for baseURL. timeout bounds every request.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListAppointments fetches one page of all appointments
func (c *Client) ListAppointments(ctx context.Context, page, limit int) (*domain.Page, error) {
	return c.listPage(ctx, "/api/appointments", page, limit)
}

// ListPending fetches one page of pending appointments
func (c *Client) ListPending(ctx context.Context, page, limit int) (*domain.Page, error) {
	return c.listPage(ctx, "/appointments/pending", page, limit)
}

func (c *Client) listPage(ctx context.Context, path string, page, limit int) (*domain.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var out domain.Page
	if err := c.getJSON(ctx, c.baseURL+path+"?"+q.Encode(), &out); err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	return &out, nil
}

// SearchICHI searches ICHI procedures
func (c *Client) SearchICHI(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	return c.search(ctx, "/api/ichi/search", query, limit)
}

// SearchICD searches ICD-11 diagnoses
func (c *Client) SearchICD(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	return c.search(ctx, "/api/icd/search", query, limit)
}

func (c *Client) search(ctx context.Context, path, query string, limit int) ([]domain.SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	return c.searchRaw(ctx, c.baseURL+path+"?"+q.Encode())
}

// SearchURL runs a search against a caller-supplied URL prefix that ends in
// the query parameter, e.g. "http://host/api/ichi/search?q="
func (c *Client) SearchURL(ctx context.Context, prefix, query string, limit int) ([]domain.SearchResult, error) {
	return c.searchRaw(ctx, prefix+url.QueryEscape(query)+"&limit="+strconv.Itoa(limit))
}

func (c *Client) searchRaw(ctx context.Context, rawURL string) ([]domain.SearchResult, error) {
	var body json.RawMessage
	if err := c.getJSON(ctx, rawURL, &body); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	results, err := decodeResults(body)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return results, nil
}

// decodeResults accepts {"results":[...]} or a bare array
func decodeResults(body json.RawMessage) ([]domain.SearchResult, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var results []domain.SearchResult
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return nil, fmt.Errorf("decode results: %w", err)
		}
		return results, nil
	}

	var envelope struct {
		Results []domain.SearchResult `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return envelope.Results, nil
}

// BookAppointment submits a FHIR Appointment. For a non-2xx response the
// decoded BookingResult is returned together with an *HTTPError, so callers
// can show the backend's error and details.
func (c *Client) BookAppointment(ctx context.Context, appt *domain.FHIRAppointment) (*domain.BookingResult, error) {
	payload, err := json.Marshal(appt)
	if err != nil {
		return nil, fmt.Errorf("encode appointment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/book-appointment", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("book appointment: %w", err)
	}

	var result domain.BookingResult
	decodeErr := json.Unmarshal(body, &result)

	if status < 200 || status > 299 {
		result.Success = false
		if decodeErr != nil || result.Error == "" {
			result.Error = http.StatusText(status)
		}
		return &result, &HTTPError{StatusCode: status, Body: body}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode booking result: %w", decodeErr)
	}
	return &result, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &HTTPError{StatusCode: status, Body: body}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// do sends req with a fresh request id and returns the status and body
func (c *Client) do(req *http.Request) (int, []byte, error) {
	rid := uuid.NewString()
	req.Header.Set(RequestIDHeader, rid)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).
			Str("request_id", rid).
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Msg("apiclient: request failed")
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	log.Debug().
		Str("request_id", rid).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("apiclient: request")

	return resp.StatusCode, body, nil
}
