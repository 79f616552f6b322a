// Package apiclient talks to the booking API over HTTP. It implements
// wizard.Backend so terminal front-ends can drive a wizard remotely.
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
	"strings"
	"time"

	"github.com/thermalsanctuary/booking-backend/internal/handlers"
	"github.com/thermalsanctuary/booking-backend/internal/models"
	"github.com/thermalsanctuary/booking-backend/internal/wizard"
)

const (
	defaultUserAgent   = "sanctuary-cli/1.0"
	defaultTimeout     = 12 * time.Second
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
)

// Client wraps HTTP access to the booking API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
}

var _ wizard.Backend = (*Client)(nil)

// APIError is returned when the API responds with a non-2xx status
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "booking api error"
	}
	return fmt.Sprintf("booking api error: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// NewClient creates a client for the API rooted at baseURL (for example
// http://localhost:8080/api/v1). If httpClient is nil, a default client is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   defaultUserAgent,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
	}
}

// ListServices fetches the catalog
func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	var out []models.Service
	if err := c.getJSON(ctx, c.baseURL+"/services", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSlots fetches the slot rows of a date
func (c *Client) ListSlots(ctx context.Context, date string) ([]models.TimeSlotCapacity, error) {
	if strings.TrimSpace(date) == "" {
		return nil, errors.New("date is required")
	}
	var out []models.TimeSlotCapacity
	if err := c.getJSON(ctx, c.baseURL+"/slots?date="+url.QueryEscape(date), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSiteConfig fetches the site configuration map
func (c *Client) GetSiteConfig(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	if err := c.getJSON(ctx, c.baseURL+"/site-config", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTicket fetches a ticket by code
func (c *Client) GetTicket(ctx context.Context, code string) (*handlers.TicketResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("ticket code is required")
	}
	var out handlers.TicketResponse
	if err := c.getJSON(ctx, c.baseURL+"/tickets/"+url.PathEscape(code), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTicketPrint fetches the printable HTML of a ticket
func (c *Client) GetTicketPrint(ctx context.Context, code string) ([]byte, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("ticket code is required")
	}
	endpoint := c.baseURL + "/tickets/" + url.PathEscape(code) + "/print"
	res, err := c.do(ctx, http.MethodGet, endpoint, nil, "text/html")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return io.ReadAll(res.Body)
}

// CreateBooking posts the booking once. It is never retried: a lost
// response could otherwise book the party twice. Rejections the API
// answers with a TicketResult come back as a result, not an error.
func (c *Client) CreateBooking(ctx context.Context, req *models.CreateBookingRequest) (*models.TicketResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode booking: %w", err)
	}
	endpoint := c.baseURL + "/bookings"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	switch res.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusBadRequest, http.StatusConflict, http.StatusInternalServerError:
		var result models.TicketResult
		if err := json.Unmarshal(raw, &result); err == nil && (result.Success || result.Error != "") {
			return &result, nil
		}
	}
	return nil, &APIError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Endpoint:   endpoint,
		Body:       strings.TrimSpace(string(raw)),
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	res, err := c.do(ctx, http.MethodGet, endpoint, nil, "application/json")
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

// do sends an idempotent request, retrying network failures, 429 and 5xx
// with capped exponential backoff. The caller closes the body.
func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, accept string) (*http.Response, error) {
	maxAttempts := c.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", accept)

		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return nil, waitErr
				}
				continue
			}
			return nil, fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
			_ = res.Body.Close()

			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   endpoint,
				Body:       strings.TrimSpace(string(snippet)),
			}
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return nil, waitErr
				}
				continue
			}
			return nil, apiErr
		}
		return res, nil
	}

	return nil, errors.New("request failed after retries")
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	timer := time.NewTimer(c.retryDelay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	limit := c.retryCap
	if limit <= 0 {
		limit = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= limit/2 {
			return limit
		}
		delay *= 2
	}
	if delay > limit {
		return limit
	}
	return delay
}
