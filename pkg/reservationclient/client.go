// Package reservationclient posts reservation payloads to the reservation
// endpoint and classifies the outcome. It never returns an error: every
// call yields a Result.
package reservationclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/letiskotransfer/transfer-api/internal/models"
	"github.com/letiskotransfer/transfer-api/pkg/httpclient"
	"github.com/letiskotransfer/transfer-api/pkg/logger"
)

// ReservationPath is the endpoint path relative to the API base URL
const ReservationPath = "/api/reservation"

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 1 << 20

// Kind classifies a submission outcome
type Kind string

const (
	KindSuccess      Kind = "success"
	KindServerError  Kind = "server_error"
	KindNetworkError Kind = "network_error"
)

// Result is the outcome of one submission
type Result struct {
	Kind Kind

	// Status is the HTTP status code; zero for network errors
	Status int

	// Errors is the server's error tree when it sent one
	Errors *models.ErrorTree

	// Err is the underlying transport or decoding problem, if any
	Err error
}

// OK reports whether the reservation was accepted
func (r *Result) OK() bool {
	return r.Kind == KindSuccess
}

// Message returns the most specific server-supplied form-level message, or ""
func (r *Result) Message() string {
	if r.Errors != nil && len(r.Errors.Errors) > 0 {
		return r.Errors.Errors[0]
	}
	return ""
}

// Client submits reservations over HTTP
type Client struct {
	endpoint string
	http     httpclient.Client
}

// New creates a client for the API at baseURL
func New(baseURL string, httpClient httpclient.Client) *Client {
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + ReservationPath,
		http:     httpClient,
	}
}

// Submit POSTs payload as JSON. A response that is not 2xx, or whose body has
// "ok": false, is a server error; no response at all is a network error.
func (c *Client) Submit(ctx context.Context, payload any) *Result {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Result{Kind: KindNetworkError, Err: fmt.Errorf("encode payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &Result{Kind: KindNetworkError, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("Reservation request failed", zap.String("endpoint", c.endpoint), zap.Error(err))
		return &Result{Kind: KindNetworkError, Err: err}
	}
	defer resp.Body.Close()

	return classify(resp)
}

func classify(resp *http.Response) *Result {
	result := &Result{Status: resp.StatusCode}

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	var decoded models.ReservationResponse
	decodeErr := json.Unmarshal(raw, &decoded)
	if readErr == nil && decodeErr == nil {
		result.Errors = decoded.Errors
	}

	switch {
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		result.Kind = KindServerError
		result.Err = fmt.Errorf("reservation endpoint returned HTTP %d", resp.StatusCode)
	case readErr != nil:
		result.Kind = KindServerError
		result.Err = fmt.Errorf("read response: %w", readErr)
	case decodeErr != nil:
		result.Kind = KindServerError
		result.Err = fmt.Errorf("decode response: %w", decodeErr)
	case !decoded.OK:
		result.Kind = KindServerError
		result.Err = fmt.Errorf("reservation rejected")
	default:
		result.Kind = KindSuccess
	}
	return result
}
