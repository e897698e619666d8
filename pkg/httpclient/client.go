package httpclient

import (
	"net/http"
	"time"
)

// DefaultTimeout covers the server's own SMTP timeout plus some slack
const DefaultTimeout = 30 * time.Second

// Client defines an interface for making HTTP requests
// This allows for easy mocking and testing of HTTP calls
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps the standard http.Client
type StandardHTTPClient struct {
	client    *http.Client
	userAgent string
}

// NewStandardClient creates an HTTP client with the given timeout; zero means DefaultTimeout
func NewStandardClient(timeout time.Duration, userAgent string) Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &StandardHTTPClient{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Do executes an HTTP request, setting the User-Agent when the caller did not
func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.client.Do(req)
}
