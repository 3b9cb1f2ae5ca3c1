// Package caller queries the upstream launch provider.
package caller

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public SpaceX API
const DefaultBaseURL = "https://api.spacexdata.com"

// Client is a HTTP client
type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client
}

// NewClient returns a client for base with the given request timeout
func NewClient(base string, timeout time.Duration) (*Client, error) {

	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	return &Client{
		BaseURL:    u,
		HTTPClient: &http.Client{Timeout: timeout},
	}, nil
}

// NewRequest creates a HTTP request
func (c *Client) NewRequest(ctx context.Context, path, method string, body []byte) (*http.Request, error) {

	p, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	u := c.BaseURL.ResolveReference(p)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// Do makes a HTTP request
func (c *Client) Do(req *http.Request) (*http.Response, error) {

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, err
}
