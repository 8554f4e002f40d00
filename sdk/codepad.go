// Package codepad provides a Go client for the codepad HTTP API.
//
// codepad runs source code on a remote Judge0 service and returns the
// program's output, errors, time and memory.
//
// Usage:
//
//	client := codepad.New("http://localhost:8080")
//
//	res, err := client.Execute(ctx, codepad.ExecuteRequest{
//	    SourceCode: `print("Hello, World!")`,
//	    LanguageID: 71,
//	})
//	fmt.Print(res.Output)
package codepad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client is the codepad API client.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// Service accessors
	Languages   *LanguagesService
	Submissions *SubmissionsService
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	c.Languages = &LanguagesService{c: c}
	c.Submissions = &SubmissionsService{c: c}
	return c
}

// Health checks that the codepad server is reachable and healthy.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	return doRequest[HealthResponse](ctx, c, http.MethodGet, "/health", nil, nil, http.StatusOK)
}

// Execute runs the code and waits for the result. Upstream failures are
// reported in the result (Success=false, Status="Error"), not as an error;
// an error means the codepad server itself rejected or failed the request.
func (c *Client) Execute(ctx context.Context, req ExecuteRequest) (*ExecutionResult, error) {
	return doRequest[ExecutionResult](ctx, c, http.MethodPost, "/execute", nil, req, http.StatusOK)
}

// --- internal helpers ---

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("codepad: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doRequest[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any, expectedStatus int) (*T, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		return nil, parseError(resp)
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("codepad: decode response: %w", err)
	}
	return &out, nil
}

func parseError(resp *http.Response) *APIError {
	e := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		e.Message = body.Error
	} else {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
