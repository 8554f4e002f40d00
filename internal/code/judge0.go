package code

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gsarma/codepad/internal/language"
	"github.com/gsarma/codepad/internal/metrics"
)

const (
	DefaultMaxAttempts  = 10
	DefaultPollInterval = time.Second
)

// Judge0Config holds the connection settings for a Judge0 CE instance.
// URL is the base URL (e.g. "https://judge0-ce.p.rapidapi.com").
// APIKey and APIHost are sent as X-RapidAPI-Key / X-RapidAPI-Host for the hosted API;
// AuthToken is sent as X-Auth-Token for self-hosted instances with AUTHN_TOKEN set.
type Judge0Config struct {
	URL          string
	APIKey       string
	APIHost      string
	AuthToken    string
	MaxAttempts  int
	PollInterval time.Duration
	Timeout      time.Duration
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option configures a Judge0Client.
type Option func(*Judge0Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Judge0Client) {
		c.client = hc
	}
}

// WithSleeper replaces the wait between poll attempts.
func WithSleeper(s Sleeper) Option {
	return func(c *Judge0Client) {
		c.sleep = s
	}
}

// WithLogger sets the logger used for poll progress and failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Judge0Client) {
		c.logger = l
	}
}

// Judge0Client talks to the Judge0 submissions API.
type Judge0Client struct {
	url         string
	apiKey      string
	apiHost     string
	authToken   string
	maxAttempts int
	interval    time.Duration
	client      *http.Client
	sleep       Sleeper
	logger      *slog.Logger
}

var _ Provider = (*Judge0Client)(nil)

// NewJudge0Client constructs a Judge0Client from the given config.
// Zero attempt, interval and timeout values fall back to the package defaults.
func NewJudge0Client(cfg Judge0Config, opts ...Option) *Judge0Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Judge0Client{
		url:         strings.TrimRight(cfg.URL, "/"),
		apiKey:      cfg.APIKey,
		apiHost:     cfg.APIHost,
		authToken:   cfg.AuthToken,
		maxAttempts: cfg.MaxAttempts,
		interval:    cfg.PollInterval,
		client:      &http.Client{Timeout: timeout},
		sleep:       sleepContext,
		logger:      slog.Default(),
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if c.interval <= 0 {
		c.interval = DefaultPollInterval
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Submit sends source code to Judge0 without waiting for it to run and
// returns the submission token.
func (c *Judge0Client) Submit(ctx context.Context, sourceCode string, languageID int, stdin string) (Token, error) {
	start := time.Now()
	token, err := c.submit(ctx, sourceCode, languageID, stdin)
	observe("submit", start, err)
	if err != nil {
		c.logger.Warn("judge0: submit failed", "language_id", languageID, "err", err)
		return "", fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	c.logger.Debug("judge0: submitted", "language_id", languageID, "token", token)
	return token, nil
}

func (c *Judge0Client) submit(ctx context.Context, sourceCode string, languageID int, stdin string) (Token, error) {
	bodyJSON, err := json.Marshal(map[string]interface{}{
		"source_code": sourceCode,
		"language_id": languageID,
		"stdin":       stdin,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost,
		"/submissions?base64_encoded=false&wait=false", bytes.NewReader(bodyJSON))
	if err != nil {
		return "", err
	}

	var out struct {
		Token Token `json:"token"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("judge0 response has no token")
	}
	return out.Token, nil
}

// Fetch retrieves the current submission record for token.
func (c *Judge0Client) Fetch(ctx context.Context, token Token) (*Submission, error) {
	start := time.Now()
	sub, err := c.fetch(ctx, token)
	observe("fetch", start, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return sub, nil
}

func (c *Judge0Client) fetch(ctx context.Context, token Token) (*Submission, error) {
	req, err := c.newRequest(ctx, http.MethodGet,
		"/submissions/"+url.PathEscape(string(token))+"?base64_encoded=false", nil)
	if err != nil {
		return nil, err
	}
	var sub Submission
	if err := c.do(req, &sub); err != nil {
		return nil, err
	}
	if sub.Token == "" {
		sub.Token = token
	}
	return &sub, nil
}

// Poll fetches the submission until it reaches a terminal status, making at
// most maxAttempts fetches with interval between them. Non-positive arguments
// use the client's configured defaults. Fetch errors are returned immediately.
func (c *Judge0Client) Poll(ctx context.Context, token Token, maxAttempts int, interval time.Duration) (*Submission, error) {
	if maxAttempts <= 0 {
		maxAttempts = c.maxAttempts
	}
	if interval <= 0 {
		interval = c.interval
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		sub, err := c.Fetch(ctx, token)
		if err != nil {
			return nil, err
		}
		if sub.Status.ID.Terminal() {
			metrics.PollAttempts.Observe(float64(attempt))
			return sub, nil
		}
		c.logger.Debug("judge0: submission pending",
			"token", token, "attempt", attempt, "phase", sub.Status.ID.Phase().String())
		if attempt == maxAttempts {
			break
		}
		if err := c.sleep(ctx, interval); err != nil {
			return nil, err
		}
	}

	metrics.PollTimeouts.Inc()
	c.logger.Warn("judge0: poll budget exhausted", "token", token, "attempts", maxAttempts)
	return nil, fmt.Errorf("%w (no result after %d attempts)", ErrPollTimeout, maxAttempts)
}

// Execute submits the code, polls with the configured defaults and normalizes
// the outcome. Every failure is reported in the result with Status "Error".
func (c *Judge0Client) Execute(ctx context.Context, sourceCode string, languageID int, stdin string) ExecutionResult {
	lang := languageLabel(languageID)

	token, err := c.Submit(ctx, sourceCode, languageID, stdin)
	if err != nil {
		metrics.ExecutionsTotal.WithLabelValues(lang, "error").Inc()
		return failedResult(err)
	}

	sub, err := c.Poll(ctx, token, c.maxAttempts, c.interval)
	if err != nil {
		c.logger.Warn("judge0: execution failed", "token", token, "err", err)
		metrics.ExecutionsTotal.WithLabelValues(lang, "error").Inc()
		return failedResult(err)
	}

	res := sub.Result()
	outcome := "rejected"
	if res.Success {
		outcome = "accepted"
	}
	metrics.ExecutionsTotal.WithLabelValues(lang, outcome).Inc()
	return res
}

func (c *Judge0Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
	}
	if c.apiHost != "" {
		req.Header.Set("X-RapidAPI-Host", c.apiHost)
	}
	if c.authToken != "" {
		req.Header.Set("X-Auth-Token", c.authToken)
	}
	return req, nil
}

func (c *Judge0Client) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("judge0 request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("judge0 returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode judge0 response: %w", err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func observe(endpoint string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.UpstreamDuration.WithLabelValues(endpoint, result).Observe(time.Since(start).Seconds())
}

// languageLabel keeps metric cardinality bounded to registered languages.
func languageLabel(id int) string {
	if d, ok := language.ByID(id); ok {
		return d.Name
	}
	return "other"
}
