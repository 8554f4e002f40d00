package codepad

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SubmissionsService provides the two-step submit / fetch operations.
type SubmissionsService struct {
	c *Client
}

// Create submits code without waiting and returns the submission token.
func (s *SubmissionsService) Create(ctx context.Context, req ExecuteRequest) (string, error) {
	out, err := doRequest[CreateSubmissionResponse](ctx, s.c, http.MethodPost, "/submissions", nil, req, http.StatusCreated)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

// GetOptions overrides the server's poll budget for one Get call.
type GetOptions struct {
	MaxAttempts int
	Interval    time.Duration
}

// Get waits (server side) for the submission to finish and returns its record.
// A 504 *APIError means the poll budget ran out before the submission finished.
func (s *SubmissionsService) Get(ctx context.Context, token string, opts *GetOptions) (*Submission, error) {
	query := url.Values{}
	if opts != nil {
		if opts.MaxAttempts > 0 {
			query.Set("max_attempts", strconv.Itoa(opts.MaxAttempts))
		}
		if opts.Interval > 0 {
			query.Set("interval_ms", strconv.FormatInt(opts.Interval.Milliseconds(), 10))
		}
	}
	return doRequest[Submission](ctx, s.c, http.MethodGet, "/submissions/"+url.PathEscape(token), query, nil, http.StatusOK)
}
