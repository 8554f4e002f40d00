package code

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrSubmissionFailed = errors.New("failed to submit code, please check your API key and try again")
	ErrFetchFailed      = errors.New("failed to get submission result")
	ErrPollTimeout      = errors.New("execution timeout, please try again")
)

// Token identifies one submission on the remote service.
type Token string

// Status is the status object embedded in a submission record.
type Status struct {
	ID          StatusID `json:"id"`
	Description string   `json:"description"`
}

// Submission is the raw submission record returned by the remote service.
// Nullable fields stay nil when the service omits them or sends null.
// Time is reported as a decimal string of seconds (e.g. "0.012").
type Submission struct {
	Token         Token        `json:"token,omitempty"`
	Stdout        *string      `json:"stdout"`
	Stderr        *string      `json:"stderr"`
	CompileOutput *string      `json:"compile_output"`
	Message       *string      `json:"message,omitempty"`
	ExitCode      *int         `json:"exit_code,omitempty"`
	Time          *json.Number `json:"time"`
	Memory        *int         `json:"memory"`
	Status        Status       `json:"status"`
}

// ExecutionResult is the normalized outcome of one execute request.
type ExecutionResult struct {
	Success bool     `json:"success"`
	Output  string   `json:"output"`
	Error   string   `json:"error"`
	Status  string   `json:"status"`
	Time    *float64 `json:"time"`
	Memory  *int     `json:"memory"`
}

// Provider is implemented by remote execution backends.
// Submit and Poll can fail; Execute never does and reports failures in the result.
type Provider interface {
	Submit(ctx context.Context, sourceCode string, languageID int, stdin string) (Token, error)
	Poll(ctx context.Context, token Token, maxAttempts int, interval time.Duration) (*Submission, error)
	Execute(ctx context.Context, sourceCode string, languageID int, stdin string) ExecutionResult
}

// Result normalizes a terminal submission record.
func (s *Submission) Result() ExecutionResult {
	res := ExecutionResult{
		Success: s.Status.ID == StatusAccepted,
		Output:  deref(s.Stdout),
		Error:   firstNonEmpty(deref(s.Stderr), deref(s.CompileOutput)),
		Status:  s.Status.Description,
		Memory:  s.Memory,
	}
	if s.Time != nil {
		if f, err := s.Time.Float64(); err == nil {
			res.Time = &f
		}
	}
	return res
}

func failedResult(err error) ExecutionResult {
	msg := err.Error()
	if msg == "" {
		msg = "An unexpected error occurred."
	}
	return ExecutionResult{
		Success: false,
		Error:   msg,
		Status:  "Error",
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
