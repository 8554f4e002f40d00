package codepad

import "encoding/json"

// HealthResponse is returned by the /health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// --- Languages ---

// Language describes a supported language.
type Language struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Label         string `json:"label"`
	EditorMode    string `json:"editor_mode"`
	DefaultSource string `json:"default_source"`
}

// --- Execution ---

// ExecuteRequest is the body of POST /execute and POST /submissions.
type ExecuteRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin,omitempty"`
}

// ExecutionResult is the normalized outcome returned by POST /execute.
// Time is in seconds and Memory in kilobytes; both are nil when not reported.
type ExecutionResult struct {
	Success bool     `json:"success"`
	Output  string   `json:"output"`
	Error   string   `json:"error"`
	Status  string   `json:"status"`
	Time    *float64 `json:"time"`
	Memory  *int     `json:"memory"`
}

// --- Submissions ---

// CreateSubmissionResponse is returned by POST /submissions.
type CreateSubmissionResponse struct {
	Token string `json:"token"`
}

// SubmissionStatus is the status object of a submission record.
type SubmissionStatus struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Submission is the raw record returned by GET /submissions/:token.
type Submission struct {
	Token         string           `json:"token"`
	Stdout        *string          `json:"stdout"`
	Stderr        *string          `json:"stderr"`
	CompileOutput *string          `json:"compile_output"`
	Message       *string          `json:"message,omitempty"`
	ExitCode      *int             `json:"exit_code,omitempty"`
	Time          *json.Number     `json:"time"`
	Memory        *int             `json:"memory"`
	Status        SubmissionStatus `json:"status"`
}

// Status ids reported by the remote service.
const (
	StatusInQueue    = 1
	StatusProcessing = 2
	StatusAccepted   = 3
)
