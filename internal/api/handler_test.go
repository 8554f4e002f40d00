package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/limiter"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubProvider implements code.Provider for api handler tests.
type stubProvider struct {
	submitFn  func(ctx context.Context, src string, langID int, stdin string) (code.Token, error)
	pollFn    func(ctx context.Context, token code.Token, maxAttempts int, interval time.Duration) (*code.Submission, error)
	executeFn func(ctx context.Context, src string, langID int, stdin string) code.ExecutionResult
}

func (s *stubProvider) Submit(ctx context.Context, src string, langID int, stdin string) (code.Token, error) {
	if s.submitFn != nil {
		return s.submitFn(ctx, src, langID, stdin)
	}
	return "tok", nil
}
func (s *stubProvider) Poll(ctx context.Context, token code.Token, maxAttempts int, interval time.Duration) (*code.Submission, error) {
	if s.pollFn != nil {
		return s.pollFn(ctx, token, maxAttempts, interval)
	}
	return &code.Submission{Token: token, Status: code.Status{ID: code.StatusAccepted, Description: "Accepted"}}, nil
}
func (s *stubProvider) Execute(ctx context.Context, src string, langID int, stdin string) code.ExecutionResult {
	if s.executeFn != nil {
		return s.executeFn(ctx, src, langID, stdin)
	}
	return code.ExecutionResult{Success: true, Status: "Accepted"}
}

// Compile-time interface check.
var _ code.Provider = (*stubProvider)(nil)

func newRouter(p code.Provider) *gin.Engine {
	r := gin.New()
	h := NewHandler(p, slog.New(slog.NewTextHandler(io.Discard, nil)))
	RegisterRoutes(r, h, limiter.New(1000, 1000))
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --- Health / languages ---

func TestHealth(t *testing.T) {
	w := doJSON(newRouter(&stubProvider{}), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if _, err := uuid.Parse(w.Header().Get("X-Request-ID")); err != nil {
		t.Errorf("expected a generated request id, got %q", w.Header().Get("X-Request-ID"))
	}
}

func TestRequestID_Propagated(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", id)
	w := httptest.NewRecorder()
	newRouter(&stubProvider{}).ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != id {
		t.Errorf("expected request id %s to be echoed, got %s", id, got)
	}
}

func TestListLanguages(t *testing.T) {
	w := doJSON(newRouter(&stubProvider{}), http.MethodGet, "/languages", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Languages []map[string]interface{} `json:"languages"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Languages) != 5 {
		t.Errorf("expected 5 languages, got %d", len(resp.Languages))
	}
}

func TestGetLanguage(t *testing.T) {
	r := newRouter(&stubProvider{})
	cases := []struct {
		path string
		code int
	}{
		{"/languages/71", http.StatusOK},
		{"/languages/9999", http.StatusNotFound},
		{"/languages/python", http.StatusBadRequest},
	}
	for _, tc := range cases {
		w := doJSON(r, http.MethodGet, tc.path, nil)
		if w.Code != tc.code {
			t.Errorf("%s: expected %d, got %d", tc.path, tc.code, w.Code)
		}
	}

	w := doJSON(r, http.MethodGet, "/languages/71", nil)
	var d map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &d)
	if d["editor_mode"] != "python" {
		t.Errorf("expected editor_mode=python, got %v", d["editor_mode"])
	}
}

// --- Execute ---

func TestExecuteCode_ReturnsResult(t *testing.T) {
	var gotSrc, gotStdin string
	var gotLang int
	p := &stubProvider{executeFn: func(_ context.Context, src string, langID int, stdin string) code.ExecutionResult {
		gotSrc, gotLang, gotStdin = src, langID, stdin
		return code.ExecutionResult{Success: true, Output: "Hello, World!\n", Status: "Accepted"}
	}}
	w := doJSON(newRouter(p), http.MethodPost, "/execute", map[string]interface{}{
		"source_code": `print("Hello, World!")`, "language_id": 71,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res code.ExecutionResult
	json.Unmarshal(w.Body.Bytes(), &res)
	if !res.Success || res.Output != "Hello, World!\n" {
		t.Errorf("unexpected result %+v", res)
	}
	if gotSrc != `print("Hello, World!")` || gotLang != 71 || gotStdin != "" {
		t.Errorf("provider got src=%q lang=%d stdin=%q", gotSrc, gotLang, gotStdin)
	}
}

func TestExecuteCode_FailureIsStill200(t *testing.T) {
	p := &stubProvider{executeFn: func(context.Context, string, int, string) code.ExecutionResult {
		return code.ExecutionResult{Error: "execution timeout", Status: "Error"}
	}}
	w := doJSON(newRouter(p), http.MethodPost, "/execute", map[string]interface{}{
		"source_code": "x", "language_id": 50,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &res)
	if res["success"] != false || res["status"] != "Error" {
		t.Errorf("unexpected body %v", res)
	}
}

func TestExecuteCode_Validation(t *testing.T) {
	called := false
	p := &stubProvider{executeFn: func(context.Context, string, int, string) code.ExecutionResult {
		called = true
		return code.ExecutionResult{}
	}}
	r := newRouter(p)
	bodies := []map[string]interface{}{
		{"language_id": 71},
		{"source_code": "x"},
		{"source_code": "x", "language_id": 9999},
	}
	for _, b := range bodies {
		if w := doJSON(r, http.MethodPost, "/execute", b); w.Code != http.StatusBadRequest {
			t.Errorf("body %v: expected 400, got %d", b, w.Code)
		}
	}
	if called {
		t.Error("provider should not be called for invalid requests")
	}
}

func TestExecuteBatch_ResultsInOrder(t *testing.T) {
	p := &stubProvider{executeFn: func(_ context.Context, src string, _ int, _ string) code.ExecutionResult {
		return code.ExecutionResult{Success: src != "bad", Output: src, Status: "Accepted"}
	}}
	w := doJSON(newRouter(p), http.MethodPost, "/execute/batch", map[string]interface{}{
		"submissions": []map[string]interface{}{
			{"source_code": "one", "language_id": 71},
			{"source_code": "bad", "language_id": 50},
			{"source_code": "three", "language_id": 63},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Results []code.ExecutionResult `json:"results"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(body.Results))
	}
	for i, want := range []string{"one", "bad", "three"} {
		if body.Results[i].Output != want {
			t.Errorf("result %d: expected %q, got %q", i, want, body.Results[i].Output)
		}
	}
	if body.Results[1].Success {
		t.Error("expected second result to be unsuccessful")
	}
}

func TestExecuteBatch_Validation(t *testing.T) {
	r := newRouter(&stubProvider{})
	tooMany := make([]map[string]interface{}, maxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = map[string]interface{}{"source_code": "x", "language_id": 71}
	}
	bodies := []map[string]interface{}{
		{},
		{"submissions": []map[string]interface{}{}},
		{"submissions": []map[string]interface{}{{"source_code": "x"}}},
		{"submissions": []map[string]interface{}{{"source_code": "x", "language_id": 9999}}},
		{"submissions": tooMany},
	}
	for i, b := range bodies {
		if w := doJSON(r, http.MethodPost, "/execute/batch", b); w.Code != http.StatusBadRequest {
			t.Errorf("body %d: expected 400, got %d", i, w.Code)
		}
	}
}

// --- Submissions ---

func TestCreateSubmission(t *testing.T) {
	w := doJSON(newRouter(&stubProvider{}), http.MethodPost, "/submissions", map[string]interface{}{
		"source_code": "x", "language_id": 62, "stdin": "bob",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["token"] != "tok" {
		t.Errorf("expected token=tok, got %v", resp)
	}
}

func TestCreateSubmission_UpstreamFailure_Returns502(t *testing.T) {
	p := &stubProvider{submitFn: func(context.Context, string, int, string) (code.Token, error) {
		return "", fmt.Errorf("%w: judge0 returned HTTP 401", code.ErrSubmissionFailed)
	}}
	w := doJSON(newRouter(p), http.MethodPost, "/submissions", map[string]interface{}{
		"source_code": "x", "language_id": 71,
	})
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestGetSubmission_PassesQueryOverrides(t *testing.T) {
	var gotAttempts int
	var gotInterval time.Duration
	var gotToken code.Token
	p := &stubProvider{pollFn: func(_ context.Context, token code.Token, n int, d time.Duration) (*code.Submission, error) {
		gotToken, gotAttempts, gotInterval = token, n, d
		return &code.Submission{Token: token, Status: code.Status{ID: code.StatusAccepted, Description: "Accepted"}}, nil
	}}
	w := doJSON(newRouter(p), http.MethodGet, "/submissions/abc?max_attempts=3&interval_ms=200", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotToken != "abc" || gotAttempts != 3 || gotInterval != 200*time.Millisecond {
		t.Errorf("unexpected poll args: %s %d %v", gotToken, gotAttempts, gotInterval)
	}
}

func TestGetSubmission_DefaultsWhenQueryAbsent(t *testing.T) {
	var gotAttempts int
	var gotInterval time.Duration
	p := &stubProvider{pollFn: func(_ context.Context, token code.Token, n int, d time.Duration) (*code.Submission, error) {
		gotAttempts, gotInterval = n, d
		return &code.Submission{Token: token}, nil
	}}
	doJSON(newRouter(p), http.MethodGet, "/submissions/abc", nil)
	if gotAttempts != 0 || gotInterval != 0 {
		t.Errorf("expected zero values so the provider applies defaults, got %d %v", gotAttempts, gotInterval)
	}
}

func TestGetSubmission_BadQuery(t *testing.T) {
	r := newRouter(&stubProvider{})
	for _, q := range []string{"max_attempts=x", "max_attempts=-1", "max_attempts=1000", "interval_ms=0"} {
		if w := doJSON(r, http.MethodGet, "/submissions/abc?"+q, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

func TestGetSubmission_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w (no result after 10 attempts)", code.ErrPollTimeout), http.StatusGatewayTimeout},
		{fmt.Errorf("%w: judge0 returned HTTP 500", code.ErrFetchFailed), http.StatusBadGateway},
	}
	for _, tc := range cases {
		p := &stubProvider{pollFn: func(context.Context, code.Token, int, time.Duration) (*code.Submission, error) {
			return nil, tc.err
		}}
		if w := doJSON(newRouter(p), http.MethodGet, "/submissions/abc", nil); w.Code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, w.Code)
		}
	}
}

func TestExecutionRoutes_RateLimited(t *testing.T) {
	r := gin.New()
	RegisterRoutes(r, NewHandler(&stubProvider{}, slog.New(slog.NewTextHandler(io.Discard, nil))), limiter.New(0.001, 1))

	body := map[string]interface{}{"source_code": "x", "language_id": 71}
	if w := doJSON(r, http.MethodPost, "/execute", body); w.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/execute", body); w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/languages", nil); w.Code != http.StatusOK {
		t.Errorf("language routes should not be rate limited, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	w := doJSON(newRouter(&stubProvider{}), http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
