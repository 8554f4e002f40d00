package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/language"
	"github.com/gsarma/codepad/internal/worker"
)

const (
	maxPollAttempts   = 60
	maxPollIntervalMs = 10000
	maxBatchSize      = 20
)

type executeRequest struct {
	SourceCode string `json:"source_code" binding:"required"`
	LanguageID int    `json:"language_id" binding:"required"`
	Stdin      string `json:"stdin"`
}

func bindExecuteRequest(c *gin.Context) (executeRequest, bool) {
	var body executeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return body, false
	}
	if _, ok := language.ByID(body.LanguageID); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported language id: %d", body.LanguageID)})
		return body, false
	}
	return body, true
}

// ExecuteCode submits the code and waits for its result.
//
// Request body:
//
//	{
//	  "source_code": "print('hello')",
//	  "language_id": 71,         // Judge0 language ID (71 = Python 3)
//	  "stdin":       "optional"
//	}
//
// Always returns 200 with the normalized result; upstream failures show up as
// {"success": false, "status": "Error", "error": "..."}.
func (h *Handler) ExecuteCode(c *gin.Context) {
	body, ok := bindExecuteRequest(c)
	if !ok {
		return
	}
	result := h.provider.Execute(c.Request.Context(), body.SourceCode, body.LanguageID, body.Stdin)
	c.JSON(http.StatusOK, result)
}

type batchRequest struct {
	Submissions []executeRequest `json:"submissions" binding:"required,min=1,dive"`
}

// ExecuteBatch runs up to maxBatchSize programs concurrently and returns
// {"results": [...]} in request order. Like ExecuteCode it always answers 200
// once the body is valid.
func (h *Handler) ExecuteBatch(c *gin.Context) {
	var body batchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(body.Submissions) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d submissions per batch", maxBatchSize)})
		return
	}

	jobs := make([]worker.Job, len(body.Submissions))
	for i, s := range body.Submissions {
		if _, ok := language.ByID(s.LanguageID); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("submissions[%d]: unsupported language id: %d", i, s.LanguageID)})
			return
		}
		jobs[i] = worker.Job{SourceCode: s.SourceCode, LanguageID: s.LanguageID, Stdin: s.Stdin}
	}

	c.JSON(http.StatusOK, gin.H{"results": h.pool.Run(c.Request.Context(), jobs)})
}

// CreateSubmission submits the code without waiting and returns 201 {"token": "..."}.
// Retrieve the result via GET /submissions/:token.
func (h *Handler) CreateSubmission(c *gin.Context) {
	body, ok := bindExecuteRequest(c)
	if !ok {
		return
	}
	token, err := h.provider.Submit(c.Request.Context(), body.SourceCode, body.LanguageID, body.Stdin)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// GetSubmission polls the submission until it is terminal and returns the raw record.
// Optional query parameters max_attempts and interval_ms override the defaults.
func (h *Handler) GetSubmission(c *gin.Context) {
	token := code.Token(c.Param("token"))

	attempts, err := queryInt(c, "max_attempts", maxPollAttempts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	intervalMs, err := queryInt(c, "interval_ms", maxPollIntervalMs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.provider.Poll(c.Request.Context(), token, attempts, time.Duration(intervalMs)*time.Millisecond)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, sub)
	case errors.Is(err, code.ErrPollTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	default:
		h.logger.Warn("api: poll failed", "token", token, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

// queryInt reads an optional positive integer query value. Absent means 0,
// which the provider treats as "use the default".
func queryInt(c *gin.Context, key string, max int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > max {
		return 0, fmt.Errorf("%s must be an integer between 1 and %d", key, max)
	}
	return n, nil
}
