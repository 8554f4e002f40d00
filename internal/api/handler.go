package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/codepad/internal/code"
	"github.com/gsarma/codepad/internal/worker"
)

type Handler struct {
	provider code.Provider
	pool     *worker.Pool
	logger   *slog.Logger
}

// NewHandler builds a Handler around the given execution provider.
func NewHandler(p code.Provider, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		provider: p,
		pool:     worker.New(p, worker.DefaultConcurrency, logger),
		logger:   logger,
	}
}

// Health reports that the server is up. It does not contact the remote service.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
