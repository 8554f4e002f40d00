package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gsarma/codepad/internal/limiter"
)

// RegisterRoutes wires every endpoint onto r. Routes that reach the remote
// execution service sit behind rl.
func RegisterRoutes(r *gin.Engine, h *Handler, rl *limiter.RateLimiter) {
	r.Use(RequestLogger(h.logger))

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/languages", h.ListLanguages)
	r.GET("/languages/:id", h.GetLanguage)

	limited := r.Group("/", rl.Middleware())
	{
		limited.POST("/execute", h.ExecuteCode)
		limited.POST("/execute/batch", h.ExecuteBatch)
		limited.POST("/submissions", h.CreateSubmission)
		limited.GET("/submissions/:token", h.GetSubmission)
	}
}
