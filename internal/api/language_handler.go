package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/codepad/internal/language"
)

// ListLanguages returns every supported language with its starter snippet.
func (h *Handler) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": language.All()})
}

// GetLanguage returns one language by its remote service id.
func (h *Handler) GetLanguage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid language id"})
		return
	}
	d, ok := language.ByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "language not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}
