package handlers

import (
	"net/http"

	"github.com/ghiemer/qr-redirector/internal/services"

	"github.com/gin-gonic/gin"
)

// RedirectToTarget resolves an alias and answers immediately; tracking and
// audit logging happen in the background worker.
func (h *Handler) RedirectToTarget(c *gin.Context) {
	alias := c.Param("alias")

	outcome := h.resolver.Resolve(
		c.Request.Context(),
		alias,
		c.ClientIP(),
		c.Request.UserAgent(),
		c.Request.Referer(),
	)

	switch outcome.Kind {
	case services.OutcomeRedirect:
		c.Redirect(http.StatusFound, outcome.URL)
	case services.OutcomeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "alias not found or inactive"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "redirect failed"})
	}
}
