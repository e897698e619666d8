package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	mailConfigured func() bool
}

func NewHealthHandler(mailConfigured func() bool) *HealthHandler {
	return &HealthHandler{
		mailConfigured: mailConfigured,
	}
}

// Healthcheck answers 200 while the process is up and reports whether the
// mail relay settings are present.
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"mail_configured": h.mailConfigured(),
	})
}
