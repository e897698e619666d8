package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/letiskotransfer/transfer-api/internal/models"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an {"ok": false} body carrying a single form-level message
// and attaches err to the gin context.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, models.MessageFailure(message))
}

// respondErrorWithDetails sends an {"ok": false} body carrying a field-keyed error tree.
func respondErrorWithDetails(c *gin.Context, status int, details *models.ErrorTree, err error) {
	attachError(c, err)
	c.JSON(status, models.FailureResponse(details))
}
