package api

import (
	apperrors "llm-chat-demo/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// respondError writes the uniform error envelope for a failed action
func respondError(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
