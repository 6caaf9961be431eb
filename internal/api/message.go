package api

import (
	"net/http"

	"llm-chat-demo/backend/internal/models"
	"llm-chat-demo/backend/internal/service"
	"llm-chat-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// MessageHandler handles message persistence endpoints
type MessageHandler struct {
	service *service.MessageService
	logger  *logger.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(service *service.MessageService, logger *logger.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		logger:  logger,
	}
}

// SaveMessage appends one message to a chat the session user owns
func (h *MessageHandler) SaveMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "AUTH_ERROR", "message": "authentication required"}})
		return
	}

	var req models.SaveMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION_ERROR", "message": "invalid request format"}})
		return
	}

	message, err := h.service.SaveMessage(userID, req.ChatID, req.Role, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": message})
}

// SaveMessages stores a batch of messages atomically
func (h *MessageHandler) SaveMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "AUTH_ERROR", "message": "authentication required"}})
		return
	}

	var req models.SaveMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION_ERROR", "message": "invalid request format"}})
		return
	}

	if err := h.service.SaveMessages(userID, req.ChatID, req.Messages); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"count": len(req.Messages)})
}
