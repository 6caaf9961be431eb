package api

import (
	"net/http"

	"llm-chat-demo/backend/internal/models"
	"llm-chat-demo/backend/internal/service"
	"llm-chat-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles chat CRUD endpoints
type ChatHandler struct {
	service *service.ChatService
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service *service.ChatService, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

// ListChats returns the session user's chats, newest first
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "AUTH_ERROR", "message": "authentication required"}})
		return
	}

	chats, err := h.service.ListChats(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	summaries := make([]models.ChatSummary, len(chats))
	for i, chat := range chats {
		summaries[i] = chat.ToSummary()
	}

	c.JSON(http.StatusOK, gin.H{"chats": summaries})
}

// GetChat returns one chat with its messages in creation order
func (h *ChatHandler) GetChat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "AUTH_ERROR", "message": "authentication required"}})
		return
	}

	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION_ERROR", "message": "chat id is required"}})
		return
	}

	chat, err := h.service.GetChat(userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chat": chat})
}

// CreateChat starts a new chat for the user id named in the request
func (h *ChatHandler) CreateChat(c *gin.Context) {
	var req models.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION_ERROR", "message": "invalid request format"}})
		return
	}

	chat, err := h.service.CreateChat(req.UserID, req.Title, req.Model)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"chat": chat.ToSummary()})
}

// UpdateChat renames a chat or switches its model
func (h *ChatHandler) UpdateChat(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION_ERROR", "message": "chat id is required"}})
		return
	}

	var req models.UpdateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION_ERROR", "message": "invalid request format"}})
		return
	}

	chat, err := h.service.UpdateChat(id, req.Title, req.Model)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chat": chat.ToSummary()})
}

// DeleteChat removes a chat and its messages
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION_ERROR", "message": "chat id is required"}})
		return
	}

	if err := h.service.DeleteChat(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "chat deleted"})
}
