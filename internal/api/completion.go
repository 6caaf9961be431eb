package api

import (
	"net/http"

	"llm-chat-demo/backend/internal/llm"
	"llm-chat-demo/backend/internal/models"
	"llm-chat-demo/backend/internal/service"
	"llm-chat-demo/backend/pkg/logger"
	"llm-chat-demo/backend/shared/observability"

	"github.com/gin-gonic/gin"
)

// CompletionRequest is the body of the streaming chat endpoint
type CompletionRequest struct {
	Messages []llm.Message `json:"messages" binding:"required"`
	ChatID   string        `json:"chatId,omitempty"`
	Model    string        `json:"model,omitempty"`
}

// CompletionHandler proxies a conversation to a hosted model and
// relays the output stream
type CompletionHandler struct {
	client   *llm.Client
	messages *service.MessageService
	logger   *logger.Logger
}

// NewCompletionHandler creates a new streaming completion handler
func NewCompletionHandler(client *llm.Client, messages *service.MessageService, logger *logger.Logger) *CompletionHandler {
	return &CompletionHandler{
		client:   client,
		messages: messages,
		logger:   logger,
	}
}

// Stream forwards the conversation to the resolved provider and writes
// each output chunk to the client as it arrives. When a chat id was
// supplied and the stream produced text, the assistant turn is persisted
// afterwards; a persistence failure is logged, never surfaced, since the
// response has already been streamed.
func (h *CompletionHandler) Stream(c *gin.Context) {
	var req CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request body")
		return
	}

	binding := llm.Resolve(req.Model)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")

	flusher, _ := c.Writer.(http.Flusher)
	wroteChunk := false

	text, err := h.client.StreamCompletion(c.Request.Context(), binding, req.Messages, func(chunk string) error {
		if _, writeErr := c.Writer.Write([]byte(chunk)); writeErr != nil {
			return writeErr
		}
		if flusher != nil {
			flusher.Flush()
		}
		wroteChunk = true
		return nil
	})
	if err != nil {
		observability.CompletionsTotal.WithLabelValues(binding.Model, "error").Inc()
		h.logger.LogError(err, "completion stream failed", "model", binding.Model)
		if !wroteChunk {
			// Nothing sent yet, the status line is still ours
			c.String(http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}
	observability.CompletionsTotal.WithLabelValues(binding.Model, "ok").Inc()

	if req.ChatID != "" && text != "" {
		// The session middleware may have resolved a user; persistence
		// goes through the same ownership gate as any other write.
		userID, _ := currentUserID(c)
		if _, saveErr := h.messages.SaveMessage(userID, req.ChatID, models.RoleAssistant, text); saveErr != nil {
			h.logger.LogError(saveErr, "failed to persist assistant message",
				"chatId", req.ChatID,
				"model", binding.Model,
			)
		}
	}
}

// ListModels returns the selectable model names
func (h *CompletionHandler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"models":  llm.Models(),
		"default": llm.DefaultModel,
	})
}
