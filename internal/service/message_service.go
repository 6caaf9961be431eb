package service

import (
	"errors"
	"time"

	"llm-chat-demo/backend/internal/models"
	apperrors "llm-chat-demo/backend/pkg/errors"
	"llm-chat-demo/backend/shared/observability"

	"gorm.io/gorm"
)

// chatAccessDenied covers both "no such chat" and "not your chat" so
// existence of other users' chats is not revealed.
const chatAccessDenied = "chat not found or access denied"

// MessageService appends messages to chats owned by the calling user
type MessageService struct {
	db *gorm.DB
}

// NewMessageService creates a new message service
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// ownedChat loads a chat scoped to (id AND userID)
func (s *MessageService) ownedChat(db *gorm.DB, userID uint, chatID string) (*models.Chat, error) {
	var chat models.Chat
	result := db.Where("id = ? AND user_id = ?", chatID, userID).First(&chat)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(chatAccessDenied)
		}
		return nil, apperrors.TranslateStore(result.Error)
	}
	return &chat, nil
}

func validRole(role string) bool {
	return role == models.RoleUser || role == models.RoleAssistant
}

// SaveMessage appends one message to a chat the user owns and bumps the
// chat's update timestamp
func (s *MessageService) SaveMessage(userID uint, chatID, role, content string) (*models.Message, error) {
	if !validRole(role) {
		return nil, apperrors.NewValidationError("role must be user or assistant")
	}
	if content == "" {
		return nil, apperrors.NewValidationError("content is required")
	}

	chat, err := s.ownedChat(s.db, userID, chatID)
	if err != nil {
		return nil, err
	}

	message := models.Message{
		ChatID:  chat.ID,
		Role:    role,
		Content: content,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, apperrors.TranslateStore(err)
	}

	if err := s.db.Model(chat).Update("updated_at", time.Now()).Error; err != nil {
		return nil, apperrors.TranslateStore(err)
	}

	observability.MessagesSaved.WithLabelValues(role).Inc()

	return &message, nil
}

// SaveMessages appends a batch of messages and bumps the chat timestamp
// in a single transaction. Either the whole batch lands or none of it.
func (s *MessageService) SaveMessages(userID uint, chatID string, batch []models.MessagePayload) error {
	if len(batch) == 0 {
		return apperrors.NewValidationError("messages are required")
	}
	for _, msg := range batch {
		if !validRole(msg.Role) {
			return apperrors.NewValidationError("role must be user or assistant")
		}
		if msg.Content == "" {
			return apperrors.NewValidationError("content is required")
		}
	}

	if _, err := s.ownedChat(s.db, userID, chatID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, msg := range batch {
			message := models.Message{
				ChatID:  chatID,
				Role:    msg.Role,
				Content: msg.Content,
			}
			if err := tx.Create(&message).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Chat{}).
			Where("id = ?", chatID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return apperrors.TranslateStore(err)
	}

	for _, msg := range batch {
		observability.MessagesSaved.WithLabelValues(msg.Role).Inc()
	}

	return nil
}
