package service

import (
	"errors"

	"llm-chat-demo/backend/internal/models"
	apperrors "llm-chat-demo/backend/pkg/errors"

	"gorm.io/gorm"
)

// maxTitleRunes caps titles derived from a first message.
const maxTitleRunes = 50

// ChatService handles chat CRUD for the action layer
type ChatService struct {
	db *gorm.DB
}

// NewChatService creates a new chat service
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// TruncateTitle shortens a derived title to 50 characters plus an
// ellipsis. Short titles pass through unchanged.
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleRunes {
		return title
	}
	return string(runes[:maxTitleRunes]) + "..."
}

// ListChats returns the chats owned by a user, most recently created first
func (s *ChatService) ListChats(userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	result := s.db.
		Select("id", "title", "model", "created_at", "updated_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&chats)
	if result.Error != nil {
		return nil, apperrors.TranslateStore(result.Error)
	}
	return chats, nil
}

// GetChat returns one chat with its messages in creation order. The
// lookup is scoped to the owning user, so another user's chat reads as
// missing rather than forbidden.
func (s *ChatService) GetChat(userID uint, id string) (*models.Chat, error) {
	var chat models.Chat
	result := s.db.
		Where("id = ? AND user_id = ?", id, userID).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at ASC")
		}).
		First(&chat)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("chat not found")
		}
		return nil, apperrors.TranslateStore(result.Error)
	}
	return &chat, nil
}

// CreateChat inserts a new chat row. The user id comes straight from
// the caller and is not re-verified against the session, matching the
// legacy frontend contract.
func (s *ChatService) CreateChat(userID uint, title, model string) (*models.Chat, error) {
	chat := models.Chat{
		UserID: userID,
		Title:  TruncateTitle(title),
		Model:  model,
	}
	if err := s.db.Create(&chat).Error; err != nil {
		return nil, apperrors.TranslateStore(err)
	}
	return &chat, nil
}

// UpdateChat renames a chat and optionally switches its model.
// The update is keyed by id alone, with no ownership scope.
// TODO: scope to the owning user once product confirms nothing else
// depends on the unscoped behavior.
func (s *ChatService) UpdateChat(id, title, model string) (*models.Chat, error) {
	updates := map[string]interface{}{"title": title}
	if model != "" {
		updates["model"] = model
	}

	result := s.db.Model(&models.Chat{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, apperrors.TranslateStore(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.NewNotFoundError("chat not found")
	}

	var chat models.Chat
	if err := s.db.First(&chat, "id = ?", id).Error; err != nil {
		return nil, apperrors.TranslateStore(err)
	}
	return &chat, nil
}

// DeleteChat removes a chat and, via the cascade, its messages.
// Keyed by id alone with no ownership or session check.
// TODO: same ownership gap as UpdateChat, pending product sign-off.
func (s *ChatService) DeleteChat(id string) error {
	result := s.db.Where("id = ?", id).Delete(&models.Chat{})
	if result.Error != nil {
		return apperrors.TranslateStore(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("chat not found")
	}
	return nil
}
