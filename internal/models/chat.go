package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Chat represents a titled conversation owned by one user
type Chat struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Messages  []Message `gorm:"constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// Message is one turn within a chat, immutable once stored
type Message struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID    string    `gorm:"type:uuid;index;not null" json:"chatId"`
	Role      string    `json:"role"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate assigns a UUID when none was supplied
func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// BeforeCreate assigns a UUID when none was supplied
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// CreateChatRequest is the request structure for starting a chat.
// UserID is taken from the request body, matching the legacy frontend
// contract, and is not cross-checked against the session.
type CreateChatRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Model  string `json:"model" binding:"required"`
}

// UpdateChatRequest is the request structure for renaming a chat or
// switching its model
type UpdateChatRequest struct {
	Title string `json:"title" binding:"required"`
	Model string `json:"model,omitempty"`
}

// ChatSummary is the list view of a chat (no messages)
type ChatSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Model string `json:"model"`
}

// ToSummary converts a Chat to its list representation
func (c *Chat) ToSummary() ChatSummary {
	return ChatSummary{
		ID:    c.ID,
		Title: c.Title,
		Model: c.Model,
	}
}

// SaveMessageRequest is the request structure for appending one message
type SaveMessageRequest struct {
	ChatID  string `json:"chatId" binding:"required"`
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// MessagePayload is one message within a batch save
type MessagePayload struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// SaveMessagesRequest is the request structure for saving a user turn
// and the assistant reply together
type SaveMessagesRequest struct {
	ChatID   string           `json:"chatId" binding:"required"`
	Messages []MessagePayload `json:"messages" binding:"required"`
}
