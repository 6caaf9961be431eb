package service

import (
	"errors"
	"testing"
	"time"

	"llm-chat-demo/backend/internal/models"
	apperrors "llm-chat-demo/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSaveMessage(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	owner := createTestUser(t, db, "owner@example.com")
	chat := createTestChat(t, db, owner.ID, "chat")

	before := chat.UpdatedAt

	msg, err := svc.SaveMessage(owner.ID, chat.ID, models.RoleUser, "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, chat.ID, msg.ChatID)

	// Saving must bump the chat's activity timestamp
	var reloaded models.Chat
	require.NoError(t, db.First(&reloaded, "id = ?", chat.ID).Error)
	assert.True(t, reloaded.UpdatedAt.After(before) || reloaded.UpdatedAt.Equal(before))
	assert.False(t, reloaded.UpdatedAt.Before(before))
}

func TestSaveMessageValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	owner := createTestUser(t, db, "owner@example.com")
	chat := createTestChat(t, db, owner.ID, "chat")

	_, err := svc.SaveMessage(owner.ID, chat.ID, "system", "hi")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = svc.SaveMessage(owner.ID, chat.ID, models.RoleUser, "")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestSaveMessageOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")
	chat := createTestChat(t, db, owner.ID, "chat")

	_, err := svc.SaveMessage(intruder.ID, chat.ID, models.RoleUser, "hi")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	var count int64
	require.NoError(t, db.Model(&models.Message{}).Where("chat_id = ?", chat.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSaveMessages(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	owner := createTestUser(t, db, "owner@example.com")
	chat := createTestChat(t, db, owner.ID, "chat")

	batch := []models.MessagePayload{
		{Role: models.RoleUser, Content: "question"},
		{Role: models.RoleAssistant, Content: "answer"},
	}
	require.NoError(t, svc.SaveMessages(owner.ID, chat.ID, batch))

	var messages []models.Message
	require.NoError(t, db.Where("chat_id = ?", chat.ID).Order("created_at ASC").Find(&messages).Error)
	require.Len(t, messages, 2)
	assert.Equal(t, "question", messages[0].Content)
	assert.Equal(t, "answer", messages[1].Content)
}

func TestSaveMessagesValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	owner := createTestUser(t, db, "owner@example.com")
	chat := createTestChat(t, db, owner.ID, "chat")

	err := svc.SaveMessages(owner.ID, chat.ID, nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	err = svc.SaveMessages(owner.ID, chat.ID, []models.MessagePayload{
		{Role: models.RoleUser, Content: "ok"},
		{Role: "tool", Content: "bad role"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	// A batch that fails validation writes nothing
	var count int64
	require.NoError(t, db.Model(&models.Message{}).Where("chat_id = ?", chat.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSaveMessagesAtomicity(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	owner := createTestUser(t, db, "owner@example.com")
	chat := createTestChat(t, db, owner.ID, "chat")

	var original models.Chat
	require.NoError(t, db.First(&original, "id = ?", chat.ID).Error)

	// Fail the insert of one marked message mid-transaction
	failErr := errors.New("injected create failure")
	err := db.Callback().Create().Before("gorm:create").Register("fail_marked_message", func(tx *gorm.DB) {
		if msg, ok := tx.Statement.Dest.(*models.Message); ok && msg.Content == "poison" {
			tx.AddError(failErr)
		}
	})
	require.NoError(t, err)
	defer db.Callback().Create().Remove("fail_marked_message")

	batch := []models.MessagePayload{
		{Role: models.RoleUser, Content: "fine"},
		{Role: models.RoleAssistant, Content: "poison"},
		{Role: models.RoleUser, Content: "never reached"},
	}
	require.Error(t, svc.SaveMessages(owner.ID, chat.ID, batch))

	// The whole batch must roll back, timestamp included
	var count int64
	require.NoError(t, db.Model(&models.Message{}).Where("chat_id = ?", chat.ID).Count(&count).Error)
	assert.Zero(t, count)

	var reloaded models.Chat
	require.NoError(t, db.First(&reloaded, "id = ?", chat.ID).Error)
	assert.True(t, reloaded.UpdatedAt.Equal(original.UpdatedAt))
}

func TestSaveMessagesOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")
	chat := createTestChat(t, db, owner.ID, "chat")

	err := svc.SaveMessages(intruder.ID, chat.ID, []models.MessagePayload{
		{Role: models.RoleUser, Content: "hi"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestSaveMessageTimestampAdvances(t *testing.T) {
	db := newTestDB(t)
	svc := NewMessageService(db)
	owner := createTestUser(t, db, "owner@example.com")

	stale := time.Now().Add(-time.Hour)
	chat := models.Chat{UserID: owner.ID, Title: "old", Model: "deepseek-chat", CreatedAt: stale, UpdatedAt: stale}
	require.NoError(t, db.Create(&chat).Error)

	_, err := svc.SaveMessage(owner.ID, chat.ID, models.RoleAssistant, "reply")
	require.NoError(t, err)

	var reloaded models.Chat
	require.NoError(t, db.First(&reloaded, "id = ?", chat.ID).Error)
	assert.True(t, reloaded.UpdatedAt.After(stale))
}
