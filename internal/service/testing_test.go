package service

import (
	"testing"
	"time"

	"llm-chat-demo/backend/internal/models"
	"llm-chat-demo/backend/pkg/jwt"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns an isolated in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Chat{}, &models.Message{}))

	return db
}

func newTestJWT() *jwt.Service {
	return jwt.NewService("test-secret", time.Hour)
}

// createTestUser registers a user directly through the store
func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := models.HashPassword("password123")
	require.NoError(t, err)

	user := models.User{Email: email, PasswordHash: hash, Name: "Test User"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// createTestChat inserts a chat owned by the given user
func createTestChat(t *testing.T, db *gorm.DB, userID uint, title string) *models.Chat {
	t.Helper()

	chat := models.Chat{UserID: userID, Title: title, Model: "deepseek-chat"}
	require.NoError(t, db.Create(&chat).Error)
	return &chat
}
