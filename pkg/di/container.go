package di

import (
	"time"

	"llm-chat-demo/backend/internal/llm"
	"llm-chat-demo/backend/internal/service"
	"llm-chat-demo/backend/pkg/jwt"
	"llm-chat-demo/backend/pkg/logger"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB             *gorm.DB
	Logger         *logger.Logger
	JWTService     *jwt.Service
	UserService    *service.UserService
	ChatService    *service.ChatService
	MessageService *service.MessageService
	LLMClient      *llm.Client
}

// Config holds the configuration for the container
type Config struct {
	LoggerConfig logger.Config
	JWTSecret    string
	JWTExpiry    time.Duration
	Providers    map[llm.Provider]llm.ProviderConfig
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		LoggerConfig: logger.DefaultConfig(),
		JWTSecret:    "",
		JWTExpiry:    0, // Use default
		Providers:    map[llm.Provider]llm.ProviderConfig{},
	}
}

// New creates a new dependency injection container
func New(db *gorm.DB, config *Config) (*Container, error) {
	if config == nil {
		config = DefaultConfig()
	}

	log := logger.New(config.LoggerConfig)

	jwtService := jwt.NewService(config.JWTSecret, config.JWTExpiry)

	userService := service.NewUserService(db, jwtService)
	chatService := service.NewChatService(db)
	messageService := service.NewMessageService(db)

	llmClient := llm.NewClient(config.Providers, log)

	return &Container{
		DB:             db,
		Logger:         log,
		JWTService:     jwtService,
		UserService:    userService,
		ChatService:    chatService,
		MessageService: messageService,
		LLMClient:      llmClient,
	}, nil
}
