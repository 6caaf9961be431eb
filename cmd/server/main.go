package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"llm-chat-demo/backend/internal/llm"
	"llm-chat-demo/backend/internal/models"
	"llm-chat-demo/backend/pkg/config"
	"llm-chat-demo/backend/pkg/di"
	"llm-chat-demo/backend/pkg/logger"
	"llm-chat-demo/backend/pkg/router"
	"llm-chat-demo/backend/pkg/secrets"
	"llm-chat-demo/backend/shared/observability"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found")
	}

	// Initialize structured logger
	logConfig := logger.DefaultConfig()
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logConfig.Level = level
	}
	logConfig.JSON = os.Getenv("LOG_FORMAT") != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	cfg := config.Get()
	log.Info("Starting application", "env", cfg.Server.Env, "version", os.Getenv("APP_VERSION"))

	// Initialize secrets management (Vault when enabled, env fallback otherwise)
	if err := secrets.Init(log); err != nil {
		log.LogError(err, "Failed to initialize secrets manager, continuing with environment variables")
	}

	ctx := context.Background()

	// Initialize database
	db, err := config.NewDB()
	if err != nil {
		log.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&models.User{}, &models.Chat{}, &models.Message{}); err != nil {
		log.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	// Index for the chat list screen, which always reads one user's chats newest-first
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_chats_user_created ON chats(user_id, created_at DESC)").Error; err != nil {
		log.LogError(err, "Failed to create chat index", "index", "idx_chats_user_created")
	}

	// Setup observability
	shutdownTracing := observability.SetupTracing("llm-chat-backend")
	defer shutdownTracing()
	observability.SetupPrometheusMetrics()

	// Initialize dependency injection container
	diConfig := di.DefaultConfig()
	diConfig.LoggerConfig = logConfig
	diConfig.JWTSecret = secrets.GetSecretWithDefault(ctx, "JWT_SECRET", cfg.JWT.Secret)
	diConfig.JWTExpiry = cfg.JWT.Expiry
	diConfig.Providers = map[llm.Provider]llm.ProviderConfig{
		llm.ProviderOpenAI: {
			APIKey:  secrets.GetSecretWithDefault(ctx, "OPENAI_API_KEY", os.Getenv("OPENAI_API_KEY")),
			BaseURL: cfg.LLM.OpenAIBaseURL,
		},
		llm.ProviderDeepSeek: {
			APIKey:  secrets.GetSecretWithDefault(ctx, "DEEPSEEK_API_KEY", os.Getenv("DEEPSEEK_API_KEY")),
			BaseURL: cfg.LLM.DeepSeekBaseURL,
		},
	}

	container, err := di.New(db, diConfig)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}

	// Initialize and setup router
	r := router.New(container)
	r.SetupRoutes()

	// Add OpenAPI validation if schema file is available
	schemaPath := os.Getenv("OPENAPI_SCHEMA_PATH")
	if schemaPath != "" {
		r.AddOpenAPIValidation(schemaPath)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r.Engine,
	}

	// Start the server in a goroutine
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	log.Info("Server exited gracefully")
}
