package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"llm-chat-demo/backend/internal/llm"
	"llm-chat-demo/backend/internal/models"
	"llm-chat-demo/backend/internal/service"
	"llm-chat-demo/backend/pkg/config"
	"llm-chat-demo/backend/pkg/jwt"
	"llm-chat-demo/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires the handlers against an in-memory database with the
// same route layout the server uses.
type testEnv struct {
	db     *gorm.DB
	engine *gin.Engine
	jwt    *jwt.Service
	cfg    *config.Config
}

func newTestEnv(t *testing.T, providers map[llm.Provider]llm.ProviderConfig) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Chat{}, &models.Message{}))

	log := logger.New(logger.Config{Level: "error", JSON: false})
	cfg := config.Get()
	jwtService := jwt.NewService("api-test-secret", time.Hour)

	userService := service.NewUserService(db, jwtService)
	chatService := service.NewChatService(db)
	messageService := service.NewMessageService(db)
	llmClient := llm.NewClient(providers, log)

	authHandler := NewAuthHandler(userService, jwtService, cfg, log)
	chatHandler := NewChatHandler(chatService, log)
	messageHandler := NewMessageHandler(messageService, log)
	completionHandler := NewCompletionHandler(llmClient, messageService, log)

	engine := gin.New()
	session := SessionMiddleware(jwtService, cfg.JWT.CookieName)
	requireSession := RequireSession()

	apiGroup := engine.Group("/api")
	apiGroup.Use(session)
	{
		authRoutes := apiGroup.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", authHandler.Me)
			authRoutes.PUT("/profile", requireSession, authHandler.UpdateProfile)
		}

		chatRoutes := apiGroup.Group("/chats")
		{
			chatRoutes.GET("", requireSession, chatHandler.ListChats)
			chatRoutes.GET("/:id", requireSession, chatHandler.GetChat)
			chatRoutes.POST("", chatHandler.CreateChat)
			chatRoutes.PUT("/:id", chatHandler.UpdateChat)
			chatRoutes.DELETE("/:id", chatHandler.DeleteChat)
		}

		messageRoutes := apiGroup.Group("/messages")
		messageRoutes.Use(requireSession)
		{
			messageRoutes.POST("", messageHandler.SaveMessage)
			messageRoutes.POST("/batch", messageHandler.SaveMessages)
		}

		apiGroup.POST("/chat", completionHandler.Stream)
		apiGroup.GET("/models", completionHandler.ListModels)
	}

	return &testEnv{db: db, engine: engine, jwt: jwtService, cfg: cfg}
}

// do performs a request with an optional JSON body and session cookie
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an account and returns its session cookie
func (e *testEnv) registerAndLogin(t *testing.T, email string) (*models.User, *http.Cookie) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"email":    email,
		"password": "password1",
		"name":     "Test",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":    email,
		"password": "password1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == e.cfg.JWT.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "login must set the session cookie")

	var user models.User
	require.NoError(t, e.db.Where("email = ?", email).First(&user).Error)
	return &user, cookie
}

// errorCode extracts the code from the error envelope
func errorCode(t *testing.T, body *bytes.Buffer) string {
	t.Helper()

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body.Bytes(), &envelope))
	return envelope.Error.Code
}
