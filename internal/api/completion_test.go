package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"llm-chat-demo/backend/internal/llm"
	"llm-chat-demo/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeProvider serves a fixed sequence of streaming chunks in the
// OpenAI wire format.
func newFakeProvider(t *testing.T, chunks []string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		for _, chunk := range chunks {
			fmt.Fprintf(w,
				"data: {\"id\":\"cmpl-1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"deepseek-chat\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n",
				chunk,
			)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fakeProviders(srv *httptest.Server) map[llm.Provider]llm.ProviderConfig {
	return map[llm.Provider]llm.ProviderConfig{
		llm.ProviderDeepSeek: {APIKey: "test-key", BaseURL: srv.URL},
		llm.ProviderOpenAI:   {APIKey: "test-key", BaseURL: srv.URL},
	}
}

func TestStreamRelaysChunks(t *testing.T) {
	upstream := newFakeProvider(t, []string{"Hello", ", ", "world"})
	env := newTestEnv(t, fakeProviders(upstream))

	w := env.do(t, http.MethodPost, "/api/chat", gin.H{
		"messages": []gin.H{{"role": "user", "content": "greet me"}},
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "Hello, world", w.Body.String())
}

func TestStreamPersistsAssistantTurn(t *testing.T) {
	upstream := newFakeProvider(t, []string{"The answer ", "is 42."})
	env := newTestEnv(t, fakeProviders(upstream))

	user, cookie := env.registerAndLogin(t, "owner@example.com")
	chatID := createChatViaAPI(t, env, user.ID, "chat")

	w := env.do(t, http.MethodPost, "/api/chat", gin.H{
		"messages": []gin.H{{"role": "user", "content": "what is the answer"}},
		"chatId":   chatID,
		"model":    "deepseek-chat",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "The answer is 42.", w.Body.String())

	var saved models.Message
	require.NoError(t, env.db.Where("chat_id = ?", chatID).First(&saved).Error)
	assert.Equal(t, models.RoleAssistant, saved.Role)
	assert.Equal(t, "The answer is 42.", saved.Content)
}

func TestStreamWithoutChatIDSkipsPersistence(t *testing.T) {
	upstream := newFakeProvider(t, []string{"ephemeral"})
	env := newTestEnv(t, fakeProviders(upstream))

	w := env.do(t, http.MethodPost, "/api/chat", gin.H{
		"messages": []gin.H{{"role": "user", "content": "hi"}},
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

// An anonymous caller still gets the stream, but persistence runs the
// ownership gate and fails quietly.
func TestStreamAnonymousPersistenceFailsSilently(t *testing.T) {
	upstream := newFakeProvider(t, []string{"streamed anyway"})
	env := newTestEnv(t, fakeProviders(upstream))

	user, _ := env.registerAndLogin(t, "owner@example.com")
	chatID := createChatViaAPI(t, env, user.ID, "chat")

	w := env.do(t, http.MethodPost, "/api/chat", gin.H{
		"messages": []gin.H{{"role": "user", "content": "hi"}},
		"chatId":   chatID,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "streamed anyway", w.Body.String())

	var count int64
	require.NoError(t, env.db.Model(&models.Message{}).Where("chat_id = ?", chatID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestStreamUnknownModelFallsBack(t *testing.T) {
	upstream := newFakeProvider(t, []string{"default model reply"})
	env := newTestEnv(t, fakeProviders(upstream))

	w := env.do(t, http.MethodPost, "/api/chat", gin.H{
		"messages": []gin.H{{"role": "user", "content": "hi"}},
		"model":    "not-a-real-model",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "default model reply", w.Body.String())
}

func TestStreamUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"upstream down"}}`, http.StatusInternalServerError)
	}))
	t.Cleanup(upstream.Close)
	env := newTestEnv(t, fakeProviders(upstream))

	w := env.do(t, http.MethodPost, "/api/chat", gin.H{
		"messages": []gin.H{{"role": "user", "content": "hi"}},
	}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", w.Body.String())
}

func TestStreamRejectsMissingMessages(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/chat", gin.H{"model": "gpt-4o"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListModelsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/models", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "deepseek-chat")
	assert.Contains(t, w.Body.String(), "gpt-4o")
	assert.Contains(t, w.Body.String(), `"default":"deepseek-chat"`)
}
