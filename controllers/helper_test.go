package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"masterblog/config"
	"masterblog/models"
	"masterblog/routes"
	"masterblog/store"
	"masterblog/utils"
)

const testSecret = "test-secret-key-with-sufficient-length"

type testServer struct {
	router *gin.Engine
	tokens *utils.TokenManager
}

// newTestServer wires the full router against fresh stores, no Redis, and no
// log files, the way main does minus the external pieces.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.AppConfig{
		JWTSecret:          testSecret,
		TokenTTLMinutes:    15,
		GinMode:            "test",
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 10000,
	}

	posts, err := store.NewPostStore("", nil)
	require.NoError(t, err)
	tokens := utils.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute, nil)

	router := routes.SetupRouter(cfg, routes.Deps{
		Posts:  posts,
		Users:  store.NewUserStore(),
		Tokens: tokens,
		Cache:  utils.NewCache(nil, nil),
	})
	return &testServer{router: router, tokens: tokens}
}

func (ts *testServer) authToken(t *testing.T) string {
	t.Helper()
	token, err := ts.tokens.Generate("tester")
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodePosts(t *testing.T, w *httptest.ResponseRecorder) []models.Post {
	t.Helper()
	var posts []models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	return posts
}

func decodePost(t *testing.T, w *httptest.ResponseRecorder) models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	return post
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}
