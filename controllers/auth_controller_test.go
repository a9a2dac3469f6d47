package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/register", map[string]string{
		"username": "alice",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User registered successfully", decodeMap(t, w)["message"])
}

func TestRegisterDuplicate(t *testing.T) {
	ts := newTestServer(t)
	body := map[string]string{"username": "alice", "password": "secret123"}

	w := ts.do(t, http.MethodPost, "/register", body, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodPost, "/register", body, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NotEmpty(t, decodeMap(t, w)["error"])
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []map[string]string{
		{"username": "alice"},
		{"password": "secret123"},
		{},
	} {
		w := ts.do(t, http.MethodPost, "/register", body, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	creds := map[string]string{"username": "alice", "password": "secret123"}

	w := ts.do(t, http.MethodPost, "/register", creds, "")
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("wrong password", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/login", map[string]string{
			"username": "alice",
			"password": "wrong",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/login", map[string]string{
			"username": "nobody",
			"password": "secret123",
		}, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid username or password", decodeMap(t, w)["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/login", map[string]string{"username": "alice"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("correct credentials issue a usable token", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/login", creds, "")
		require.Equal(t, http.StatusOK, w.Code)
		token := decodeMap(t, w)["access_token"]
		require.NotEmpty(t, token)

		// The token is accepted by a protected route.
		w = ts.do(t, http.MethodPost, "/api/posts", map[string]string{
			"title":   "From alice",
			"content": "content",
		}, token)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t)
	creds := map[string]string{"username": "alice", "password": "secret123"}

	w := ts.do(t, http.MethodPost, "/register", creds, "")
	require.Equal(t, http.StatusCreated, w.Code)
	w = ts.do(t, http.MethodPost, "/login", creds, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decodeMap(t, w)["access_token"]
	require.NotEmpty(t, token)

	w = ts.do(t, http.MethodPost, "/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	// The revoked token no longer opens protected routes.
	w = ts.do(t, http.MethodDelete, "/api/posts/1", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	ts := newTestServer(t)
	token := ts.authToken(t)

	w := ts.do(t, http.MethodGet, "/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tester", decodeMap(t, w)["username"])

	w = ts.do(t, http.MethodGet, "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
