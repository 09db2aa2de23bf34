package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerPayload(username string) map[string]interface{} {
	return map[string]interface{}{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Vladimir",
		"last_name":  "Petrov",
		"password":   "supersecret",
	}
}

func TestRegisterLoginMe(t *testing.T) {
	env := setupTestEnv(t)

	w := env.performRequest(t, http.MethodPost, "/api/auth/register", "", registerPayload("vladimir"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	w = env.performRequest(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "vladimir@example.com",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.performRequest(t, http.MethodGet, "/api/users/me", body.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "vladimir", me.Username)
	assert.Equal(t, "vladimir@example.com", me.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)

	w := env.performRequest(t, http.MethodPost, "/api/auth/register", "", registerPayload("vladimir"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.performRequest(t, http.MethodPost, "/api/auth/register", "", registerPayload("vladimir"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := setupTestEnv(t)

	w := env.performRequest(t, http.MethodPost, "/api/auth/register", "", registerPayload("vladimir"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.performRequest(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "vladimir@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeRejectsBadToken(t *testing.T) {
	env := setupTestEnv(t)

	w := env.performRequest(t, http.MethodGet, "/api/users/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
