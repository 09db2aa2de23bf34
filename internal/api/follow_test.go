package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUserAndToken(t, "reader")
	author, _ := env.createUserAndToken(t, "author")

	path := fmt.Sprintf("/api/users/%s/subscribe", author.ID)

	w := env.performRequest(t, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// subscribing twice conflicts
	w = env.performRequest(t, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.performRequest(t, http.MethodGet, "/api/users/subscriptions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count   int               `json:"count"`
		Results []json.RawMessage `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)

	w = env.performRequest(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// unsubscribing again conflicts
	w = env.performRequest(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeToSelfRejected(t *testing.T) {
	env := setupTestEnv(t)
	user, token := env.createUserAndToken(t, "loner")

	w := env.performRequest(t, http.MethodPost,
		fmt.Sprintf("/api/users/%s/subscribe", user.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeInvalidUserID(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUserAndToken(t, "reader")

	w := env.performRequest(t, http.MethodPost, "/api/users/not-a-uuid/subscribe", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionsRequireAuth(t *testing.T) {
	env := setupTestEnv(t)

	w := env.performRequest(t, http.MethodGet, "/api/users/subscriptions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
