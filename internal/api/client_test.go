// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatterm/internal/credentials"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *credentials.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	creds := credentials.NewMemoryStore()
	return NewClient(srv.URL, creds, nil), creds
}

// =============================================================================
// AUTH
// =============================================================================

func TestSignIn_SendsFormEncodedGrantAndStoresToken(t *testing.T) {
	var gotContentType, gotGrant, gotUser, gotPass string

	client, creds := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/token", r.URL.Path)
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotGrant = r.PostFormValue("grant_type")
		gotUser = r.PostFormValue("username")
		gotPass = r.PostFormValue("password")
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "tok-1", TokenType: "bearer"})
	}))

	require.NoError(t, client.SignIn(context.Background(), "alice", "s3cret"))

	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "password", gotGrant)
	assert.Equal(t, "alice", gotUser)
	assert.Equal(t, "s3cret", gotPass)
	assert.Equal(t, "tok-1", creds.Get(), "token must be stored on success")
}

func TestSignIn_BadPasswordDoesNotTouchStoredToken(t *testing.T) {
	client, creds := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	creds.Set("existing")

	err := client.SignIn(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "existing", creds.Get(),
		"a failed password grant must not clear an existing session token")
}

func TestRegister_PostsJSONBody(t *testing.T) {
	var got RegisterRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))

	require.NoError(t, client.Register(context.Background(), "bob", "hunter22", "bob@example.com"))
	assert.Equal(t, RegisterRequest{Username: "bob", Password: "hunter22", Email: "bob@example.com"}, got)
}

// =============================================================================
// BEARER TOKEN HANDLING
// =============================================================================

func TestAuthenticatedRequestsCarryBearerToken(t *testing.T) {
	var gotAuth string
	client, creds := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(ChatListResponse{})
	}))
	creds.Set("tok-42")

	_, err := client.ListChats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-42", gotAuth)
}

func TestUnauthorizedResponseClearsTokenAndNotifies(t *testing.T) {
	client, creds := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	creds.Set("stale")

	notified := false
	client.OnUnauthorized = func() { notified = true }

	_, err := client.ListChats(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Empty(t, creds.Get(), "401 must clear the stored token")
	assert.True(t, notified, "401 must fire the OnUnauthorized callback")
}

// =============================================================================
// CHAT ENDPOINTS
// =============================================================================

func TestGetChat_DecodesDetail(t *testing.T) {
	client, creds := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chats/7", r.URL.Path)
		json.NewEncoder(w).Encode(ChatDetail{
			ID:    7,
			Title: "Hello",
			Messages: []Message{
				{ID: 1, Role: RoleUser, Content: "Hello", CreatedAt: "2025-06-15T10:00:00Z"},
				{ID: 2, Role: RoleBot, Content: "Hi there", CreatedAt: "2025-06-15T10:00:02Z"},
			},
		})
	}))
	creds.Set("tok")

	chat, err := client.GetChat(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, chat.ID)
	require.Len(t, chat.Messages, 2)
	assert.Equal(t, RoleBot, chat.Messages[1].Role)
}

func TestGetChat_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Chat not found"})
	}))

	_, err := client.GetChat(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestSendMessage_ForcesUserRole(t *testing.T) {
	var got sendMessageRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chats/3/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))

	require.NoError(t, client.SendMessage(context.Background(), 3, "hi"))
	assert.Equal(t, RoleUser, got.Role, "client must never submit any role but user")
	assert.Equal(t, "hi", got.Content)
}

func TestSendMessage_RateLimiterRefusesFloods(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	var limited bool
	// Burst is 3; a tight loop must eventually hit the limiter rather
	// than flood the backend.
	for i := 0; i < submitBurst+1; i++ {
		if err := client.SendMessage(context.Background(), 1, "x"); err != nil {
			require.ErrorIs(t, err, ErrRateLimited)
			limited = true
		}
	}
	assert.True(t, limited, "limiter should refuse the submission beyond the burst")
}

func TestCreateChat_ReturnsNewID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req createChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hello", req.Title)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CreateChatResponse{ID: 42, Title: req.Title})
	}))

	resp, err := client.CreateChat(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, 42, resp.ID)
}

func TestDeleteChat(t *testing.T) {
	var gotMethod, gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, client.DeleteChat(context.Background(), 5))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/chats/5", gotPath)
}

func TestUnconfiguredClient(t *testing.T) {
	client := NewClient("", credentials.NewMemoryStore(), nil)
	_, err := client.ListChats(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
