// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the typed HTTP client for the chat backend.
package api

// Message roles as the backend emits them. The client only ever submits
// RoleUser; RoleBot entries are produced server-side by the assistant.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// TokenResponse is the response of POST /auth/token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest is the body of POST /users.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// ChatListItem is one entry of the chat list.
type ChatListItem struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	CreatedAt     string `json:"created_at"`
	LastMessageAt string `json:"last_message_at"`
}

// ChatListResponse is the response of GET /chats.
type ChatListResponse struct {
	Chats []ChatListItem `json:"chats"`
}

// Message is a single confirmed message within a chat.
type Message struct {
	ID        int    `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// ChatDetail is the response of GET /chats/{id}.
type ChatDetail struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	CreatedAt     string    `json:"created_at"`
	LastMessageAt string    `json:"last_message_at"`
	Messages      []Message `json:"messages"`
}

// createChatRequest is the body of POST /chats.
type createChatRequest struct {
	Title string `json:"title"`
}

// CreateChatResponse is the response of POST /chats.
type CreateChatResponse struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	CreatedAt     string `json:"created_at"`
	LastMessageAt string `json:"last_message_at"`
}

// sendMessageRequest is the body of POST /chats/{id}/messages. Role is
// always forced to RoleUser by the client regardless of the caller.
type sendMessageRequest struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// apiErrorResponse is the backend's error envelope.
type apiErrorResponse struct {
	Detail string `json:"detail"`
}
