// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"

	"github.com/jeranaias/chatterm/internal/api"
)

// Backend is the slice of the API client the cached layer sits in front
// of. *api.Client satisfies it.
type Backend interface {
	ListChats(ctx context.Context) (*api.ChatListResponse, error)
	GetChat(ctx context.Context, id int) (*api.ChatDetail, error)
	CreateChat(ctx context.Context, title string) (*api.CreateChatResponse, error)
	DeleteChat(ctx context.Context, id int) error
	SendMessage(ctx context.Context, id int, content string) error
}

// Client wraps a Backend with fetch-through caching and the explicit
// invalidation table documented in this package's doc comment.
type Client struct {
	backend Backend
	store   *Store
}

// NewClient creates a cached client over the given backend.
func NewClient(backend Backend) *Client {
	return &Client{backend: backend, store: NewStore()}
}

// Store exposes the underlying store (for stats display and sign-out).
func (c *Client) Store() *Store {
	return c.store
}

// ListChats returns the cached chat list, fetching on miss.
func (c *Client) ListChats(ctx context.Context) (*api.ChatListResponse, error) {
	if v, ok := c.store.Get(KeyChatList); ok {
		return v.(*api.ChatListResponse), nil
	}
	resp, err := c.backend.ListChats(ctx)
	if err != nil {
		return nil, err
	}
	c.store.Put(KeyChatList, resp)
	return resp, nil
}

// GetChat returns the cached detail for id, fetching on miss. Errors are
// never cached: a not-found today may exist after the next create.
func (c *Client) GetChat(ctx context.Context, id int) (*api.ChatDetail, error) {
	key := KeyChatDetail(id)
	if v, ok := c.store.Get(key); ok {
		return v.(*api.ChatDetail), nil
	}
	resp, err := c.backend.GetChat(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store.Put(key, resp)
	return resp, nil
}

// CreateChat creates a chat and invalidates the chat list.
func (c *Client) CreateChat(ctx context.Context, title string) (*api.CreateChatResponse, error) {
	resp, err := c.backend.CreateChat(ctx, title)
	if err != nil {
		return nil, err
	}
	c.store.Invalidate(KeyChatList)
	return resp, nil
}

// DeleteChat deletes a chat and invalidates both the list and that
// chat's detail entry.
func (c *Client) DeleteChat(ctx context.Context, id int) error {
	if err := c.backend.DeleteChat(ctx, id); err != nil {
		return err
	}
	c.store.Invalidate(KeyChatList)
	c.store.Invalidate(KeyChatDetail(id))
	return nil
}

// SendMessage submits user text and invalidates the detail entry for
// that chat, so the next GetChat observes the confirmed message pair.
// The list keeps its entry: its ordering only refreshes on the next
// create or delete, matching the backend contract.
func (c *Client) SendMessage(ctx context.Context, id int, content string) error {
	if err := c.backend.SendMessage(ctx, id, content); err != nil {
		return err
	}
	c.store.Invalidate(KeyChatDetail(id))
	return nil
}
