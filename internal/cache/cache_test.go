// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatterm/internal/api"
)

// fakeBackend counts calls and hands out fresh response objects, the way
// the real client decodes a fresh struct per fetch.
type fakeBackend struct {
	listCalls   int
	detailCalls map[int]int
	failGet     error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{detailCalls: make(map[int]int)}
}

func (f *fakeBackend) ListChats(ctx context.Context) (*api.ChatListResponse, error) {
	f.listCalls++
	return &api.ChatListResponse{Chats: []api.ChatListItem{{ID: 1, Title: "one"}}}, nil
}

func (f *fakeBackend) GetChat(ctx context.Context, id int) (*api.ChatDetail, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	f.detailCalls[id]++
	return &api.ChatDetail{ID: id, Title: "chat"}, nil
}

func (f *fakeBackend) CreateChat(ctx context.Context, title string) (*api.CreateChatResponse, error) {
	return &api.CreateChatResponse{ID: 42, Title: title}, nil
}

func (f *fakeBackend) DeleteChat(ctx context.Context, id int) error   { return nil }
func (f *fakeBackend) SendMessage(ctx context.Context, id int, content string) error {
	return nil
}

// =============================================================================
// FETCH-THROUGH
// =============================================================================

func TestGetChat_CachedPerID(t *testing.T) {
	backend := newFakeBackend()
	client := NewClient(backend)
	ctx := context.Background()

	first, err := client.GetChat(ctx, 7)
	require.NoError(t, err)
	second, err := client.GetChat(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, 1, backend.detailCalls[7], "second read must be served from cache")
	assert.Same(t, first, second, "cache hit must return the identical response object")

	_, err = client.GetChat(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.detailCalls[8], "detail entries are keyed per id")
}

func TestListChats_Cached(t *testing.T) {
	backend := newFakeBackend()
	client := NewClient(backend)
	ctx := context.Background()

	_, err := client.ListChats(ctx)
	require.NoError(t, err)
	_, err = client.ListChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.listCalls)
}

func TestGetChat_ErrorsAreNotCached(t *testing.T) {
	backend := newFakeBackend()
	client := NewClient(backend)
	ctx := context.Background()

	backend.failGet = api.ErrNotFound
	_, err := client.GetChat(ctx, 9)
	require.ErrorIs(t, err, api.ErrNotFound)

	backend.failGet = nil
	chat, err := client.GetChat(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, chat.ID, "a failed fetch must not poison the cache")
}

// =============================================================================
// INVALIDATION TABLE
// =============================================================================

func TestCreateChat_InvalidatesList(t *testing.T) {
	backend := newFakeBackend()
	client := NewClient(backend)
	ctx := context.Background()

	_, err := client.ListChats(ctx)
	require.NoError(t, err)

	_, err = client.CreateChat(ctx, "fresh")
	require.NoError(t, err)

	_, err = client.ListChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.listCalls, "create must force the next list read to refetch")
}

func TestSendMessage_InvalidatesOnlyThatDetail(t *testing.T) {
	backend := newFakeBackend()
	client := NewClient(backend)
	ctx := context.Background()

	before7, err := client.GetChat(ctx, 7)
	require.NoError(t, err)
	_, err = client.GetChat(ctx, 8)
	require.NoError(t, err)

	require.NoError(t, client.SendMessage(ctx, 7, "hello"))

	after7, err := client.GetChat(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.detailCalls[7], "send must invalidate that chat's detail")
	assert.NotSame(t, before7, after7, "refetch must produce a new response object")

	_, err = client.GetChat(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.detailCalls[8], "other chats keep their cache entries")
}

func TestDeleteChat_InvalidatesListAndDetail(t *testing.T) {
	backend := newFakeBackend()
	client := NewClient(backend)
	ctx := context.Background()

	_, err := client.ListChats(ctx)
	require.NoError(t, err)
	_, err = client.GetChat(ctx, 5)
	require.NoError(t, err)

	require.NoError(t, client.DeleteChat(ctx, 5))

	_, err = client.ListChats(ctx)
	require.NoError(t, err)
	_, err = client.GetChat(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.listCalls)
	assert.Equal(t, 2, backend.detailCalls[5])
}

// =============================================================================
// STORE
// =============================================================================

func TestStore_Stats(t *testing.T) {
	store := NewStore()
	store.Get(KeyChatList) // miss
	store.Put(KeyChatList, &api.ChatListResponse{})
	store.Get(KeyChatList) // hit

	stats := store.GetStats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestStore_Clear(t *testing.T) {
	store := NewStore()
	store.Put(KeyChatList, &api.ChatListResponse{})
	store.Put(KeyChatDetail(1), &api.ChatDetail{})
	store.Clear()
	assert.Equal(t, 0, store.GetStats().Entries)
}
