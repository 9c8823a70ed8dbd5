// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides the keyed response cache between the UI and the
// chat backend.
//
// The invalidation table is small and finite, so it is written out
// explicitly instead of hiding behind a generic tag system:
//
//	read           key            invalidated by
//	ListChats      list           CreateChat, DeleteChat
//	GetChat(id)    detail/<id>    SendMessage(id), DeleteChat(id)
//
// Every fetch stores the decoded response object as-is; a cache hit
// returns the same object. The session view-model relies on this:
// "a new response object arrived" is exactly "the pointer changed".
package cache

import (
	"strconv"
	"sync"
)

// Key identifies a cached response.
type Key string

// KeyChatList is the cache key for the chat list.
const KeyChatList Key = "list"

// KeyChatDetail returns the cache key for one chat's detail.
func KeyChatDetail(id int) Key {
	return Key("detail/" + strconv.Itoa(id))
}

// Store is a mutex-guarded map of response objects keyed by Key.
type Store struct {
	mu      sync.Mutex
	entries map[Key]any

	// Statistics
	hits   int
	misses int
}

// Stats holds cache statistics.
type Stats struct {
	Hits    int
	Misses  int
	Entries int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[Key]any)}
}

// Get returns the cached value for key, if present.
func (s *Store) Get(key Key) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	if ok {
		s.hits++
	} else {
		s.misses++
	}
	return v, ok
}

// Put stores a value under key, replacing any previous entry.
func (s *Store) Put(key Key, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = v
}

// Invalidate drops the entry for key. The next Get misses, which is what
// triggers dependent views to refetch.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Clear drops every entry. Used on sign-out so no chat content survives
// a credential change.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[Key]any)
}

// GetStats returns cache statistics.
func (s *Store) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Hits: s.hits, Misses: s.misses, Entries: len(s.entries)}
}
