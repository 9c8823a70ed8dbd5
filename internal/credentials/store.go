// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credentials persists the bearer token for the chat backend.
//
// The browser client kept the token in a cookie with a 7-day expiry; the
// terminal client keeps the same contract in a mode-0600 JSON file under
// the user's config directory. The store is an interface injected into
// the API client rather than a process-wide singleton, so the data layer
// never reaches into global state and tests can swap in memory.
package credentials

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jeranaias/chatterm/internal/util"
)

// TokenTTL mirrors the 7-day cookie expiry of the web client.
const TokenTTL = 7 * 24 * time.Hour

// tokenFileName is the file under the config dir holding the token.
const tokenFileName = "token.json"

// Store holds a single bearer token. Get returns "" when no valid token
// is present (never set, cleared, or expired).
type Store interface {
	Get() string
	Set(token string) error
	Clear() error
}

// =============================================================================
// FILE STORE
// =============================================================================

// storedToken is the on-disk shape.
type storedToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FileStore persists the token to a JSON file with atomic writes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store rooted at the given config directory
// (typically ~/.chatterm).
func NewFileStore(configDir string) *FileStore {
	return &FileStore{path: filepath.Join(configDir, tokenFileName)}
}

// Get returns the stored token, or "" if absent or expired. An expired
// token is removed eagerly so a later Set starts clean.
func (s *FileStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}

	var tok storedToken
	if err := json.Unmarshal(data, &tok); err != nil {
		// Corrupt token file: treat as logged out.
		os.Remove(s.path)
		return ""
	}

	if tok.AccessToken == "" || time.Now().After(tok.ExpiresAt) {
		os.Remove(s.path)
		return ""
	}
	return tok.AccessToken
}

// Set stores the token with a fresh 7-day expiry.
func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(storedToken{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(TokenTTL),
	}, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path, data, 0o600)
}

// Clear removes the stored token. Clearing an absent token is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the current token.
func (s *MemoryStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Set replaces the current token.
func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the current token.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
