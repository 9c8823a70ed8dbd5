// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SetGetClear(t *testing.T) {
	store := NewFileStore(t.TempDir())

	assert.Empty(t, store.Get(), "fresh store should have no token")

	require.NoError(t, store.Set("tok-123"))
	assert.Equal(t, "tok-123", store.Get())

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Get())

	// Clearing twice must not fail.
	require.NoError(t, store.Clear())
}

func TestFileStore_ExpiredTokenReadsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	// Write a token that expired yesterday, bypassing Set.
	data, err := json.Marshal(storedToken{
		AccessToken: "stale",
		ExpiresAt:   time.Now().Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, tokenFileName), data, 0o600))

	assert.Empty(t, store.Get(), "expired token must read as absent")

	// The stale file should have been removed eagerly.
	_, statErr := os.Stat(filepath.Join(dir, tokenFileName))
	assert.True(t, os.IsNotExist(statErr), "expired token file should be removed")
}

func TestFileStore_CorruptFileReadsAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, tokenFileName), []byte("{not json"), 0o600))
	assert.Empty(t, store.Get())
}

func TestFileStore_TokenFilePermissions(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	require.NoError(t, store.Set("secret"))

	info, err := os.Stat(filepath.Join(dir, tokenFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "token file must not be group/world readable")
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	assert.Empty(t, store.Get())
	require.NoError(t, store.Set("abc"))
	assert.Equal(t, "abc", store.Get())
	require.NoError(t, store.Clear())
	assert.Empty(t, store.Get())
}
