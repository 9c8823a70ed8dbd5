// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantOK   bool
	}{
		{"valid simple", "alice", true},
		{"valid with underscore and digits", "user_42", true},
		{"minimum length", "abc", true},
		{"maximum length", strings.Repeat("a", 30), true},
		{"empty", "", false},
		{"too short", "ab", false},
		{"too long", strings.Repeat("a", 31), false},
		{"contains dash", "user-name", false},
		{"contains space", "user name", false},
		{"contains unicode", "usér", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validateUsername(tt.username)
			if tt.wantOK && got != "" {
				t.Errorf("validateUsername(%q) = %q, want valid", tt.username, got)
			}
			if !tt.wantOK && got == "" {
				t.Errorf("validateUsername(%q) accepted, want error", tt.username)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email  string
		wantOK bool
	}{
		{"alice@example.com", true},
		{"a.b+c@sub.example.org", true},
		{"", false},
		{"not-an-email", false},
		{"missing@tld", false},
		{"two words@example.com", false},
	}
	for _, tt := range tests {
		got := validateEmail(tt.email)
		if tt.wantOK && got != "" {
			t.Errorf("validateEmail(%q) = %q, want valid", tt.email, got)
		}
		if !tt.wantOK && got == "" {
			t.Errorf("validateEmail(%q) accepted, want error", tt.email)
		}
	}
}

func TestValidatePasswordRules(t *testing.T) {
	if validatePassword("") == "" {
		t.Error("empty password accepted")
	}
	if validatePassword("short") == "" {
		t.Error("5-char password accepted")
	}
	if validatePassword("longenough") != "" {
		t.Error("valid password rejected")
	}

	if validateConfirm("secret1", "secret2") == "" {
		t.Error("mismatched confirmation accepted")
	}
	if validateConfirm("secret1", "") == "" {
		t.Error("empty confirmation accepted")
	}
	if validateConfirm("secret1", "secret1") != "" {
		t.Error("matching confirmation rejected")
	}

	if validateLoginPassword("   ") == "" {
		t.Error("blank login password accepted")
	}
	if validateLoginPassword("x") != "" {
		t.Error("login rejects short passwords, but existing accounts may have them")
	}
}
