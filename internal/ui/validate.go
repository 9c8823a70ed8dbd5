// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"regexp"
	"strings"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// validateUsername enforces the server's username rules: 3-30 characters,
// letters, digits and underscore only. Returns "" when valid.
func validateUsername(username string) string {
	switch {
	case username == "":
		return "Username is required"
	case len(username) < 3:
		return "Username must be at least 3 characters"
	case len(username) > 30:
		return "Username must be at most 30 characters"
	case !usernameRe.MatchString(username):
		return "Username may only contain letters, numbers and underscore"
	}
	return ""
}

// validateEmail checks basic email shape. Returns "" when valid.
func validateEmail(email string) string {
	switch {
	case email == "":
		return "Email is required"
	case !emailRe.MatchString(email):
		return "Enter a valid email address"
	}
	return ""
}

// validatePassword enforces the registration password rule. Returns ""
// when valid.
func validatePassword(password string) string {
	switch {
	case password == "":
		return "Password is required"
	case len(password) < 6:
		return "Password must be at least 6 characters"
	}
	return ""
}

// validateConfirm checks the password confirmation. Returns "" when valid.
func validateConfirm(password, confirm string) string {
	switch {
	case confirm == "":
		return "Confirm your password"
	case confirm != password:
		return "Passwords do not match"
	}
	return ""
}

// validateLoginPassword only requires presence: existing accounts may
// predate the length rule.
func validateLoginPassword(password string) string {
	if strings.TrimSpace(password) == "" {
		return "Password is required"
	}
	return ""
}
