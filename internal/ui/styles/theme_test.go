// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme_StylesRender(t *testing.T) {
	theme := NewTheme()

	// A zero-value style renders its input unchanged; every configured
	// style must at least round-trip content.
	checks := map[string]string{
		"header":    theme.Header.Render("chatterm"),
		"user":      theme.UserBubble.Render("hello"),
		"assistant": theme.AssistantBubble.Render("hi there"),
		"selected":  theme.SidebarSelected.Render("a chat"),
		"error":     theme.StatusError.Render("boom"),
		"form":      theme.FormBox.Render("content"),
	}
	for name, out := range checks {
		if out == "" {
			t.Errorf("%s style rendered empty output", name)
		}
	}

	if !strings.Contains(theme.UserBubble.Render("payload"), "payload") {
		t.Error("style output must contain the rendered text")
	}
}

func TestCenter(t *testing.T) {
	out := Center(20, 5, "x")
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Errorf("Center produced %d lines, want 5", len(lines))
	}
	if !strings.Contains(out, "x") {
		t.Error("Center lost its content")
	}
}
