// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/chatterm/internal/api"
)

func TestSubmitErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", api.ErrUnauthorized, "sign in again"},
		{"rate limited", api.ErrRateLimited, "Slow down"},
		{"network", errors.New("connection refused"), "Message not sent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := submitErrorText(tt.err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("submitErrorText(%v) = %q, want substring %q", tt.err, got, tt.want)
			}
		})
	}
}
