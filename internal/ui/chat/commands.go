// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatterm/internal/api"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SessionChangedMsg signals that the session view-model changed. The
// program wiring forwards session notifications as this message so the
// view re-reads its snapshot.
type SessionChangedMsg struct{}

// chatsLoadedMsg carries the sidebar chat list.
type chatsLoadedMsg struct {
	resp *api.ChatListResponse
	err  error
}

// detailLoadedMsg signals that the active chat's detail fetch finished.
type detailLoadedMsg struct {
	err error
}

// submitResultMsg signals that a submission finished.
type submitResultMsg struct {
	err error
}

// deleteResultMsg signals that a chat deletion finished.
type deleteResultMsg struct {
	id  int
	err error
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) loadChatsCmd() tea.Cmd {
	return func() tea.Msg {
		resp, err := m.data.ListChats(context.Background())
		return chatsLoadedMsg{resp: resp, err: err}
	}
}

func (m Model) loadDetailCmd() tea.Cmd {
	return func() tea.Msg {
		return detailLoadedMsg{err: m.sess.LoadDetail(context.Background())}
	}
}

func (m Model) submitCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return submitResultMsg{err: m.sess.Submit(context.Background(), text)}
	}
}

func (m Model) deleteChatCmd(id int) tea.Cmd {
	return func() tea.Msg {
		return deleteResultMsg{id: id, err: m.data.DeleteChat(context.Background(), id)}
	}
}
