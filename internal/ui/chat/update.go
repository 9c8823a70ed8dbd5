// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/chatterm/internal/api"
)

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpWidth := m.width - sidebarWidth - 2
		vpHeight := m.height - 6
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(vpWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = vpWidth
			m.viewport.Height = vpHeight
		}
		m.input.Width = vpWidth - 4
		m.rebuildRenderer()
		m.refreshViewport()
		return m, nil

	case SessionChangedMsg:
		m.refreshViewport()
		m.syncCursor()
		return m, nil

	case spinner.TickMsg:
		if !m.sess.Snapshot().HasPending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		m.refreshViewport()
		return m, cmd

	case chatsLoadedMsg:
		if msg.err != nil {
			m.statusErr = "Could not load chats: " + msg.err.Error()
			return m, nil
		}
		m.chats = msg.resp.Chats
		m.syncCursor()
		return m, nil

	case detailLoadedMsg:
		if msg.err != nil {
			m.statusErr = msg.err.Error()
		}
		m.refreshViewport()
		m.syncCursor()
		return m, nil

	case submitResultMsg:
		if msg.err != nil {
			m.statusErr = submitErrorText(msg.err)
			m.logger.Warn("submit failed", zap.Error(msg.err))
			return m, nil
		}
		// Input clears only after the send is confirmed.
		m.input.SetValue("")
		m.statusErr = ""
		return m, m.loadChatsCmd()

	case deleteResultMsg:
		if msg.err != nil {
			m.statusErr = "Could not delete chat: " + msg.err.Error()
			return m, nil
		}
		if msg.id == m.sess.ActiveChatID() {
			m.sess.NewChat()
		}
		return m, m.loadChatsCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil

	case "ctrl+n":
		m.sess.NewChat()
		m.cursor = -1
		m.focus = focusInput
		m.input.Focus()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}

	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.statusErr = ""
		return m, tea.Batch(m.submitCmd(text), m.spin.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > -1 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.chats)-1 {
			m.cursor++
		}
		return m, nil

	case "enter":
		if m.cursor < 0 {
			m.sess.NewChat()
			m.focus = focusInput
			m.input.Focus()
			return m, nil
		}
		m.sess.SelectChat(m.chats[m.cursor].ID)
		m.focus = focusInput
		m.input.Focus()
		return m, m.loadDetailCmd()

	case "d", "delete":
		if m.cursor >= 0 && m.cursor < len(m.chats) {
			return m, m.deleteChatCmd(m.chats[m.cursor].ID)
		}
		return m, nil
	}
	return m, nil
}

// submitErrorText maps submission failures to a short status line.
func submitErrorText(err error) string {
	switch {
	case api.IsUnauthorized(err):
		return "Session expired, sign in again"
	case errors.Is(err, api.ErrRateLimited):
		return "Slow down - too many messages"
	default:
		return "Message not sent: " + err.Error()
	}
}
