// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main chat view: a sidebar of past chats
// grouped by day, a message viewport, and the composer input.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/cache"
	"github.com/jeranaias/chatterm/internal/session"
	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// focusArea identifies which pane has keyboard focus.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

const sidebarWidth = 30

// Model is the chat view.
type Model struct {
	theme  *styles.Theme
	sess   *session.Session
	data   *cache.Client
	logger *zap.Logger

	chats  []api.ChatListItem
	cursor int // index into chats, -1 = the new-chat row
	focus  focusArea

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer
	markdown bool

	width  int
	height int
	ready  bool

	statusErr string
}

// New creates the chat view bound to the session and the cached data
// layer. markdown controls whether assistant replies render through
// glamour.
func New(theme *styles.Theme, sess *session.Session, data *cache.Client, logger *zap.Logger, markdown bool) Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	if logger == nil {
		logger = zap.NewNop()
	}

	return Model{
		theme:    theme,
		sess:     sess,
		data:     data,
		logger:   logger,
		cursor:   -1,
		input:    input,
		spin:     spin,
		markdown: markdown,
	}
}

// Init loads the chat list and starts the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadChatsCmd(), m.spin.Tick, textinput.Blink)
}

// rebuildRenderer sizes the markdown renderer to the message column.
func (m *Model) rebuildRenderer() {
	if !m.markdown {
		return
	}
	wrap := m.width - sidebarWidth - 6
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable", zap.Error(err))
		m.renderer = nil
		return
	}
	m.renderer = r
}

// SetMarkdown toggles markdown rendering of assistant replies, used when
// the config file changes on disk mid-session.
func (m *Model) SetMarkdown(enabled bool) {
	m.markdown = enabled
	if enabled {
		m.rebuildRenderer()
	} else {
		m.renderer = nil
	}
	m.refreshViewport()
}

// syncCursor points the sidebar cursor at the session's active chat.
func (m *Model) syncCursor() {
	active := m.sess.ActiveChatID()
	m.cursor = -1
	for i, c := range m.chats {
		if c.ID == active {
			m.cursor = i
			return
		}
	}
}
