// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/session"
	"github.com/jeranaias/chatterm/internal/util"
)

// refreshViewport re-renders the message list into the viewport and
// keeps it pinned to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessages() string {
	items := m.sess.VisibleMessages()
	if len(items) == 0 {
		return m.theme.ThinkingText.Render("Start a conversation by typing below.")
	}

	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(item))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderMessage(item session.Item) string {
	if item.Pending {
		return m.theme.AssistantBubble.Render(
			m.spin.View() + " " + m.theme.ThinkingText.Render("thinking"))
	}

	label := "assistant"
	bubble := m.theme.AssistantBubble
	if item.Role == api.RoleUser {
		label = "you"
		bubble = m.theme.UserBubble
	}

	header := m.theme.HeaderMeta.Render(label)
	if ts := util.ClockTime(item.CreatedAt); ts != "" {
		header += " " + m.theme.Timestamp.Render(ts)
	}

	body := item.Content
	if item.Role == api.RoleBot && m.renderer != nil {
		if out, err := m.renderer.Render(item.Content); err == nil {
			body = strings.TrimRight(out, "\n")
		}
	}

	return header + "\n" + bubble.Render(body)
}

// =============================================================================
// SIDEBAR
// =============================================================================

// renderSidebar renders the chat list grouped by calendar day, newest
// first, matching the order the backend returns.
func (m *Model) renderSidebar() string {
	var b strings.Builder

	newChat := "+ new chat"
	if m.cursor == -1 && m.focus == focusSidebar {
		b.WriteString(m.theme.SidebarSelected.Render(newChat))
	} else {
		b.WriteString(m.theme.SidebarNewChat.Render(newChat))
	}
	b.WriteString("\n\n")

	if len(m.chats) == 0 {
		b.WriteString(m.theme.SidebarEmpty.Render("No chats yet"))
		return m.theme.Sidebar.Height(m.height - 2).Render(b.String())
	}

	now := time.Now()
	lastGroup := ""
	for i, c := range m.chats {
		group := util.RelativeDate(util.ParseServerTime(c.CreatedAt), now)
		if group != lastGroup {
			if lastGroup != "" {
				b.WriteString("\n")
			}
			b.WriteString(m.theme.SidebarGroup.Render(group))
			b.WriteString("\n")
			lastGroup = group
		}

		title := util.TruncateWidth(c.Title, sidebarWidth-4)
		if i == m.cursor {
			b.WriteString(m.theme.SidebarSelected.Render(title))
		} else {
			b.WriteString(m.theme.SidebarItem.Render(title))
		}
		b.WriteString("\n")
	}

	return m.theme.Sidebar.Height(m.height - 2).Render(b.String())
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full chat screen.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	snap := m.sess.Snapshot()
	title := snap.Title
	if title == "" {
		title = "New chat"
	}

	header := m.theme.HeaderTitle.Render(util.TruncateWidth(title, m.viewport.Width))

	status := m.theme.ShortcutKey.Render("tab") + m.theme.ShortcutDesc.Render(" switch pane  ") +
		m.theme.ShortcutKey.Render("ctrl+n") + m.theme.ShortcutDesc.Render(" new chat  ") +
		m.theme.ShortcutKey.Render("ctrl+c") + m.theme.ShortcutDesc.Render(" quit")
	if m.statusErr != "" {
		status = m.theme.StatusError.Render(m.statusErr)
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		m.theme.InputContainer.Render(m.input.View()),
		m.theme.StatusBar.Render(status),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
}
