// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// signInResultMsg carries the outcome of a sign-in attempt.
type signInResultMsg struct {
	err error
}

// loginModel is the sign-in form: username and password with inline
// validation.
type loginModel struct {
	theme  *styles.Theme
	client *api.Client

	username textinput.Model
	password textinput.Model
	focus    int

	fieldErrs [2]string
	serverErr string
	busy      bool
}

func newLoginModel(theme *styles.Theme, client *api.Client) loginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 30
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	return loginModel{
		theme:    theme,
		client:   client,
		username: username,
		password: password,
	}
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) signInCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		err := m.client.SignIn(context.Background(), username, password)
		return signInResultMsg{err: err}
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case signInResultMsg:
		m.busy = false
		if msg.err != nil {
			if api.IsUnauthorized(msg.err) {
				m.serverErr = "Incorrect username or password"
			} else {
				m.serverErr = msg.err.Error()
			}
			return m, nil
		}
		return m, func() tea.Msg { return signedInMsg{} }

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focus = (m.focus + 1) % 2
			if m.focus == 0 {
				m.username.Focus()
				m.password.Blur()
			} else {
				m.username.Blur()
				m.password.Focus()
			}
			return m, nil

		case "enter":
			m.fieldErrs[0] = validateUsername(strings.TrimSpace(m.username.Value()))
			m.fieldErrs[1] = validateLoginPassword(m.password.Value())
			if m.fieldErrs[0] != "" || m.fieldErrs[1] != "" {
				return m, nil
			}
			m.serverErr = ""
			m.busy = true
			return m, m.signInCmd(strings.TrimSpace(m.username.Value()), m.password.Value())
		}
	}

	var cmds [2]tea.Cmd
	m.username, cmds[0] = m.username.Update(msg)
	m.password, cmds[1] = m.password.Update(msg)
	return m, tea.Batch(cmds[0], cmds[1])
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(m.theme.FormTitle.Render("Sign in to chatterm"))
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.username.View())
	b.WriteString("\n")
	if m.fieldErrs[0] != "" {
		b.WriteString(m.theme.FormFieldError.Render(m.fieldErrs[0]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.FormLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n")
	if m.fieldErrs[1] != "" {
		b.WriteString(m.theme.FormFieldError.Render(m.fieldErrs[1]))
		b.WriteString("\n")
	}

	if m.serverErr != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.StatusError.Render(m.serverErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.theme.ThinkingText.Render("Signing in..."))
	} else {
		b.WriteString(m.theme.FormHint.Render("enter sign in · ctrl+r register · ctrl+c quit"))
	}

	return m.theme.FormBox.Render(b.String())
}
