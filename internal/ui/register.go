// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// registerResultMsg carries the outcome of a registration attempt.
type registerResultMsg struct {
	err error
}

const (
	regFieldUsername = iota
	regFieldEmail
	regFieldPassword
	regFieldConfirm
	regFieldCount
)

// registerModel is the account creation form. A successful registration
// signs the user in directly.
type registerModel struct {
	theme  *styles.Theme
	client *api.Client

	inputs [regFieldCount]textinput.Model
	focus  int

	fieldErrs [regFieldCount]string
	serverErr string
	busy      bool
}

func newRegisterModel(theme *styles.Theme, client *api.Client) registerModel {
	m := registerModel{theme: theme, client: client}

	labels := [regFieldCount]string{"username", "email", "password", "confirm password"}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		if i == regFieldPassword || i == regFieldConfirm {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		m.inputs[i] = in
	}
	m.inputs[regFieldUsername].CharLimit = 30
	m.inputs[regFieldUsername].Focus()
	return m
}

func (m registerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m registerModel) registerCmd(username, password, email string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := m.client.Register(ctx, username, password, email); err != nil {
			return registerResultMsg{err: err}
		}
		// The backend does not auto-issue a token on signup.
		return registerResultMsg{err: m.client.SignIn(ctx, username, password)}
	}
}

func (m *registerModel) setFocus(i int) {
	m.focus = (i + regFieldCount) % regFieldCount
	for j := range m.inputs {
		if j == m.focus {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		m.busy = false
		if msg.err != nil {
			var apiErr *api.APIError
			if errors.As(msg.err, &apiErr) && apiErr.Message != "" {
				m.serverErr = apiErr.Message
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
		case "tab", "down":
			m.setFocus(m.focus + 1)
			return m, nil
		case "shift+tab", "up":
			m.setFocus(m.focus - 1)
			return m, nil

		case "enter":
			if m.focus < regFieldConfirm {
				m.setFocus(m.focus + 1)
				return m, nil
			}
			if !m.validateInto(&m.fieldErrs) {
				return m, nil
			}
			m.serverErr = ""
			m.busy = true
			return m, m.registerCmd(
				strings.TrimSpace(m.inputs[regFieldUsername].Value()),
				m.inputs[regFieldPassword].Value(),
				strings.TrimSpace(m.inputs[regFieldEmail].Value()),
			)
		}
	}

	var cmds [regFieldCount]tea.Cmd
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds[:]...)
}

// validateInto runs all field validators into errs and reports whether
// every field passed.
func (m *registerModel) validateInto(errs *[regFieldCount]string) bool {
	username := strings.TrimSpace(m.inputs[regFieldUsername].Value())
	password := m.inputs[regFieldPassword].Value()
	errs[regFieldUsername] = validateUsername(username)
	errs[regFieldEmail] = validateEmail(strings.TrimSpace(m.inputs[regFieldEmail].Value()))
	errs[regFieldPassword] = validatePassword(password)
	errs[regFieldConfirm] = validateConfirm(password, m.inputs[regFieldConfirm].Value())

	for _, e := range errs {
		if e != "" {
			return false
		}
	}
	return true
}

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString(m.theme.FormTitle.Render("Create your chatterm account"))
	b.WriteString("\n\n")

	labels := [regFieldCount]string{"Username", "Email", "Password", "Confirm password"}
	for i := range m.inputs {
		b.WriteString(m.theme.FormLabel.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
		if m.fieldErrs[i] != "" {
			b.WriteString(m.theme.FormFieldError.Render(m.fieldErrs[i]))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.serverErr != "" {
		b.WriteString(m.theme.StatusError.Render(m.serverErr))
		b.WriteString("\n\n")
	}

	if m.busy {
		b.WriteString(m.theme.ThinkingText.Render("Creating account..."))
	} else {
		b.WriteString(m.theme.FormHint.Render("enter submit · esc back to sign in · ctrl+c quit"))
	}

	return m.theme.FormBox.Render(b.String())
}
