// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the top-level application model: routing between
// the sign-in, registration and chat views, with auth gating.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/cache"
	"github.com/jeranaias/chatterm/internal/session"
	"github.com/jeranaias/chatterm/internal/ui/chat"
	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// route identifies the active view.
type route int

const (
	routeLogin route = iota
	routeRegister
	routeChat
)

// signedInMsg switches to the chat view after authentication.
type signedInMsg struct{}

// ConfigReloadedMsg is sent from outside the program when the config
// file changed on disk.
type ConfigReloadedMsg struct {
	Markdown bool
}

// UnauthorizedMsg is sent from outside the program when the backend
// rejects the bearer token mid-session. The stored token is already
// cleared by the API client; the app drops cached chat data and returns
// to the sign-in view.
type UnauthorizedMsg struct{}

// App is the root model.
type App struct {
	theme  *styles.Theme
	data   *cache.Client
	sess   *session.Session
	logger *zap.Logger

	route    route
	login    loginModel
	register registerModel
	chat     chat.Model

	width  int
	height int
}

// NewApp creates the root model. authenticated selects the initial
// route: straight to chat when a valid token is on disk.
func NewApp(theme *styles.Theme, client *api.Client, data *cache.Client, sess *session.Session, logger *zap.Logger, markdown, authenticated bool) App {
	if logger == nil {
		logger = zap.NewNop()
	}

	app := App{
		theme:    theme,
		data:     data,
		sess:     sess,
		logger:   logger,
		login:    newLoginModel(theme, client),
		register: newRegisterModel(theme, client),
		chat:     chat.New(theme, sess, data, logger, markdown),
	}
	if authenticated {
		app.route = routeChat
	}
	return app
}

// Init starts the active view.
func (a App) Init() tea.Cmd {
	if a.route == routeChat {
		return a.chat.Init()
	}
	return a.login.Init()
}

// Update routes messages to the active view.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+r":
			if a.route == routeLogin {
				a.route = routeRegister
				return a, a.register.Init()
			}
		case "esc":
			if a.route == routeRegister {
				a.route = routeLogin
				return a, a.login.Init()
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd

	case UnauthorizedMsg:
		a.logger.Info("session expired, returning to sign-in")
		a.data.Store().Clear()
		a.sess.NewChat()
		a.route = routeLogin
		a.login = newLoginModel(a.login.theme, a.login.client)
		a.login.serverErr = "Session expired, sign in again"
		return a, a.login.Init()

	case ConfigReloadedMsg:
		a.chat.SetMarkdown(msg.Markdown)
		return a, nil

	case signedInMsg:
		a.route = routeChat
		return a, a.chat.Init()
	}

	var cmd tea.Cmd
	switch a.route {
	case routeLogin:
		a.login, cmd = a.login.Update(msg)
	case routeRegister:
		a.register, cmd = a.register.Update(msg)
	case routeChat:
		a.chat, cmd = a.chat.Update(msg)
	}
	return a, cmd
}

// View renders the active view. Forms are centered; chat fills the
// screen.
func (a App) View() string {
	switch a.route {
	case routeLogin:
		return a.center(a.login.View())
	case routeRegister:
		return a.center(a.register.View())
	default:
		return a.chat.View()
	}
}

func (a App) center(content string) string {
	if a.width == 0 {
		return content
	}
	return styles.Center(a.width, a.height, content)
}
