// chatterm - a terminal client for the chat backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/cache"
	"github.com/jeranaias/chatterm/internal/config"
	"github.com/jeranaias/chatterm/internal/credentials"
	"github.com/jeranaias/chatterm/internal/logging"
	"github.com/jeranaias/chatterm/internal/session"
	"github.com/jeranaias/chatterm/internal/ui"
	"github.com/jeranaias/chatterm/internal/ui/chat"
	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			fmt.Printf("chatterm %s (%s, %s)\n", Version, GitCommit, BuildDate)
			return
		case "logout":
			if err := logout(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Signed out.")
			return
		case "help", "--help", "-h":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
			printUsage()
			os.Exit(1)
		}
	}

	if err := runTUI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: chatterm [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  (none)    start the chat interface")
	fmt.Println("  logout    drop the stored session token")
	fmt.Println("  version   print version information")
	fmt.Println()
	fmt.Println("Config: ~/.chatterm/config.toml (CHATTERM_SERVER_URL overrides the server)")
}

func logout() error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	return credentials.NewFileStore(dir).Clear()
}

func runTUI() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("chatterm requires an interactive terminal")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	logPath := cfg.Log.Path
	if logPath == "" {
		logPath = filepath.Join(dir, "chatterm.log")
	}
	logger, err := logging.New(cfg.Log.Level, logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logger.Sync()

	creds := credentials.NewFileStore(dir)
	client := api.NewClient(cfg.Server.BaseURL, creds, logger).
		WithTimeout(time.Duration(cfg.Server.TimeoutSecs) * time.Second)
	data := cache.NewClient(client)
	sess := session.New(data)

	theme := styles.NewTheme()
	app := ui.NewApp(theme, client, data, sess, logger, cfg.UI.Markdown, client.IsAuthenticated())

	p := tea.NewProgram(app, tea.WithAltScreen())

	// The session notifies on every state change; forward it into the
	// program so the view re-reads its snapshot.
	sess.Subscribe(func() {
		p.Send(chat.SessionChangedMsg{})
	})

	// A rejected bearer token anywhere forces navigation back to login.
	client.OnUnauthorized = func() {
		p.Send(ui.UnauthorizedMsg{})
	}

	// Live-reload the config file; only the UI options apply mid-session.
	if cfgPath, err := config.ConfigPath(); err == nil {
		if w, err := config.NewWatcher(cfgPath, func(next *config.Config) {
			logger.Info("config reloaded")
			p.Send(ui.ConfigReloadedMsg{Markdown: next.UI.Markdown})
		}); err == nil {
			if err := w.Watch(); err == nil {
				defer w.Close()
			}
		}
	}

	logger.Info("starting chatterm",
		zap.String("version", Version),
		zap.String("server", cfg.Server.BaseURL))

	_, err = p.Run()
	return err
}
