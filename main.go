// fintrack - a terminal dashboard for your personal finances.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/fintrack-tui/internal/api"
	"github.com/jeranaias/fintrack-tui/internal/cache"
	"github.com/jeranaias/fintrack-tui/internal/config"
	"github.com/jeranaias/fintrack-tui/internal/session"
	"github.com/jeranaias/fintrack-tui/internal/storage"
	"github.com/jeranaias/fintrack-tui/internal/ui/dashboard"
	"github.com/jeranaias/fintrack-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a config file (default ~/.fintrack/config.toml)")
		baseURL    = flag.String("base-url", "", "backend API base URL, overrides config")
		doLogin    = flag.Bool("login", false, "sign in from the terminal and exit")
		doRegister = flag.Bool("register", false, "create a new account from the terminal and exit")
		doLogout   = flag.Bool("logout", false, "discard the stored session token and exit")
		version    = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("fintrack %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		cfg.APIBaseURL = strings.TrimSuffix(*baseURL, "/")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	dir, err := config.ConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so diagnostics go to a file.
	logFile := setupLogging(dir)
	if logFile != nil {
		defer logFile.Close()
	}

	client := api.NewClient(cfg.APIBaseURL).WithTimeout(cfg.Timeout())
	sess := session.NewManager(client, session.NewKeystore(dir))

	switch {
	case *doLogin:
		runLogin(sess)
		return
	case *doRegister:
		runRegister(client, sess)
		return
	case *doLogout:
		runLogout(sess)
		return
	}

	runTUI(cfg, client, sess, dir)
}

// loadConfig loads from an explicit path when given, otherwise from the
// default locations, and applies environment overrides on top.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// setupLogging redirects the standard logger to ~/.fintrack/fintrack.log.
// Log lines never contain raw token values, only fingerprints.
func setupLogging(dir string) *os.File {
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.SetOutput(os.Stderr)
		return nil
	}
	path := filepath.Join(dir, "fintrack.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		log.SetOutput(os.Stderr)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	return f
}

// =============================================================================
// ONE-SHOT CLI COMMANDS
// =============================================================================

// runLogin signs in from the terminal and persists the token, so the next
// TUI launch starts authenticated.
func runLogin(sess *session.Manager) {
	fmt.Print("Username: ")
	var username string
	if _, err := fmt.Scanln(&username); err != nil {
		fmt.Fprintln(os.Stderr, "Error: could not read username")
		os.Exit(1)
	}

	fmt.Print("Password: ")
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read password: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ok, err := sess.Login(ctx, strings.TrimSpace(username), string(passBytes))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "Login failed: invalid credentials")
		os.Exit(1)
	}

	name := username
	if id := sess.CurrentIdentity(); id.User != nil {
		name = id.User.DisplayName()
	}
	fmt.Printf("Signed in as %s. Run fintrack to open the dashboard.\n", name)
}

// runRegister creates an account and signs straight into it, mirroring the
// register-then-redirect flow of the web client.
func runRegister(client *api.Client, sess *session.Manager) {
	fmt.Print("Username: ")
	var username string
	if _, err := fmt.Scanln(&username); err != nil {
		fmt.Fprintln(os.Stderr, "Error: could not read username")
		os.Exit(1)
	}

	fmt.Print("Email: ")
	var email string
	if _, err := fmt.Scanln(&email); err != nil {
		fmt.Fprintln(os.Stderr, "Error: could not read email")
		os.Exit(1)
	}

	fmt.Print("Password: ")
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read password: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req := api.RegisterRequest{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: string(passBytes),
	}
	if err := client.Register(ctx, req); err != nil {
		fmt.Fprintf(os.Stderr, "Registration failed: %v\n", err)
		os.Exit(1)
	}

	ok, err := sess.Login(ctx, req.Username, req.Password)
	if err != nil || !ok {
		fmt.Printf("Account created. Run fintrack --login to sign in.\n")
		return
	}
	fmt.Printf("Account created and signed in as %s. Run fintrack to open the dashboard.\n", req.Username)
}

func runLogout(sess *session.Manager) {
	if err := sess.Logout(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Signed out.")
}

// =============================================================================
// TUI
// =============================================================================

func runTUI(cfg *config.Config, client *api.Client, sess *session.Manager, dir string) {
	// Durable cache survives restarts; if it cannot open, run memory-only.
	var store *storage.Store
	if s, err := storage.Open(filepath.Join(dir, "cache.db")); err == nil {
		store = s
		defer store.Close()
	} else {
		log.Printf("cache store unavailable, running memory-only: %v", err)
	}

	gateway := cache.New(store).WithAuthHook(sess.HandleAuthError)

	styles.ApplyThemeMode(cfg.UI.Theme)

	m := dashboard.New(cfg, client, sess, gateway)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Session transitions raised outside the update loop (the cache's auth
	// hook firing on a dead token) are forwarded in as messages.
	sess.Subscribe(func(s session.State) {
		p.Send(dashboard.SessionChanged(s))
	})

	// Config edits (freshness windows, theme, date format) apply live.
	if path, err := config.ConfigPathTOML(); err == nil {
		if w, werr := config.NewWatcher(path, func(updated *config.Config) {
			updated.ApplyEnvOverrides()
			if verr := updated.Validate(); verr != nil {
				log.Printf("ignoring config change: %v", verr)
				return
			}
			*cfg = *updated
			styles.ApplyThemeMode(cfg.UI.Theme)
			log.Printf("config reloaded from %s", path)
		}); werr == nil {
			if werr := w.Watch(); werr == nil {
				defer w.Close()
			}
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running fintrack: %v\n", err)
		os.Exit(1)
	}
}
