// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jeranaias/fintrack-tui/internal/api"
	"github.com/jeranaias/fintrack-tui/internal/model"
)

// =============================================================================
// STATE MACHINE
// =============================================================================

// State is the authentication state of the session.
type State int

const (
	// StateUnauthenticated means no valid token is installed.
	StateUnauthenticated State = iota
	// StateAuthenticating means a credential exchange or token check is in
	// flight.
	StateAuthenticating
	// StateAuthenticated means a token is installed and believed valid.
	StateAuthenticated
)

// String returns the state name for logs and the status bar.
func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Identity is a snapshot of who is signed in.
type Identity struct {
	// Token is the fingerprint of the installed token, never the raw value.
	Token string
	// User is the profile of the signed-in user, nil while unknown.
	User *model.User
	// Loading is true while an auth operation is in flight.
	Loading bool
}

// GoogleResult is the outcome of a federated login attempt.
type GoogleResult struct {
	// Success mirrors the backend's verdict on the third-party credential.
	Success bool
	// User is the profile returned alongside the token.
	User *model.User
	// HasAccount reports whether any financial account is linked yet; the UI
	// routes to account setup when false.
	HasAccount bool
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager drives the authentication lifecycle. All methods are safe for
// concurrent use. State-change subscribers are invoked outside the lock.
type Manager struct {
	mu       sync.Mutex
	client   *api.Client
	keystore *Keystore

	state State
	user  *model.User

	subscribers []func(State)
}

// NewManager creates a session manager over the given API client and token
// keystore.
func NewManager(client *api.Client, keystore *Keystore) *Manager {
	return &Manager{
		client:   client,
		keystore: keystore,
		state:    StateUnauthenticated,
	}
}

// State returns the current authentication state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentIdentity returns a snapshot of the signed-in identity.
func (m *Manager) CurrentIdentity() Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Identity{
		Token:   m.client.TokenFingerprint(),
		User:    m.user,
		Loading: m.state == StateAuthenticating,
	}
}

// Subscribe registers fn to be called on every state transition. The
// callback runs outside the manager lock and must not block for long.
func (m *Manager) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// setState transitions to s, records the user, and notifies subscribers.
// RELIABILITY: callbacks execute outside the lock so a subscriber can call
// back into the manager without deadlocking.
func (m *Manager) setState(s State, user *model.User) {
	m.mu.Lock()
	changed := m.state != s
	m.state = s
	m.user = user
	subs := make([]func(State), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range subs {
		fn(s)
	}
}

// =============================================================================
// LOGIN
// =============================================================================

// Login exchanges username/password for a token and verifies it against the
// identity endpoint. Both steps must succeed: a token whose identity fetch
// fails is rolled back, so a false return always means a clean
// Unauthenticated state with no partial session.
func (m *Manager) Login(ctx context.Context, username, password string) (bool, error) {
	m.setState(StateAuthenticating, nil)

	// Old token goes first: the attempt must not ride on stale credentials.
	m.client.ClearToken()

	resp, err := m.client.Login(ctx, username, password)
	if err != nil {
		m.setState(StateUnauthenticated, nil)
		return false, fmt.Errorf("login failed: %w", err)
	}

	m.installToken(resp.Token)

	user, err := m.fetchProfile(ctx)
	if err != nil {
		// The token is unverified, so it does not count as a session.
		m.client.ClearToken()
		if derr := m.keystore.Delete(); derr != nil {
			log.Printf("session: could not remove unverified token: %v", derr)
		}
		m.setState(StateUnauthenticated, nil)
		return false, fmt.Errorf("identity verification failed: %w", err)
	}

	m.setState(StateAuthenticated, user)
	log.Printf("session: authenticated token=%s", m.client.TokenFingerprint())
	return true, nil
}

// GoogleLogin exchanges a third-party credential for a session. A response
// with Success=false is not an error: the backend rejected the credential
// and the caller decides how to present that.
func (m *Manager) GoogleLogin(ctx context.Context, credential string) (GoogleResult, error) {
	m.setState(StateAuthenticating, nil)
	m.client.ClearToken()

	resp, err := m.client.GoogleLogin(ctx, credential)
	if err != nil {
		m.setState(StateUnauthenticated, nil)
		return GoogleResult{}, fmt.Errorf("google login failed: %w", err)
	}
	if !resp.Success || resp.Token == "" {
		m.setState(StateUnauthenticated, nil)
		return GoogleResult{Success: false}, nil
	}

	m.installToken(resp.Token)
	m.setState(StateAuthenticated, resp.User)
	log.Printf("session: authenticated (federated) token=%s", m.client.TokenFingerprint())

	return GoogleResult{
		Success:    true,
		User:       resp.User,
		HasAccount: resp.HasBankAccount,
	}, nil
}

// installToken installs the token on the client and persists it. A persist
// failure is logged and tolerated: the in-memory session still works, it
// just will not survive a restart.
func (m *Manager) installToken(token string) {
	m.client.SetToken(token)
	if err := m.keystore.Save(token); err != nil {
		log.Printf("session: token persist failed: %v", err)
	}
}

// fetchProfile fetches the signed-in user's profile.
func (m *Manager) fetchProfile(ctx context.Context) (*model.User, error) {
	user, err := m.client.CurrentUser(ctx)
	if err != nil {
		log.Printf("session: profile fetch failed: %v", err)
		return nil, err
	}
	return &user, nil
}

// =============================================================================
// LOGOUT
// =============================================================================

// Logout tears the session down: the in-memory token, the persisted token,
// and the cached user all go. Logging out while already logged out is a
// no-op, not an error.
func (m *Manager) Logout() error {
	m.mu.Lock()
	already := m.state == StateUnauthenticated && !m.client.HasToken()
	m.mu.Unlock()
	if already {
		return nil
	}

	m.client.ClearToken()
	if err := m.keystore.Delete(); err != nil {
		// The in-memory session is gone either way; report the leftover file.
		m.setState(StateUnauthenticated, nil)
		return fmt.Errorf("logout: %w", err)
	}
	m.setState(StateUnauthenticated, nil)
	log.Printf("session: logged out")
	return nil
}

// =============================================================================
// BOOTSTRAP
// =============================================================================

// Bootstrap restores a persisted session at startup. The stored token is
// verified against the identity endpoint before the session counts as
// authenticated.
//
// A rejected token is deleted and Bootstrap returns nil with the manager in
// Unauthenticated: the user simply signs in again. A network failure leaves
// the persisted token in place for the next launch and returns the error so
// the caller can surface it.
func (m *Manager) Bootstrap(ctx context.Context) error {
	token, err := m.keystore.Load()
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			m.setState(StateUnauthenticated, nil)
			return nil
		}
		// Unreadable or tampered token file: discard and start clean.
		log.Printf("session: discarding stored token: %v", err)
		_ = m.keystore.Delete()
		m.setState(StateUnauthenticated, nil)
		return nil
	}

	m.setState(StateAuthenticating, nil)
	m.client.SetToken(token)

	user, err := m.client.CurrentUser(ctx)
	if err != nil {
		m.client.ClearToken()
		if api.IsAuth(err) {
			// The backend no longer honors this token.
			log.Printf("session: stored token rejected, removing")
			_ = m.keystore.Delete()
			m.setState(StateUnauthenticated, nil)
			return nil
		}
		// Transient failure: keep the persisted token for next time.
		m.setState(StateUnauthenticated, nil)
		return fmt.Errorf("session restore failed: %w", err)
	}

	m.setState(StateAuthenticated, &user)
	log.Printf("session: restored token=%s", m.client.TokenFingerprint())
	return nil
}

// =============================================================================
// MID-SESSION AUTH FAILURE
// =============================================================================

// HandleAuthError reacts to a 401 surfacing mid-session: the token is dead,
// so the session ends now rather than on the next failed request. Safe to
// call repeatedly and with non-auth errors (which are ignored).
func (m *Manager) HandleAuthError(err error) {
	if !api.IsAuth(err) {
		return
	}
	m.mu.Lock()
	active := m.state == StateAuthenticated
	m.mu.Unlock()
	if !active {
		return
	}

	log.Printf("session: token rejected mid-session, signing out")
	m.client.ClearToken()
	_ = m.keystore.Delete()
	m.setState(StateUnauthenticated, nil)
}
