// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jeranaias/fintrack-tui/internal/api"
)

// newTestManager wires a manager against the given handler with a
// throwaway keystore.
func newTestManager(t *testing.T, handler http.Handler) *Manager {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	ks := NewKeystore(t.TempDir())
	return NewManager(api.NewClient(srv.URL), ks)
}

// authHandler serves the login and identity endpoints for a fixed token.
func authHandler(token string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	})
	mux.HandleFunc("/api/user/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "username": "alice", "email": "alice@example.com"})
	})
	return mux
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestLogin_Success(t *testing.T) {
	m := newTestManager(t, authHandler("tok-123"))

	ok, err := m.Login(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !ok {
		t.Fatal("Login returned false")
	}
	if m.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", m.State())
	}

	id := m.CurrentIdentity()
	if id.User == nil || id.User.Username != "alice" {
		t.Errorf("identity user = %+v", id.User)
	}
	if id.Token == "" {
		t.Error("identity must carry a token fingerprint")
	}
	if id.Token == "tok-123" {
		t.Error("identity must not expose the raw token")
	}

	// Token persisted for the next launch.
	stored, err := m.keystore.Load()
	if err != nil {
		t.Fatalf("keystore load failed: %v", err)
	}
	if stored != "tok-123" {
		t.Errorf("stored token = %q", stored)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	m := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	ok, err := m.Login(context.Background(), "alice", "wrong")
	if ok {
		t.Fatal("Login returned true on rejection")
	}
	if !api.IsAuth(err) {
		t.Errorf("err = %v, want auth error", err)
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", m.State())
	}
	if m.keystore.Exists() {
		t.Error("failed login must not persist a token")
	}
}

func TestLogin_ClearsPreviousToken(t *testing.T) {
	m := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("login rode on a stale token: %q", got)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))

	m.client.SetToken("stale-token")
	m.Login(context.Background(), "alice", "wrong")

	if m.client.HasToken() {
		t.Error("failed login must leave no token installed")
	}
}

func TestLogin_IdentityFetchFailureRollsBack(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-unverified"})
	})
	mux.HandleFunc("/api/user/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	ks := NewKeystore(t.TempDir())
	m := NewManager(api.NewClient(srv.URL).WithMaxRetries(1), ks)

	ok, err := m.Login(context.Background(), "alice", "hunter2")
	if ok {
		t.Fatal("Login returned true without a verified identity")
	}
	if err == nil {
		t.Fatal("expected an error when the identity fetch fails")
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", m.State())
	}
	if id := m.CurrentIdentity(); id.User != nil {
		t.Errorf("identity user = %+v, want nil", id.User)
	}
	if m.client.HasToken() {
		t.Error("unverified token must not stay installed")
	}
	if m.keystore.Exists() {
		t.Error("unverified token must not stay persisted")
	}
}

func TestLogin_ValidationStopsLocally(t *testing.T) {
	called := false
	m := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	ok, err := m.Login(context.Background(), "", "")
	if ok || err == nil {
		t.Fatal("empty credentials must fail")
	}
	if called {
		t.Error("validation failure must not reach the network")
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", m.State())
	}
}

func TestSubscribe_ReceivesTransitions(t *testing.T) {
	m := newTestManager(t, authHandler("tok-123"))

	var seen []State
	m.Subscribe(func(s State) { seen = append(seen, s) })

	if _, err := m.Login(context.Background(), "alice", "hunter2"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	want := []State{StateAuthenticating, StateAuthenticated}
	if len(seen) != len(want) {
		t.Fatalf("transitions = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("transition %d = %v, want %v", i, seen[i], want[i])
		}
	}
}

// =============================================================================
// GOOGLE LOGIN TESTS
// =============================================================================

func TestGoogleLogin_Success(t *testing.T) {
	m := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":          true,
			"token":            "gtok-9",
			"user":             map[string]any{"id": 2, "username": "bob"},
			"has_bank_account": false,
		})
	}))

	res, err := m.GoogleLogin(context.Background(), "credential-jwt")
	if err != nil {
		t.Fatalf("GoogleLogin failed: %v", err)
	}
	if !res.Success {
		t.Fatal("expected success")
	}
	if res.User == nil || res.User.Username != "bob" {
		t.Errorf("user = %+v", res.User)
	}
	if res.HasAccount {
		t.Error("HasAccount = true, want false (routes to account setup)")
	}
	if m.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", m.State())
	}
	if stored, _ := m.keystore.Load(); stored != "gtok-9" {
		t.Errorf("stored token = %q", stored)
	}
}

func TestGoogleLogin_RejectedCredential(t *testing.T) {
	m := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))

	res, err := m.GoogleLogin(context.Background(), "bad-credential")
	if err != nil {
		t.Fatalf("rejection is not a transport error: %v", err)
	}
	if res.Success {
		t.Error("expected Success=false")
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", m.State())
	}
	if m.client.HasToken() {
		t.Error("rejected credential must not install a token")
	}
}

// =============================================================================
// LOGOUT TESTS
// =============================================================================

func TestLogout_Idempotent(t *testing.T) {
	m := newTestManager(t, authHandler("tok-123"))

	if _, err := m.Login(context.Background(), "alice", "hunter2"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := m.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", m.State())
	}
	if m.client.HasToken() {
		t.Error("logout must clear the installed token")
	}
	if m.keystore.Exists() {
		t.Error("logout must delete the persisted token")
	}

	// Second logout is a no-op.
	if err := m.Logout(); err != nil {
		t.Errorf("repeated Logout failed: %v", err)
	}
}

// =============================================================================
// BOOTSTRAP TESTS
// =============================================================================

func TestBootstrap_RestoresValidToken(t *testing.T) {
	m := newTestManager(t, authHandler("tok-123"))

	if err := m.keystore.Save("tok-123"); err != nil {
		t.Fatalf("seed keystore failed: %v", err)
	}

	if err := m.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if m.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", m.State())
	}
	if id := m.CurrentIdentity(); id.User == nil || id.User.Username != "alice" {
		t.Errorf("identity = %+v", id)
	}
}

func TestBootstrap_NoStoredToken(t *testing.T) {
	m := newTestManager(t, authHandler("tok-123"))

	if err := m.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", m.State())
	}
}

func TestBootstrap_StaleTokenDeleted(t *testing.T) {
	m := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	if err := m.keystore.Save("expired-tok"); err != nil {
		t.Fatalf("seed keystore failed: %v", err)
	}

	// A rejected token is routine, not an error.
	if err := m.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", m.State())
	}
	if m.keystore.Exists() {
		t.Error("rejected token must be deleted")
	}
	if m.client.HasToken() {
		t.Error("rejected token must not stay installed")
	}
}

func TestBootstrap_NetworkErrorKeepsStoredToken(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close() // connection refused from here on

	ks := NewKeystore(t.TempDir())
	m := NewManager(api.NewClient(srv.URL).WithMaxRetries(1), ks)

	if err := ks.Save("tok-offline"); err != nil {
		t.Fatalf("seed keystore failed: %v", err)
	}

	err := m.Bootstrap(context.Background())
	if err == nil {
		t.Fatal("expected network error")
	}
	if !api.IsNetwork(err) {
		t.Errorf("err = %v, want network error", err)
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", m.State())
	}
	// The token survives for the next launch.
	if stored, loadErr := ks.Load(); loadErr != nil || stored != "tok-offline" {
		t.Errorf("stored token = %q, %v; want preserved", stored, loadErr)
	}
	if m.client.HasToken() {
		t.Error("unverified token must not stay installed in memory")
	}
}

// =============================================================================
// MID-SESSION AUTH FAILURE TESTS
// =============================================================================

func TestHandleAuthError_EndsSession(t *testing.T) {
	m := newTestManager(t, authHandler("tok-123"))

	if _, err := m.Login(context.Background(), "alice", "hunter2"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	m.HandleAuthError(&api.Error{Kind: api.KindAuth, Status: 401})

	if m.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", m.State())
	}
	if m.keystore.Exists() {
		t.Error("dead token must be removed from disk")
	}

	// Repeated invocations and non-auth errors are no-ops.
	m.HandleAuthError(&api.Error{Kind: api.KindAuth, Status: 401})
	m.HandleAuthError(errors.New("some network blip"))
	if m.State() != StateUnauthenticated {
		t.Errorf("state = %v after no-op calls", m.State())
	}
}

func TestHandleAuthError_IgnoresNonAuthErrors(t *testing.T) {
	m := newTestManager(t, authHandler("tok-123"))

	if _, err := m.Login(context.Background(), "alice", "hunter2"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	m.HandleAuthError(&api.Error{Kind: api.KindNetwork, Message: "timeout"})

	if m.State() != StateAuthenticated {
		t.Error("a network error must not end the session")
	}
	if !m.client.HasToken() {
		t.Error("token must survive a network error")
	}
}
