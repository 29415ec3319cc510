// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jeranaias/fintrack-tui/internal/model"
)

func testClient(url string) *Client {
	return NewClient(url).WithTimeout(2 * time.Second)
}

// =============================================================================
// AUTH ENDPOINT TESTS
// =============================================================================

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/login/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("login must not send Authorization, got %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token": "abc123"}`))
	}))
	defer server.Close()

	resp, err := testClient(server.URL).Login(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.Token != "abc123" {
		t.Errorf("token = %q, want abc123", resp.Token)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Invalid credentials"}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if apiErr.Kind != KindServer || apiErr.Status != http.StatusBadRequest {
		t.Errorf("got kind=%v status=%d", apiErr.Kind, apiErr.Status)
	}
	if apiErr.Message != "Invalid credentials" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestLogin_EmptyInputRejectedLocally(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := testClient(server.URL).Login(context.Background(), "", "")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if called {
		t.Error("request must not reach the server")
	}
}

func TestLogin_MissingTokenInBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Login(context.Background(), "alice", "hunter2")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindDecode {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestGoogleLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/google/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"success": true, "token": "tok-google", "user": {"id": 7, "username": "alice"}, "has_bank_account": false}`))
	}))
	defer server.Close()

	resp, err := testClient(server.URL).GoogleLogin(context.Background(), "google-credential")
	if err != nil {
		t.Fatalf("GoogleLogin failed: %v", err)
	}
	if !resp.Success || resp.Token != "tok-google" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.User == nil || resp.User.Username != "alice" {
		t.Errorf("user = %+v", resp.User)
	}
	if resp.HasBankAccount {
		t.Error("has_bank_account should be false")
	}
}

// =============================================================================
// TOKEN HANDLING TESTS
// =============================================================================

func TestProtectedEndpoint_RequiresToken(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := testClient(server.URL).Accounts(context.Background())
	if !IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if called {
		t.Error("request must not reach the server without a token")
	}
}

func TestProtectedEndpoint_SendsTokenHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Token abc123" {
			t.Errorf("Authorization = %q, want %q", auth, "Token abc123")
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	client.SetToken("abc123")
	if _, err := client.Accounts(context.Background()); err != nil {
		t.Fatalf("Accounts failed: %v", err)
	}
}

func TestUnauthorized_MapsToAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid token."}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	client.SetToken("expired")
	_, err := client.CurrentUser(context.Background())
	if !IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.Status)
	}
}

func TestTokenFingerprint_NeverExposesToken(t *testing.T) {
	client := NewClient("https://example.com")
	if got := client.TokenFingerprint(); got != "none" {
		t.Errorf("fingerprint without token = %q", got)
	}
	client.SetToken("super-secret-token")
	fp := client.TokenFingerprint()
	if strings.Contains(fp, "super") || strings.Contains(fp, "secret") {
		t.Errorf("fingerprint leaks token material: %q", fp)
	}
	if len(fp) != 8 {
		t.Errorf("fingerprint length = %d, want 8", len(fp))
	}
	client.ClearToken()
	if client.HasToken() {
		t.Error("token survives ClearToken")
	}
}

// =============================================================================
// RETRY & ERROR MAPPING TESTS
// =============================================================================

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"total_balance": "1250.00"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	client.SetToken("abc123")
	balance, err := client.TotalBalance(context.Background())
	if err != nil {
		t.Fatalf("TotalBalance failed: %v", err)
	}
	if balance.TotalBalance != 1250 {
		t.Errorf("balance = %v, want 1250", balance.TotalBalance)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server calls = %d, want 3", got)
	}
}

func TestPost_NeverRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server.URL)
	client.SetToken("abc123")
	_, err := client.CreateTransaction(context.Background(), model.Transaction{
		Title: "coffee", Amount: 4.5, Type: model.TransactionExpense,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1 (mutations must not retry)", got)
	}
}

func TestNetworkFailure_MapsToNetworkError(t *testing.T) {
	// Point at a closed server.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url).WithTimeout(time.Second).WithMaxRetries(1)
	client.SetToken("abc123")
	_, err := client.Accounts(context.Background())
	if !IsNetwork(err) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestMalformedBody_MapsToDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{this is not json`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	client.SetToken("abc123")
	_, err := client.Transactions(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindDecode {
		t.Fatalf("expected decode error, got %v", err)
	}
}

// =============================================================================
// RESOURCE ENDPOINT TESTS
// =============================================================================

func TestTransactions_DecodesStringAmounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "title": "salary", "amount": "3000.00", "type": "income", "date": "2025-03-01T00:00:00Z"},
			{"id": 2, "title": "groceries", "amount": 82.45, "type": "expense", "category": "FOOD", "date": "2025-03-04T18:30:00Z"}
		]`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	client.SetToken("abc123")
	txs, err := client.Transactions(context.Background())
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len = %d, want 2", len(txs))
	}
	if txs[0].Amount != 3000 || txs[1].Amount != 82.45 {
		t.Errorf("amounts = %v, %v", txs[0].Amount, txs[1].Amount)
	}
}

func TestDeleteTransaction_UsesIDPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/transactions/42/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := testClient(server.URL)
	client.SetToken("abc123")
	if err := client.DeleteTransaction(context.Background(), 42); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
}

func TestContribute_ValidatesAmount(t *testing.T) {
	client := NewClient("https://example.com")
	client.SetToken("abc123")
	_, err := client.Contribute(context.Background(), 1, -5)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
