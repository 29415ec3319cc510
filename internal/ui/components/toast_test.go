// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
)

func TestToastManager_AddAndRemove(t *testing.T) {
	m := NewToastManager()

	id := m.AddError("refresh failed")
	if !m.HasToasts() {
		t.Fatal("manager should have a toast")
	}

	m.RemoveToast(id)
	if m.HasToasts() {
		t.Error("toast should be removed")
	}
}

func TestToastManager_NewestFirstAndCapped(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < 8; i++ {
		m.AddStatus("toast")
	}
	toasts := m.GetToasts()
	if len(toasts) != 5 {
		t.Errorf("toast count = %d, want capped at 5", len(toasts))
	}
	// Newest carries the highest ID and sits first.
	if toasts[0].ID < toasts[len(toasts)-1].ID {
		t.Error("newest toast must be first")
	}
}

func TestToastManager_TickDropsExpired(t *testing.T) {
	m := NewToastManager()

	expired := NewStatusToast("old")
	expired.CreatedAt = time.Now().Add(-time.Minute)
	m.AddToast(expired)
	m.AddStatus("fresh")

	remaining := m.TickToasts()
	if len(remaining) != 1 {
		t.Fatalf("remaining = %d, want 1", len(remaining))
	}
	if remaining[0].Message != "fresh" {
		t.Errorf("survivor = %q, want fresh toast", remaining[0].Message)
	}
}

func TestRenderToast_CarriesIndicator(t *testing.T) {
	out := RenderToast(NewErrorToast("could not reach server"), 80)
	if !strings.Contains(out, "[X]") {
		t.Error("error toast must carry the error indicator")
	}
	if !strings.Contains(out, "could not reach server") {
		t.Error("toast must carry its message")
	}
}

func TestRenderToastStack_EmptyIsEmpty(t *testing.T) {
	if out := RenderToastStack(nil, 80, 24); out != "" {
		t.Errorf("empty stack rendered %q", out)
	}
}
