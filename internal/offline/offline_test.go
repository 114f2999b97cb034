// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package offline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// =============================================================================
// MODE MANAGEMENT TESTS
// =============================================================================

func TestSetOfflineMode(t *testing.T) {
	original := IsOfflineMode()
	defer SetOfflineMode(original)

	SetOfflineMode(true)
	if !IsOfflineMode() {
		t.Error("IsOfflineMode should return true after SetOfflineMode(true)")
	}
	if err := CheckNetworkAllowed(); err != ErrNetworkBlocked {
		t.Errorf("CheckNetworkAllowed() = %v, want ErrNetworkBlocked", err)
	}
	if StatusBadge() != "[OFFLINE]" {
		t.Errorf("StatusBadge() = %q, want [OFFLINE]", StatusBadge())
	}

	SetOfflineMode(false)
	if IsOfflineMode() {
		t.Error("IsOfflineMode should return false after SetOfflineMode(false)")
	}
	if err := CheckNetworkAllowed(); err != nil {
		t.Errorf("CheckNetworkAllowed() = %v, want nil", err)
	}
	if StatusBadge() != "" {
		t.Errorf("StatusBadge() = %q, want empty", StatusBadge())
	}
}

func TestIsOfflineMode_ThreadSafe(t *testing.T) {
	original := IsOfflineMode()
	defer SetOfflineMode(original)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				SetOfflineMode(j%2 == 0)
				_ = IsOfflineMode()
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

// =============================================================================
// URL VALIDATION TESTS
// =============================================================================

func TestIsLocalhost(t *testing.T) {
	tests := []struct {
		host   string
		expect bool
	}{
		{"localhost", true},
		{"LOCALHOST", true},
		{"127.0.0.1", true},
		{"127.0.0.1:8080", true},
		{"127.1.2.3", true},
		{"::1", true},
		{"[::1]:8080", true},
		{"example.com", false},
		{"192.168.1.1", false},
		{"0.0.0.0", false},
		{"", false},
		{"localhost.localdomain", false},
	}

	for _, tc := range tests {
		t.Run(tc.host, func(t *testing.T) {
			if got := IsLocalhost(tc.host); got != tc.expect {
				t.Errorf("IsLocalhost(%q) = %v, want %v", tc.host, got, tc.expect)
			}
		})
	}
}

func TestValidateLink(t *testing.T) {
	original := IsOfflineMode()
	defer SetOfflineMode(original)

	tests := []struct {
		name    string
		url     string
		offline bool
		want    error
	}{
		{"https", "https://example.com/result1", false, nil},
		{"http with spaces", "  http://example.com  ", false, nil},
		{"file scheme", "file:///etc/passwd", false, ErrInvalidURLScheme},
		{"javascript scheme", "javascript:alert(1)", false, ErrInvalidURLScheme},
		{"no scheme", "example.com", false, ErrInvalidURLScheme},
		{"no host", "https://", false, ErrInvalidURL},
		{"unparseable", "http://[::1", false, ErrInvalidURL},
		{"remote while offline", "https://example.com", true, ErrNetworkBlocked},
		{"loopback while offline", "http://127.0.0.1:8080/", true, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			SetOfflineMode(tc.offline)
			if got := ValidateLink(tc.url); got != tc.want {
				t.Errorf("ValidateLink(%q) = %v, want %v", tc.url, got, tc.want)
			}
		})
	}
}

// =============================================================================
// DETECTOR TESTS
// =============================================================================

func TestDetector_IsOnline(t *testing.T) {
	original := IsOfflineMode()
	defer SetOfflineMode(original)
	SetOfflineMode(false)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if !NewDetector(srv.URL).IsOnline(context.Background()) {
		t.Error("IsOnline should be true when the probe answers")
	}

	closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := closed.URL
	closed.Close()
	if NewDetector(url).IsOnline(context.Background()) {
		t.Error("IsOnline should be false when the probe fails")
	}
}

func TestDetector_OfflineModeShortCircuits(t *testing.T) {
	original := IsOfflineMode()
	defer SetOfflineMode(original)

	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	defer srv.Close()

	SetOfflineMode(true)
	if NewDetector(srv.URL).IsOnline(context.Background()) {
		t.Error("IsOnline must be false in offline mode")
	}
	if hit {
		t.Error("offline mode must not probe the network")
	}
}

func TestNewDetector_DefaultURL(t *testing.T) {
	if d := NewDetector(""); d.probeURL != DefaultProbeURL {
		t.Errorf("probeURL = %q, want %q", d.probeURL, DefaultProbeURL)
	}
}
