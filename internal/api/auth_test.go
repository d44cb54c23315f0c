// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	t.Parallel()

	const secret = "unit-test-secret"

	token, err := GenerateAdminToken(secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateAdminToken returned empty token")
	}

	claims, err := validateAdminToken(token, secret)
	if err != nil {
		t.Fatalf("validateAdminToken: %v", err)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
	if claims.Subject != "admin" {
		t.Errorf("Subject = %q, want admin", claims.Subject)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Error("ExpiresAt missing or already past")
	}
}

func TestAdminTokenWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateAdminToken("secret-one", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}
	if _, err := validateAdminToken(token, "secret-two"); err == nil {
		t.Error("validateAdminToken accepted token signed with different secret")
	}
}

func TestAdminTokenExpired(t *testing.T) {
	t.Parallel()

	token, err := GenerateAdminToken("unit-test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}
	if _, err := validateAdminToken(token, "unit-test-secret"); err == nil {
		t.Error("validateAdminToken accepted expired token")
	}
}

func TestAdminTokenGarbage(t *testing.T) {
	t.Parallel()

	if _, err := validateAdminToken("not.a.jwt", "unit-test-secret"); err == nil {
		t.Error("validateAdminToken accepted malformed token")
	}
}

func TestExtractAdminToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		want   string
	}{
		{
			name: "bearer header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer abc123")
			},
			want: "abc123",
		},
		{
			name: "bearer lowercase scheme",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "bearer abc123")
			},
			want: "abc123",
		},
		{
			name: "cookie fallback",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: adminTokenCookie, Value: "cookie-token"})
			},
			want: "cookie-token",
		},
		{
			name: "header wins over cookie",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer header-token")
				r.AddCookie(&http.Cookie{Name: adminTokenCookie, Value: "cookie-token"})
			},
			want: "header-token",
		},
		{
			name: "wrong scheme ignored",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
			},
			want: "",
		},
		{
			name:  "missing",
			setup: func(r *http.Request) {},
			want:  "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
			tt.setup(req)
			if got := extractAdminToken(req); got != tt.want {
				t.Errorf("extractAdminToken = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireAdminEmptySecretPassThrough(t *testing.T) {
	t.Parallel()

	inner, called := okHandler()
	handler := RequireAdmin("")(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !*called {
		t.Error("handler not called with empty secret")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireAdminRejectsMissingToken(t *testing.T) {
	t.Parallel()

	inner, called := okHandler()
	handler := RequireAdmin("unit-test-secret")(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if *called {
		t.Error("handler called without token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdminAcceptsValidToken(t *testing.T) {
	t.Parallel()

	const secret = "unit-test-secret"
	token, err := GenerateAdminToken(secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	inner, called := okHandler()
	handler := RequireAdmin(secret)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !*called {
		t.Error("handler not called with valid token")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
