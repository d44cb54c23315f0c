// Lexicat - Adaptive Vocabulary Diagnostics
// Copyright 2026 Daewon Kang (dwkang)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dwkang/lexicat

// auth.go - bearer token guard for the admin surface
//
// The learner-facing API is anonymous by design; only the ops
// endpoints under /admin are guarded. Tokens are HMAC-signed JWTs
// minted out of band with the configured admin secret. An empty
// secret disables the guard, which is the expected setup for local
// development only.

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dwkang/lexicat/internal/logging"
)

// adminTokenCookie is the cookie fallback for clients that cannot set
// an Authorization header, such as browser websocket connects.
const adminTokenCookie = "token"

// AdminClaims is the JWT claim set for admin tokens.
type AdminClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAdminToken mints a signed admin token valid for ttl.
func GenerateAdminToken(secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// validateAdminToken parses and verifies an admin token.
func validateAdminToken(secret, tokenString string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// extractAdminToken pulls the bearer token from the Authorization
// header, falling back to the token cookie.
func extractAdminToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token := strings.TrimSpace(parts[1])
			if token != "" {
				return token
			}
		}
	}

	cookie, err := r.Cookie(adminTokenCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// RequireAdmin returns a middleware that rejects requests without a
// valid admin token. An empty secret disables the guard entirely.
func RequireAdmin(secret string) func(http.Handler) http.Handler {
	if secret == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractAdminToken(r)
			if tokenString == "" {
				NewResponseWriter(w, r).Unauthorized("Authentication required")
				return
			}

			if _, err := validateAdminToken(secret, tokenString); err != nil {
				logging.Warn().
					Err(err).
					Str("path", sanitizeLogValue(r.URL.Path)).
					Str("method", r.Method).
					Msg("admin token rejected")
				NewResponseWriter(w, r).Unauthorized("Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
