package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of tokens minted without an explicit TTL.
const DefaultTokenTTL = 30 * 24 * time.Hour

// MintToken issues an HS256 bearer token for subject that expires after ttl.
func MintToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("no auth secret configured")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// verifyToken validates a bearer token and returns its subject.
func verifyToken(secret, token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// authMiddleware enforces bearer token authentication on wrapped handlers.
// Preflight requests pass through so CORS can answer them.
func authMiddleware(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, errorBody{Error: "Missing or invalid Authorization header"})
			return
		}
		subject, err := verifyToken(secret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, errorBody{Error: "Invalid token", Details: err.Error()})
			return
		}
		ri := infoFrom(r.Context())
		if ri == nil {
			ri = &requestInfo{}
			r = r.WithContext(context.WithValue(r.Context(), ctxKeyRequest, ri))
		}
		ri.subject = subject
		next.ServeHTTP(w, r)
	})
}

// Subject returns the authenticated token subject, if any. It is visible to
// outer middleware once the auth layer has run.
func Subject(ctx context.Context) string {
	if ri := infoFrom(ctx); ri != nil {
		return ri.subject
	}
	return ""
}
