// Package middleware provides HTTP middleware for authenticated worker routes.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// workerIDKey is the context key for storing the authenticated worker ID.
const workerIDKey ContextKey = "workerID"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (WorkerIDGetter, error)
}

// WorkerIDGetter is an interface for extracting the worker ID from token claims.
type WorkerIDGetter interface {
	GetWorkerID() int64
}

// Auth creates middleware that validates JWT tokens and adds the worker ID
// to the request context.
func Auth(jwtService TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Bearer prefix is matched case-insensitively
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), workerIDKey, claims.GetWorkerID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetWorkerID extracts the authenticated worker ID from the request context.
func GetWorkerID(r *http.Request) (int64, error) {
	workerID, ok := r.Context().Value(workerIDKey).(int64)
	if !ok {
		return 0, fmt.Errorf("worker ID not found in request context")
	}
	return workerID, nil
}

// WorkerIDKey returns the context key for the worker ID (for testing purposes).
func WorkerIDKey() ContextKey {
	return workerIDKey
}
