package auth

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

type contextKey string

const userIDKey contextKey = "userId"

// Middleware verifies the Authorization header and stores the caller's
// identity in the request context. A verification failure rejects the
// request before any handler or store access runs.
func Middleware(v *Verifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := v.Verify(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				log.Printf("Authorization failed: %v", err)
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a context carrying a verified caller identity.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the verified caller identity set by Middleware, or the
// empty string on an unauthenticated route.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
