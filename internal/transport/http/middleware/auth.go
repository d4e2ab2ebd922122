package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"peopledesk/internal/domain/auth"
	"peopledesk/internal/transport/http/api"
)

type ctxKey int

const ctxKeyEmployeeID ctxKey = iota

// Auth validates a bearer token when one is presented. Absence is not an
// error here: public routes stay reachable and RequireAuth rejects the
// protected ones. A malformed or badly signed token is rejected with 422,
// an expired one with 401.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				api.FailMessage(w, http.StatusUnprocessableEntity, "Invalid token", []string{"Authorization header must be: Bearer <token>"})
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					api.FailMessage(w, http.StatusUnauthorized, "Token expired", nil)
					return
				}
				api.FailMessage(w, http.StatusUnprocessableEntity, "Invalid token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyEmployeeID, claims.EmployeeID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that carried no valid token.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetEmployeeID(r.Context()); !ok {
			api.FailMessage(w, http.StatusUnauthorized, "Authorization required", []string{"Authorization token is required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetEmployeeID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKeyEmployeeID).(int64)
	return id, ok
}
