package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	emailKey contextKey = "staff_email"
	roleKey  contextKey = "staff_role"
)

// StaffAuthMiddleware validates the Bearer token issued by the staff login
// endpoint and stores the claims on the request context.
func StaffAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			http.Error(w, "Server misconfigured", http.StatusInternalServerError)
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if email, ok := claims["email"].(string); ok {
				ctx = context.WithValue(ctx, emailKey, email)
			}
			if role, ok := claims["role"].(string); ok {
				ctx = context.WithValue(ctx, roleKey, role)
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StaffEmail returns the authenticated staff email, if any.
func StaffEmail(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

// StaffRole returns the authenticated staff role, if any.
func StaffRole(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}
