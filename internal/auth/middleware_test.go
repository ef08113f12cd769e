package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func protected(t *testing.T) (http.Handler, *string, *string) {
	var gotEmail, gotRole string
	handler := StaffAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail = StaffEmail(r.Context())
		gotRole = StaffRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &gotEmail, &gotRole
}

func TestStaffAuthMiddlewareValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	handler, gotEmail, gotRole := protected(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"staff_id": 1,
		"email":    "desk@smilecare.test",
		"role":     "staff",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/staff/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "desk@smilecare.test", *gotEmail)
	assert.Equal(t, "staff", *gotRole)
}

func TestStaffAuthMiddlewareMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	handler, _, _ := protected(t)

	req := httptest.NewRequest(http.MethodGet, "/staff/appointments", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaffAuthMiddlewareWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	handler, _, _ := protected(t)

	token := signToken(t, "other-secret", jwt.MapClaims{
		"email": "desk@smilecare.test",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/staff/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaffAuthMiddlewareExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	handler, _, _ := protected(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"email": "desk@smilecare.test",
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/staff/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
