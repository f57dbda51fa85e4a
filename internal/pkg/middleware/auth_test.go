package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"reportit/internal/domain"
	apperror "reportit/internal/errors"
)

type stubAuthenticator struct {
	user domain.User
	err  error
}

func (s *stubAuthenticator) AuthenticateToken(ctx context.Context, token string) (domain.User, error) {
	return s.user, s.err
}

func claimsEcho(t *testing.T, expected UserClaims) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserClaimsFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, expected, claims)
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthMiddleware_AttachesClaims(t *testing.T) {
	auth := &stubAuthenticator{user: domain.User{ID: "user-1", Role: domain.RoleUser}}
	mw := NewAuthMiddleware(auth)
	handler := mw(claimsEcho(t, UserClaims{UserID: "user-1", Role: domain.RoleUser}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Fail_MissingHeader(t *testing.T) {
	mw := NewAuthMiddleware(&stubAuthenticator{})
	handler := mw(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler não deveria ser chamado sem token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization token missing or malformed")
}

func TestAuthMiddleware_Fail_UnknownToken(t *testing.T) {
	auth := &stubAuthenticator{err: apperror.NewUnauthorizedError("Invalid or expired token")}
	mw := NewAuthMiddleware(auth)
	handler := mw(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler não deveria ser chamado com token inválido")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPermissionMiddleware_AllowsRequiredRole(t *testing.T) {
	mw := PermissionMiddleware(domain.RoleAdmin)
	handler := mw(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx := context.WithValue(context.Background(), UserClaimsKey, UserClaims{UserID: "admin-1", Role: domain.RoleAdmin})
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPermissionMiddleware_Fail_WrongRole(t *testing.T) {
	mw := PermissionMiddleware(domain.RoleAdmin)
	handler := mw(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler não deveria ser chamado para role sem permissão")
	})

	ctx := context.WithValue(context.Background(), UserClaimsKey, UserClaims{UserID: "user-1", Role: domain.RoleUser})
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied")
}

func TestPermissionMiddleware_Fail_NoClaims(t *testing.T) {
	mw := PermissionMiddleware(domain.RoleAdmin)
	handler := mw(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler não deveria ser chamado sem claims")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
