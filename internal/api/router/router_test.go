package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"reportit/internal/api/auth"
	"reportit/internal/api/router"
	"reportit/internal/api/user"
	"reportit/internal/domain"
	apperror "reportit/internal/errors"
	"reportit/internal/pkg/cache"
	"reportit/internal/pkg/logger"
)

// fakeCache é um cache em memória para exercitar o rate limiter sem Redis.
type fakeCache struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: make(map[string]int)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	return "", cache.ErrCacheMiss
}

func (f *fakeCache) GetInt(ctx context.Context, key string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count, ok := f.counts[key]
	if !ok {
		return 0, cache.ErrCacheMiss
	}
	return count, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key] = value.(int)
	return nil
}

func (f *fakeCache) Incr(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.counts, key)
	return nil
}

// brokenCache simula o Redis fora do ar: toda operação falha.
type brokenCache struct{}

func (b *brokenCache) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("connection refused")
}

func (b *brokenCache) GetInt(ctx context.Context, key string) (int, error) {
	return 0, errors.New("connection refused")
}

func (b *brokenCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return errors.New("connection refused")
}

func (b *brokenCache) Incr(ctx context.Context, key string) error {
	return errors.New("connection refused")
}

func (b *brokenCache) Delete(ctx context.Context, key string) error {
	return errors.New("connection refused")
}

// stubAuthenticator resolve um único token fixo para um usuário fixo.
type stubAuthenticator struct {
	token string
	user  domain.User
}

func (s *stubAuthenticator) AuthenticateToken(ctx context.Context, token string) (domain.User, error) {
	if token == s.token {
		return s.user, nil
	}
	return domain.User{}, apperror.NewUnauthorizedError("Invalid or expired token")
}

func newTestRouter(limit int) http.Handler {
	return newTestRouterWithCache(newFakeCache(), limit)
}

func newTestRouterWithCache(cacheClient cache.Client, limit int) http.Handler {
	log := logger.NewLogger("error")
	userHandler := user.NewHandler(nil, log)
	authHandler := auth.NewHandler(nil, log)
	authenticator := &stubAuthenticator{
		token: "admin-token",
		user:  domain.User{ID: "admin-1", Role: domain.RoleAdmin},
	}
	return router.NewRouter(userHandler, authHandler, authenticator, cacheClient, limit, time.Minute)
}

func TestHealthHandler_OKWithoutAnyDependency(t *testing.T) {
	// Handlers sem serviço nenhum: o health não pode depender de DB ou cache.
	r := newTestRouter(100)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "reportit-backend", body["service"])
}

func TestHealthHandler_OKWithCacheDown(t *testing.T) {
	// Redis fora do ar: o limiter falha fechado para as rotas da API, mas o
	// health fica fora da cadeia limitada e continua respondendo 200.
	r := newTestRouterWithCache(&brokenCache{}, 100)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "reportit-backend", body["service"])
}

func TestHealthHandler_NotRateLimited(t *testing.T) {
	r := newTestRouter(1)

	// Bem acima do limite da janela: todas respondem 200.
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.7:5000"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	r := newTestRouter(100)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListUsers_RequiresBearerToken(t *testing.T) {
	r := newTestRouter(100)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp domain.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestListUsers_RejectsUnknownToken(t *testing.T) {
	r := newTestRouter(100)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer bogus-token")
	req.RemoteAddr = "10.0.0.3:5000"
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	r := newTestRouter(2)

	// Rota da API dentro da cadeia limitada; GET responde 405 quando passa.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/users/register", nil)
		req.RemoteAddr = "10.0.0.9:5000"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/register", nil)
	req.RemoteAddr = "10.0.0.9:5000"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiter_CountsPerIP(t *testing.T) {
	r := newTestRouter(1)

	first := httptest.NewRequest(http.MethodGet, "/api/users/register", nil)
	first.RemoteAddr = "10.0.1.1:5000"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	// Outro IP tem a própria janela.
	second := httptest.NewRequest(http.MethodGet, "/api/users/register", nil)
	second.RemoteAddr = "10.0.1.2:5000"
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
