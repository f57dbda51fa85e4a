package identity

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperror "reportit/internal/errors"
	"reportit/internal/pkg/logger"
)

func newTestLogger() logger.Logger {
	return logger.NewLogger("error")
}

func TestSignUp_RelaysProviderResponseVerbatim(t *testing.T) {
	providerBody := `{"idToken":"abc","localId":"uid-123","email":"a@x.com"}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/accounts:signUp", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)

		var payload map[string]interface{}
		assert.NoError(t, json.Unmarshal(raw, &payload))
		assert.Equal(t, "a@x.com", payload["email"])
		assert.Equal(t, "secret1", payload["password"])
		assert.Equal(t, true, payload["returnSecureToken"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(providerBody))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, 5*time.Second, newTestLogger())

	body, status, err := client.SignUp(context.Background(), "a@x.com", "secret1")

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, providerBody, string(body))
}

func TestSignIn_RelaysProviderErrorStatus(t *testing.T) {
	providerBody := `{"error":{"code":400,"message":"EMAIL_NOT_FOUND"}}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(providerBody))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, 5*time.Second, newTestLogger())

	body, status, err := client.SignIn(context.Background(), "ghost@x.com", "wrong")

	// Status e corpo do provedor repassados sem tradução.
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, providerBody, string(body))
}

func TestPost_Fail_MissingAPIKey(t *testing.T) {
	// Servidor que falha o teste se for alcançado.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("nenhuma chamada de rede deveria acontecer sem a chave de API")
	}))
	defer server.Close()

	client := NewClient("", server.URL, 5*time.Second, newTestLogger())

	_, _, err := client.SignUp(context.Background(), "a@x.com", "secret1")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConfigurationError{}, err)
	assert.Equal(t, "FIREBASE_API_KEY not configured", err.Error())
}

func TestPost_Fail_ProviderUnreachable(t *testing.T) {
	// Servidor fechado antes da chamada: conexão recusada.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient("test-key", server.URL, 1*time.Second, newTestLogger())

	_, _, err := client.SignIn(context.Background(), "a@x.com", "secret1")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnavailableError{}, err)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client := NewClient("test-key", "", 5*time.Second, newTestLogger())
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
