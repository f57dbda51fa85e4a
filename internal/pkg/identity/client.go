package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperror "reportit/internal/errors"
	"reportit/internal/pkg/logger"
)

// DefaultBaseURL é o endpoint REST do Identity Toolkit (Firebase Auth).
const DefaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Client é o proxy fino para o provedor de identidade externo.
// As respostas do provedor (corpo JSON e status HTTP) são repassadas
// sem modificação ao chamador: o formato é definido pelo provedor e não
// faz parte do contrato deste serviço.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient cria um novo cliente do provedor de identidade.
// A chave de API é injetada explicitamente (nada de estado global); ela pode
// estar vazia, caso em que toda chamada falha com ConfigurationError antes de
// qualquer I/O de rede. baseURL vazio usa o endpoint real do provedor.
func NewClient(apiKey string, baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout, // Timeout limitado: indisponibilidade vira UnavailableError, não espera infinita
		},
		logger: log,
	}
}

// signPayload é o corpo enviado ao provedor em signUp/signInWithPassword.
type signPayload struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// SignUp cria uma nova conta no provedor de identidade.
// Retorna o corpo JSON e o status HTTP do provedor, inalterados.
func (c *Client) SignUp(ctx context.Context, email string, password string) (json.RawMessage, int, error) {
	return c.post(ctx, "accounts:signUp", email, password)
}

// SignIn autentica email/senha no provedor de identidade.
// Retorna o corpo JSON e o status HTTP do provedor, inalterados.
func (c *Client) SignIn(ctx context.Context, email string, password string) (json.RawMessage, int, error) {
	return c.post(ctx, "accounts:signInWithPassword", email, password)
}

// post serializa o payload, chama o endpoint do provedor e repassa a resposta.
func (c *Client) post(ctx context.Context, action string, email string, password string) (json.RawMessage, int, error) {
	// Erro de configuração é detectado antes de qualquer chamada de rede.
	if c.apiKey == "" {
		return nil, 0, apperror.NewConfigurationError("FIREBASE_API_KEY not configured")
	}

	payload := signPayload{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, apperror.NewInternalError("failed to encode provider payload", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, action, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, apperror.NewInternalError("failed to build provider request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeout ou falha de conexão: classe distinta (o cliente pode tentar de novo).
		// O texto do erro fica no log, nunca na resposta ao cliente.
		c.logger.Error("Provedor de identidade inacessível.", err)
		return nil, 0, apperror.NewUnavailableError("identity provider unavailable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Falha ao ler resposta do provedor de identidade.", err)
		return nil, 0, apperror.NewInternalError("failed to read provider response", err)
	}

	c.logger.Debug("Resposta do provedor de identidade recebida.", map[string]interface{}{
		"action": action,
		"status": resp.StatusCode,
	})

	return json.RawMessage(raw), resp.StatusCode, nil
}
