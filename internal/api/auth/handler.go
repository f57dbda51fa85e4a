package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"reportit/internal/domain"
	apperror "reportit/internal/errors"
	"reportit/internal/pkg/logger"
	"reportit/internal/validation"
)

// IdentityClient define o contrato do proxy para o provedor de identidade
// (internal/pkg/identity). Corpo e status do provedor são repassados
// verbatim: o formato da resposta é definido pelo provedor, não por nós.
type IdentityClient interface {
	SignUp(ctx context.Context, email string, password string) (json.RawMessage, int, error)
	SignIn(ctx context.Context, email string, password string) (json.RawMessage, int, error)
}

// CredentialsRequest é o payload dos endpoints proxy (signup e login).
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Handler agrupa os handlers dos endpoints proxy do provedor de identidade.
type Handler struct {
	Identity IdentityClient
	Logger   logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o cliente do provedor.
func NewHandler(client IdentityClient, log logger.Logger) *Handler {
	return &Handler{
		Identity: client,
		Logger:   log,
	}
}

// SignupHandler lida com a requisição POST /api/auth/signup.
// @Summary Cria uma conta no provedor de identidade (proxy transparente)
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "Email e senha"
// @Success 200 {object} object "Corpo e status do provedor, inalterados"
// @Failure 400 {object} domain.ErrorResponse "Campos obrigatórios ausentes"
// @Failure 500 {object} domain.ErrorResponse "Chave do provedor não configurada"
// @Failure 503 {object} domain.ErrorResponse "Provedor inacessível"
// @Router /api/auth/signup [post]
func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, h.Identity.SignUp)
}

// LoginHandler lida com a requisição POST /api/auth/login.
// @Summary Autentica email/senha no provedor de identidade (proxy transparente)
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "Email e senha"
// @Success 200 {object} object "Corpo e status do provedor, inalterados"
// @Failure 400 {object} domain.ErrorResponse "Campos obrigatórios ausentes"
// @Failure 500 {object} domain.ErrorResponse "Chave do provedor não configurada"
// @Failure 503 {object} domain.ErrorResponse "Provedor inacessível"
// @Router /api/auth/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, h.Identity.SignIn)
}

// relay valida o payload, chama o provedor e repassa corpo e status.
func (h *Handler) relay(w http.ResponseWriter, r *http.Request, call func(context.Context, string, string) (json.RawMessage, int, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var creds CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.writeError(w, apperror.NewValidationError("invalid JSON payload"))
		return
	}

	if err := validation.Require(
		validation.Field{Name: "email", Value: creds.Email},
		validation.Field{Name: "password", Value: creds.Password},
	); err != nil {
		h.writeError(w, err)
		return
	}

	body, status, err := call(r.Context(), creds.Email, creds.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	// Retransmissão verbatim: o que o provedor respondeu é o que o cliente recebe.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeError traduz falhas locais (validação, configuração, indisponibilidade)
// para o envelope {success, message}. Texto de erro interno não vaza.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, _, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error("Erro no proxy do provedor de identidade.", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Success: false, Message: message})
}
