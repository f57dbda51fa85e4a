package user

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"reportit/internal/domain"
	apperror "reportit/internal/errors"
	"reportit/internal/pkg/logger"
)

// UserService define o contrato que os handlers esperam da camada de serviço.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, string, error)
	Login(ctx context.Context, email string, password string) (domain.User, string, error)
	GetByFirebaseUID(ctx context.Context, firebaseUID string) (domain.User, error)
	CheckUsername(ctx context.Context, username string) (bool, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// UserResponse é a projeção do usuário exposta aos clientes.
// Nunca inclui senha ou hash.
type UserResponse struct {
	ID          string    `json:"id"`
	FirebaseUID string    `json:"firebase_uid,omitempty"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Barangay    string    `json:"barangay"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// toUserResponse sanitiza a entidade de domínio para resposta HTTP.
func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirebaseUID: u.FirebaseUID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		Barangay:    u.Barangay,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// AuthResponse é o envelope de sucesso de registro e login.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

// UserEnvelope é o envelope de sucesso do verify e da busca por UID.
type UserEnvelope struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

// ListResponse é o envelope da listagem de usuários.
type ListResponse struct {
	Success bool           `json:"success"`
	Users   []UserResponse `json:"users"`
}

// AvailabilityResponse é o envelope do check-username.
type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// VerifyRequest é o payload do verify (variante vinculada ao provedor).
type VerifyRequest struct {
	FirebaseUID string `json:"firebase_uid"`
	Email       string `json:"email,omitempty"`
}

// CheckUsernameRequest é o payload do check-username.
type CheckUsernameRequest struct {
	Username string `json:"username"`
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// writeJSON serializa o payload de resposta com o status informado.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeError traduz o erro de serviço para o envelope {success, message}.
// Erros 5xx são logados; o texto interno nunca alcança o cliente.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, _, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error("Erro interno no serviço de usuário.", err)
	}

	h.writeJSON(w, status, domain.ErrorResponse{Success: false, Message: message})
}

// RegisterUserHandler lida com a requisição POST /api/users/register.
// @Summary Registra um novo usuário
// @Description Valida os campos, hasheia a senha, persiste o usuário e emite o token opaco.
// @Tags users
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Dados de registro"
// @Success 201 {object} AuthResponse "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Campo obrigatório ausente ou email/uid duplicado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/users/register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var reg domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		h.writeError(w, apperror.NewValidationError("invalid JSON payload"))
		return
	}

	user, token, err := h.Service.Register(r.Context(), reg)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "User registered successfully",
		User:    toUserResponse(user),
		Token:   token,
	})
}

// LoginUserHandler lida com a requisição POST /api/users/login.
// @Summary Autentica um usuário e retorna o token opaco
// @Description Verifica email/senha e devolve o usuário sanitizado com o token (get-or-create).
// @Tags users
// @Accept json
// @Produce json
// @Param login body domain.UserCredentials true "Credenciais do usuário"
// @Success 200 {object} AuthResponse "Login realizado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/users/login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var creds domain.UserCredentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.writeError(w, apperror.NewValidationError("invalid JSON payload"))
		return
	}

	user, token, err := h.Service.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    toUserResponse(user),
		Token:   token,
	})
}

// CheckUsernameHandler lida com a requisição POST /api/users/check-username.
// @Summary Verifica disponibilidade de username
// @Tags users
// @Accept json
// @Produce json
// @Param payload body CheckUsernameRequest true "Username candidato"
// @Success 200 {object} AvailabilityResponse
// @Failure 400 {object} AvailabilityResponse "Username ausente"
// @Router /api/users/check-username [post]
func (h *Handler) CheckUsernameHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var req CheckUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, AvailabilityResponse{Available: false, Message: "invalid JSON payload"})
		return
	}

	available, err := h.Service.CheckUsername(r.Context(), req.Username)
	if err != nil {
		// O contrato deste endpoint usa {available, message} também na falha.
		status, _, message := apperror.MapToHTTPStatus(err)
		if status >= 500 {
			h.Logger.Error("Erro interno no check-username.", err)
		}
		h.writeJSON(w, status, AvailabilityResponse{Available: false, Message: message})
		return
	}

	message := "Available"
	if !available {
		message = "Username already taken"
	}

	h.writeJSON(w, http.StatusOK, AvailabilityResponse{Available: available, Message: message})
}

// ListUsersHandler lida com a requisição GET /api/users.
// Protegido por bearer token + role Admin no roteador.
// @Summary Lista todos os usuários (admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ListResponse
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 403 {object} domain.ErrorResponse "Permissão insuficiente"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /api/users [get]
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}

	h.writeJSON(w, http.StatusOK, ListResponse{Success: true, Users: responses})
}

// VerifyUserHandler lida com a requisição POST /api/users/verify.
// Confirma que um UID do provedor de identidade mapeia para um registro
// local. Não há checagem de senha.
// @Summary Verifica vínculo de um UID do provedor com um usuário local
// @Tags users
// @Accept json
// @Produce json
// @Param payload body VerifyRequest true "UID do provedor"
// @Success 200 {object} UserEnvelope
// @Failure 400 {object} domain.ErrorResponse "UID ausente"
// @Failure 404 {object} domain.ErrorResponse "Usuário não encontrado"
// @Router /api/users/verify [post]
func (h *Handler) VerifyUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperror.NewValidationError("invalid JSON payload"))
		return
	}

	user, err := h.Service.GetByFirebaseUID(r.Context(), req.FirebaseUID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, UserEnvelope{Success: true, User: toUserResponse(user)})
}

// GetUserByFirebaseUIDHandler lida com a requisição GET /api/users/{firebase_uid}.
// @Summary Busca um usuário pelo UID do provedor de identidade
// @Tags users
// @Produce json
// @Param firebase_uid path string true "UID do provedor"
// @Success 200 {object} UserEnvelope
// @Failure 404 {object} domain.ErrorResponse "Usuário não encontrado"
// @Router /api/users/{firebase_uid} [get]
func (h *Handler) GetUserByFirebaseUIDHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	firebaseUID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/users/"), "/")
	if firebaseUID == "" || strings.Contains(firebaseUID, "/") {
		h.writeError(w, apperror.NewNotFoundError("User not found"))
		return
	}

	user, err := h.Service.GetByFirebaseUID(r.Context(), firebaseUID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, UserEnvelope{Success: true, User: toUserResponse(user)})
}
