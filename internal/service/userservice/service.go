package userservice

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"reportit/internal/domain"
	apperror "reportit/internal/errors"
	"reportit/internal/pkg/logger"
	"reportit/internal/validation"
)

// invalidCredentialsMsg é a resposta única para qualquer falha de login.
// Nunca distinguimos "usuário inexistente" de "senha incorreta" para não
// permitir enumeração de contas.
const invalidCredentialsMsg = "Invalid email or password"

// TokenIssuer é o contrato da camada de token (internal/pkg/token).
type TokenIssuer interface {
	Issue(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
}

// UserService define o serviço de lógica de negócio para a entidade User.
// É o único serviço de registro/login do sistema: o fluxo local e o fluxo
// vinculado ao provedor de identidade passam pelos mesmos métodos, variando
// apenas a presença do FirebaseUID no payload.
type UserService struct {
	UserRepo domain.UserRepository
	TokenSvc TokenIssuer
	logger   logger.Logger
}

// NewService cria uma nova instância do UserService, injetando o Repositório.
func NewService(repo domain.UserRepository, tokenSvc TokenIssuer, logger logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		logger:   logger,
	}
}

// Register registra um novo usuário no sistema e emite seu token.
// Fluxo: validação → pré-checagens de conflito (mensagem amigável) → hash da
// senha → persistência (conflito autoritativo via constraint UNIQUE) → token.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, string, error) {
	s.logger.Debug("Iniciando registro de usuário no serviço.", map[string]interface{}{"email": registration.Email})

	// 1. Validação de campos obrigatórios (primeiro ausente nomeado no erro)
	if err := validation.Require(
		validation.Field{Name: "email", Value: registration.Email},
		validation.Field{Name: "password", Value: registration.Password},
		validation.Field{Name: "first_name", Value: registration.FirstName},
		validation.Field{Name: "last_name", Value: registration.LastName},
		validation.Field{Name: "barangay", Value: registration.Barangay},
	); err != nil {
		return domain.User{}, "", err
	}

	// 2. Papel: default User; qualquer valor fora do enum é rejeitado
	role := domain.RoleUser
	if registration.Role != "" {
		if !domain.ValidRole(registration.Role) {
			return domain.User{}, "", apperror.NewValidationError("role must be User or Admin")
		}
		role = domain.UserRole(registration.Role)
	}

	// 3. Pré-checagens de conflito. Apenas para mensagens amigáveis: a
	// garantia real contra duplicidade concorrente é a constraint no Save.
	if exists, err := s.UserRepo.ExistsByEmail(ctx, registration.Email); err != nil {
		return domain.User{}, "", err
	} else if exists {
		return domain.User{}, "", apperror.NewConflictError("User with this email already exists")
	}

	if registration.FirebaseUID != "" {
		if exists, err := s.UserRepo.ExistsByFirebaseUID(ctx, registration.FirebaseUID); err != nil {
			return domain.User{}, "", err
		} else if exists {
			return domain.User{}, "", apperror.NewConflictError("User with this Firebase UID already exists")
		}
	}

	// 4. Hashing da Senha
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", apperror.NewInternalError("failed to hash password", err)
	}

	// 5. Criação do Objeto User
	// Name é sempre derivado das partes do nome, nunca aceito do caller.
	newUser := domain.User{
		FirebaseUID:  registration.FirebaseUID,
		FirstName:    registration.FirstName,
		LastName:     registration.LastName,
		Name:         displayName(registration.FirstName, registration.LastName),
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Barangay:     registration.Barangay,
	}

	// 6. Persistência (ConflictError aqui vem da violação de UNIQUE)
	user, err := s.UserRepo.Save(ctx, newUser)
	if err != nil {
		return domain.User{}, "", err
	}

	// 7. Emissão do token opaco (get-or-create)
	tokenValue, err := s.TokenSvc.Issue(ctx, user.ID)
	if err != nil {
		return domain.User{}, "", apperror.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("Usuário registrado com sucesso.", map[string]interface{}{"user_id": user.ID, "email": user.Email})
	return user, tokenValue, nil
}

// Login autentica um usuário, verifica a senha e resolve o token opaco.
func (s *UserService) Login(ctx context.Context, email string, password string) (domain.User, string, error) {
	// 1. Validação Básica
	if err := validation.Require(
		validation.Field{Name: "email", Value: email},
		validation.Field{Name: "password", Value: password},
	); err != nil {
		return domain.User{}, "", err
	}

	// 2. Buscar Usuário pelo Email
	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		// NotFound vira o mesmo 401 de senha incorreta.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return domain.User{}, "", apperror.NewUnauthorizedError(invalidCredentialsMsg)
		}
		// Erro interno se falhar a busca (DB error)
		return domain.User{}, "", err
	}

	// 3. Comparar Senhas (Hashing)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", apperror.NewUnauthorizedError(invalidCredentialsMsg)
	}

	// 4. Token opaco: reutiliza o existente ou cria no primeiro login
	tokenValue, err := s.TokenSvc.Issue(ctx, user.ID)
	if err != nil {
		return domain.User{}, "", apperror.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("Login realizado com sucesso.", map[string]interface{}{"user_id": user.ID})
	return user, tokenValue, nil
}

// GetByFirebaseUID busca o usuário vinculado a um UID do provedor de
// identidade. Usado tanto pelo verify (confirma que o UID mapeia para um
// registro local) quanto pela busca direta por UID. Sem checagem de senha.
func (s *UserService) GetByFirebaseUID(ctx context.Context, firebaseUID string) (domain.User, error) {
	if err := validation.Require(
		validation.Field{Name: "firebase_uid", Value: firebaseUID},
	); err != nil {
		return domain.User{}, err
	}

	return s.UserRepo.FindByFirebaseUID(ctx, firebaseUID)
}

// CheckUsername informa se o candidato está livre como identificador de login.
// Consulta pura, sem mutação.
func (s *UserService) CheckUsername(ctx context.Context, username string) (bool, error) {
	if err := validation.Require(
		validation.Field{Name: "username", Value: username},
	); err != nil {
		return false, err
	}

	return s.UserRepo.UsernameAvailable(ctx, username)
}

// ListUsers retorna todos os usuários ordenados por data de criação.
// A sanitização (nenhum hash de senha) acontece na serialização do handler.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.UserRepo.FindAll(ctx)
}

// AuthenticateToken resolve um bearer token opaco no usuário dono dele.
// Qualquer token desconhecido vira Unauthorized, sem detalhar o motivo.
func (s *UserService) AuthenticateToken(ctx context.Context, tokenValue string) (domain.User, error) {
	if strings.TrimSpace(tokenValue) == "" {
		return domain.User{}, apperror.NewUnauthorizedError("Authorization token missing or malformed")
	}

	userID, err := s.TokenSvc.Resolve(ctx, tokenValue)
	if err != nil {
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return domain.User{}, apperror.NewUnauthorizedError("Invalid or expired token")
		}
		return domain.User{}, err
	}

	return s.UserRepo.FindByID(ctx, userID)
}

// displayName concatena as partes do nome no formato usado pelo app.
func displayName(first string, last string) string {
	return strings.TrimSpace(first + " " + last)
}
