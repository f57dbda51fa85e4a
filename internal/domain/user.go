package domain

import (
	"context"
	"time"
)

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string    `json:"id"`
	FirebaseUID  string    `json:"firebase_uid,omitempty"` // UID do provedor de identidade (opcional, único quando presente)
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Name         string    `json:"name"` // Sempre recalculado a partir de FirstName + LastName no save
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	Barangay     string    `json:"barangay"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

// Constantes para os papéis de usuário. A grafia segue o contrato do app
// mobile ("User"/"Admin"), não a convenção minúscula.
const (
	RoleUser  UserRole = "User"
	RoleAdmin UserRole = "Admin"
)

// ValidRole informa se a string corresponde a um papel conhecido.
func ValidRole(role string) bool {
	switch UserRole(role) {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// UserRegistration representa o payload de entrada para o registro local.
// FirebaseUID é opcional: presente apenas no fluxo vinculado ao provedor
// de identidade.
type UserRegistration struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Barangay    string `json:"barangay"`
	Role        string `json:"role,omitempty"`
	FirebaseUID string `json:"firebase_uid,omitempty"`
}

// UserCredentials representa o payload de entrada para o login local.
type UserCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserRepository define o contrato de persistência para a entidade User.
// A unicidade de email e firebase_uid é garantida por constraints UNIQUE no
// banco: Save retorna ConflictError na violação, sem depender de pré-checagem.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (User, error)
	FindAll(ctx context.Context) ([]User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByFirebaseUID(ctx context.Context, firebaseUID string) (bool, error)
	UsernameAvailable(ctx context.Context, username string) (bool, error)
}
