package domain

import (
	"context"
	"time"
)

// AuthToken é o token opaco emitido localmente para um usuário.
// Há no máximo um token ativo por usuário: criado de forma preguiçosa no
// primeiro login bem-sucedido e reutilizado nos seguintes (get-or-create).
// Sem expiração, rotação ou revogação nesta superfície.
type AuthToken struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenRepository define o contrato de persistência para o AuthToken.
type TokenRepository interface {
	// GetOrCreate persiste candidate como token do usuário, ou retorna o
	// token já existente. A operação é atômica no banco (upsert em um único
	// statement), nunca um SELECT seguido de INSERT.
	GetOrCreate(ctx context.Context, userID string, candidate string) (string, error)

	// FindUserIDByToken resolve um token apresentado por um cliente no
	// usuário dono dele. Retorna NotFoundError se o token não existir.
	FindUserIDByToken(ctx context.Context, token string) (string, error)
}
