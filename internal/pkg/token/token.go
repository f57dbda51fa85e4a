package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"reportit/internal/domain"
	apperror "reportit/internal/errors"
)

// Issuer define o contrato para emissão e resolução do token opaco por usuário.
type Issuer interface {
	Issue(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
}

// Service implementa a interface Issuer sobre o TokenRepository.
// Semântica get-or-create: o primeiro login bem-sucedido cria o token do
// usuário; logins seguintes recebem o mesmo valor. Sem expiração ou rotação.
type Service struct {
	repo domain.TokenRepository
}

// NewService cria uma nova instância do serviço de Tokens.
func NewService(repo domain.TokenRepository) *Service {
	return &Service{repo: repo}
}

// tokenBytes de crypto/rand; hex-encoded vira um valor opaco de 64 caracteres.
const tokenBytes = 32

// Issue retorna o token ativo do usuário, cunhando um novo valor aleatório
// se ainda não existir. O candidato é gerado antes do upsert: se outro
// request criar o token primeiro, o upsert retorna o valor vencedor e o
// candidato é descartado.
func (s *Service) Issue(ctx context.Context, userID string) (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", apperror.NewInternalError("failed to generate token", err)
	}

	candidate := hex.EncodeToString(raw)

	return s.repo.GetOrCreate(ctx, userID, candidate)
}

// Resolve devolve o ID do usuário dono do token apresentado.
// Retorna NotFoundError se o token não existir.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	return s.repo.FindUserIDByToken(ctx, token)
}
