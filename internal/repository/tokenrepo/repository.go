package tokenrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperror "reportit/internal/errors"
	"reportit/internal/pkg/logger"
)

// TokenRepository implementa a interface domain.TokenRepository sobre a
// tabela auth_tokens (uma linha por usuário, user_id UNIQUE).
type TokenRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewTokenRepository cria uma nova instância do TokenRepository, injetando o DB.
func NewTokenRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *TokenRepository {
	return &TokenRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// upsertSQL faz o get-or-create em um único statement: se o usuário já tem
// token, o DO UPDATE é um no-op que permite o RETURNING devolver o valor
// existente. Dois logins concorrentes recebem o mesmo token, sem SELECT
// prévio e sem janela de corrida.
const upsertSQL = `INSERT INTO auth_tokens (user_id, token, created_at)
                   VALUES ($1, $2, $3)
                   ON CONFLICT (user_id) DO UPDATE SET user_id = auth_tokens.user_id
                   RETURNING token`

// GetOrCreate persiste candidate como token do usuário ou retorna o existente.
func (r *TokenRepository) GetOrCreate(ctx context.Context, userID string, candidate string) (string, error) {
	r.logger.Debug("Iniciando GetOrCreate de token no repositório.", map[string]interface{}{"user_id": userID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var token string
	err := r.DB.QueryRowContext(ctxTimeout, upsertSQL, userID, candidate, time.Now()).Scan(&token)
	if err != nil {
		r.logger.Error("Falha no upsert de token no DB.", err)
		return "", apperror.NewDBError("failed to upsert token", err)
	}

	r.logger.Info("Token resolvido para o usuário.", map[string]interface{}{"user_id": userID, "reused": token != candidate})
	return token, nil
}

// FindUserIDByToken resolve um token apresentado por um cliente no usuário dono dele.
func (r *TokenRepository) FindUserIDByToken(ctx context.Context, token string) (string, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var userID string
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT user_id FROM auth_tokens WHERE token = $1`, token).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperror.NewNotFoundError("token not found")
		}
		r.logger.Error("Falha ao buscar token no DB.", err)
		return "", apperror.NewDBError("failed to find token", err)
	}

	return userID, nil
}
