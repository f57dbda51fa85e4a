package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"reportit/internal/domain"
	apperror "reportit/internal/errors"
	"reportit/internal/pkg/logger"
)

// UserRepository implementa a interface domain.UserRepository.
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const insertSQL = `INSERT INTO users (id, firebase_uid, first_name, last_name, name, email, password_hash, role, barangay, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const selectColumns = `id, firebase_uid, first_name, last_name, name, email, password_hash, role, barangay, created_at, updated_at`

// uniqueViolation é o código de erro do PostgreSQL para violação de
// constraint UNIQUE. É a garantia autoritativa de unicidade: a checagem
// exists + insert em dois passos deixaria uma janela de corrida.
const uniqueViolation = "23505"

// Save insere um novo usuário no banco de dados.
// Violação de UNIQUE (email ou firebase_uid) vira ConflictError.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"email": user.Email})

	// 1. Configura Contexto com Timeout
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// 2. Prepara dados e ID
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	// firebase_uid é opcional; nulo quando ausente para não colidir na UNIQUE
	var firebaseUID sql.NullString
	if user.FirebaseUID != "" {
		firebaseUID = sql.NullString{String: user.FirebaseUID, Valid: true}
	}

	// 3. Executa o INSERT
	_, err := r.DB.ExecContext(
		ctxTimeout,
		insertSQL,
		user.ID,
		firebaseUID,
		user.FirstName,
		user.LastName,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Barangay,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			r.logger.Info("Conflito de unicidade ao inserir usuário.", map[string]interface{}{
				"email":      user.Email,
				"constraint": pqErr.Constraint,
			})
			if strings.Contains(pqErr.Constraint, "firebase_uid") {
				return domain.User{}, apperror.NewConflictError("User with this Firebase UID already exists")
			}
			return domain.User{}, apperror.NewConflictError("User with this email already exists")
		}

		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to insert user", err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID, "email": user.Email})
	return user, nil
}

// FindByID busca um usuário pelo identificador local.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, `SELECT `+selectColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail busca um usuário pelo endereço de e-mail.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, `SELECT `+selectColumns+` FROM users WHERE email = $1`, email)
}

// FindByFirebaseUID busca um usuário pelo UID do provedor de identidade.
func (r *UserRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (domain.User, error) {
	return r.findOne(ctx, `SELECT `+selectColumns+` FROM users WHERE firebase_uid = $1`, firebaseUID)
}

// findOne executa uma busca de registro único e mapeia sql.ErrNoRows para 404.
func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout, query, arg)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Info("Usuário não encontrado no DB.", map[string]interface{}{"arg": arg})
			return domain.User{}, apperror.NewNotFoundError("User not found")
		}
		r.logger.Error("Falha ao buscar usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user", err)
	}

	return user, nil
}

// FindAll retorna todos os usuários, ordenados pela data de criação.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	r.logger.Debug("Iniciando FindAll de usuários no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+selectColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		r.logger.Error("Falha ao listar usuários no DB.", err)
		return nil, apperror.NewDBError("failed to list users", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear linha de usuário.", err)
			return nil, apperror.NewDBError("failed to scan user row", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate user rows", err)
	}

	r.logger.Info("Usuários listados com sucesso.", map[string]interface{}{"count": len(users)})
	return users, nil
}

// ExistsByEmail informa se já existe usuário com o e-mail dado.
// Pré-checagem apenas informativa: a unicidade autoritativa é a constraint.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

// ExistsByFirebaseUID informa se já existe usuário com o UID dado.
func (r *UserRepository) ExistsByFirebaseUID(ctx context.Context, firebaseUID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE firebase_uid = $1)`, firebaseUID)
}

// UsernameAvailable retorna true se nenhum usuário usa o candidato como
// identificador de login. O username do sistema é o próprio e-mail.
func (r *UserRepository) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	taken, err := r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, username)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (r *UserRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var found bool
	if err := r.DB.QueryRowContext(ctxTimeout, query, arg).Scan(&found); err != nil {
		r.logger.Error("Falha em consulta de existência no DB.", err)
		return false, apperror.NewDBError("failed existence check", err)
	}
	return found, nil
}

// rowScanner cobre *sql.Row e *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUser mapeia uma linha da tabela users para a struct de domínio.
func scanUser(row rowScanner) (domain.User, error) {
	var user domain.User
	var firebaseUID sql.NullString

	err := row.Scan(
		&user.ID,
		&firebaseUID,
		&user.FirstName,
		&user.LastName,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Barangay,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	if firebaseUID.Valid {
		user.FirebaseUID = firebaseUID.String
	}

	return user, nil
}
