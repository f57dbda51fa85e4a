package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"reportit/internal/domain"
)

// ContextKey é o tipo das chaves de contexto deste pacote.
// Usamos um tipo próprio para garantir que a chave seja única e não haja
// conflito com chaves string de outros pacotes.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados do usuário resolvidos a partir do bearer
// token, anexados ao contexto da requisição.
type UserClaims struct {
	UserID string
	Role   domain.UserRole
}

// Authenticator define o contrato de resolução de token necessário para o
// middleware: recebe o token opaco e devolve o usuário dono dele.
type Authenticator interface {
	AuthenticateToken(ctx context.Context, token string) (domain.User, error)
}

// NewAuthMiddleware cria uma função de middleware que resolve o bearer token
// opaco no armazenamento local e anexa as claims (UserID e Role) ao contexto
// da requisição.
func NewAuthMiddleware(auth Authenticator) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Extrair o Token do Header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "Authorization token missing or malformed")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			// 2. Resolver o Token no armazenamento local
			user, err := auth.AuthenticateToken(r.Context(), tokenString)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			// 3. Anexar Claims ao Contexto
			userClaims := UserClaims{
				UserID: user.ID,
				Role:   user.Role,
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)

			// Chama o próximo handler com o novo contexto
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// PermissionMiddleware restringe o acesso às roles informadas.
func PermissionMiddleware(requiredRoles ...domain.UserRole) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			// 1. Tentar extrair as Claims do contexto
			claims, ok := GetUserClaimsFromContext(r.Context())

			// Se o AuthMiddleware não foi executado ou falhou em anexar as claims,
			// tratamos como não autorizado.
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Authorization required")
				return
			}

			// 2. Verificar Permissão (AuthZ)
			isAuthorized := false
			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					isAuthorized = true
					break
				}
			}

			if !isAuthorized {
				writeAuthError(w, http.StatusForbidden, "Access denied")
				return
			}

			// 3. Permissão concedida: Chama o próximo handler
			next.ServeHTTP(w, r)
		}
	}
}

// writeAuthError escreve o envelope JSON padrão de falha de autenticação.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Success: false, Message: message})
}
