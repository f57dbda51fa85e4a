package errors

import (
	"net/http"
)

// AppError é a interface central para todos os erros customizados do backend.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "NOT_FOUND", "INTERNAL_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return e.Msg }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }                   // Não encapsula erro subjacente

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return e.Msg }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa a violação de uma invariante de unicidade
// (e.g., email ou firebase_uid duplicado).
// O app mobile em produção trata duplicidade como 400 + success:false,
// então o mapeamento fica em 400 e não em 409.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return e.Msg }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito de unicidade.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// UnauthorizedError representa falha de autenticação (credenciais ou token inválidos).
// A mensagem nunca distingue "usuário inexistente" de "senha incorreta".
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return e.Msg }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// ConfigurationError representa configuração ausente ou inválida detectada
// em tempo de requisição (e.g., chave do provedor de identidade não definida).
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string    { return e.Msg }
func (e *ConfigurationError) Category() string { return "CONFIGURATION_ERROR" }
func (e *ConfigurationError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *ConfigurationError) Unwrap() error    { return nil }

// NewConfigurationError cria um erro de configuração ausente/inválida.
func NewConfigurationError(msg string) AppError {
	return &ConfigurationError{Msg: msg}
}

// UnavailableError representa indisponibilidade de um colaborador externo
// (timeout ou falha de conexão com o provedor de identidade). É uma classe
// distinta do InternalError porque o cliente pode tentar novamente.
type UnavailableError struct {
	Msg string
	Err error
}

func (e *UnavailableError) Error() string    { return e.Msg }
func (e *UnavailableError) Category() string { return "UNAVAILABLE" }
func (e *UnavailableError) HTTPStatus() int  { return http.StatusServiceUnavailable } // 503
func (e *UnavailableError) Unwrap() error    { return e.Err }

// NewUnavailableError cria um erro de dependência externa indisponível.
func NewUnavailableError(msg string, err error) AppError {
	return &UnavailableError{Msg: msg, Err: err}
}

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string    { return e.Msg }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(msg, err)
}

// --- Helper para o Handler (Tradução Final) ---

// genericInternalMsg é o corpo exposto ao cliente para qualquer falha 5xx
// não-configuracional. O texto do erro subjacente nunca vaza na resposta.
const genericInternalMsg = "internal server error"

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP, categoria e
// mensagem pública. Mensagens de InternalError (e de erros não tipados) são
// substituídas por uma mensagem genérica.
func MapToHTTPStatus(err error) (int, string, string) {
	if appErr, ok := err.(AppError); ok {
		if _, internal := appErr.(*InternalError); internal {
			return appErr.HTTPStatus(), appErr.Category(), genericInternalMsg
		}
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado (e.g., erro simples de pacote Go que não implementa AppError)
	// Tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", genericInternalMsg
}
