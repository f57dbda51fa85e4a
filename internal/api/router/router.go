package router

import (
	"encoding/json"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"reportit/internal/api/auth"
	"reportit/internal/api/user"
	"reportit/internal/domain"
	"reportit/internal/pkg/cache"
	"reportit/internal/pkg/middleware"

	_ "reportit/docs" // registro do documento swagger
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(
	userHandler *user.Handler,
	authHandler *auth.Handler,
	authenticator middleware.Authenticator,
	cacheClient cache.Client,
	rateLimitMax int,
	rateLimitPeriod time.Duration,
) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	mux := http.NewServeMux()

	// --- 1. Proxy do provedor de identidade ---
	mux.HandleFunc("/api/auth/signup", authHandler.SignupHandler)
	mux.HandleFunc("/api/auth/login", authHandler.LoginHandler)

	// --- 2. Usuários locais ---
	authMW := middleware.NewAuthMiddleware(authenticator)
	adminOnly := middleware.PermissionMiddleware(domain.RoleAdmin)

	// GET /api/users (listagem, somente admin autenticado)
	mux.HandleFunc("/api/users", authMW(adminOnly(userHandler.ListUsersHandler)))

	mux.HandleFunc("/api/users/register", userHandler.RegisterUserHandler)
	mux.HandleFunc("/api/users/login", userHandler.LoginUserHandler)
	mux.HandleFunc("/api/users/check-username", userHandler.CheckUsernameHandler)
	mux.HandleFunc("/api/users/verify", userHandler.VerifyUserHandler)

	// GET /api/users/{firebase_uid} — o padrão com barra captura o path param;
	// os padrões mais específicos acima têm precedência no ServeMux.
	mux.HandleFunc("/api/users/", userHandler.GetUserByFirebaseUIDHandler)

	// --- 3. Documentação ---
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// --- 4. Middlewares Globais ---
	limited := middleware.RateLimiter(cacheClient, rateLimitMax, rateLimitPeriod)(mux)

	// --- 5. Health Check ---
	// Registrado fora da cadeia limitada: sem nenhuma dependência, responde
	// 200 mesmo com DB e Redis fora do ar.
	root := http.NewServeMux()
	root.HandleFunc("/health", HealthHandler)
	root.Handle("/", limited)

	return root
}

// HealthHandler responde o health check do serviço.
// Por contrato não toca o User Record Store nem qualquer outra dependência.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "reportit-backend",
	})
}
