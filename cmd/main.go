package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Pacotes de infraestrutura e utilitários
	"reportit/config"
	"reportit/internal/pkg/cache"
	"reportit/internal/pkg/database"
	"reportit/internal/pkg/identity"
	"reportit/internal/pkg/logger"
	"reportit/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"reportit/internal/api/auth"
	"reportit/internal/api/router"
	"reportit/internal/api/user"
	"reportit/internal/repository/tokenrepo"
	"reportit/internal/repository/userrepo"
	"reportit/internal/service/userservice"
)

// @title ReportIt Backend API
// @version 1.0
// @description Backend de registro e autenticação do app ReportIt.
func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço reportit-backend...")

	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		// Se o arquivo .env não for encontrado, avisamos mas continuamos:
		// as variáveis essenciais podem estar no ambiente (ex: Docker).
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis) — usado pelo rate limiter
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Cliente do Provedor de Identidade (proxy Firebase Auth)
	identityClient := identity.NewClient(cfg.FirebaseAPIKey, cfg.FirebaseBaseURL, cfg.ProviderTimeout, log)
	if cfg.FirebaseAPIKey == "" {
		log.Warn("FIREBASE_API_KEY não configurada: endpoints proxy responderão 500.", nil)
	}

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios (Camada de Acesso a Dados)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	tokenRepo := tokenrepo.NewTokenRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviço de Tokens (token opaco, get-or-create)
	tokenSvc := token.NewService(tokenRepo)
	log.Debug("Serviço de Tokens inicializado.", nil)

	// C. Serviço de Usuário (registro, login, verify, listagem)
	userSvc := userservice.NewService(userRepo, tokenSvc, log)
	log.Debug("Serviço de Usuário inicializado.", nil)

	// D. Handlers (Camada de Apresentação)
	userHandler := user.NewHandler(userSvc, log)
	authHandler := auth.NewHandler(identityClient, log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(userHandler, authHandler, userSvc, cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor reportit-backend ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	// Lógica do Graceful Shutdown (captura de sinal)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	// Timeout para desligamento (usa o contexto)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
