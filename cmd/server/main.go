package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"loomspace/internal/auth"
	"loomspace/internal/config"
	"loomspace/internal/domain/repositories"
	wsRepo "loomspace/internal/domain/repositories/workspace"
	"loomspace/internal/handler"
	"loomspace/internal/middleware"
	"loomspace/internal/realtime"
	"loomspace/internal/repository/memory"
	"loomspace/internal/repository/postgres"
	pgWorkspace "loomspace/internal/repository/postgres/workspace"
	authService "loomspace/internal/service/auth"
	wsService "loomspace/internal/service/workspace"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// backend is the set of repositories the services run on.
type backend struct {
	workspaces    wsRepo.WorkspaceRepository
	folders       wsRepo.FolderRepository
	files         wsRepo.FileRepository
	collaborators wsRepo.CollaboratorRepository
	users         wsRepo.UserRepository
	tx            repositories.TransactionManager
	close         func()
}

func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	if cfg.StorageBackend == "memory" {
		store := memory.NewStore()
		logger.Warn("using in-memory storage, data is lost on restart")
		return &backend{
			workspaces:    store.Workspaces(),
			folders:       store.Folders(),
			files:         store.Files(),
			collaborators: store.Collaborators(),
			users:         store.Users(),
			tx:            store.TxManager(),
			close:         func() {},
		}, nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
		"table_prefix", cfg.TablePrefix,
	)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	return &backend{
		workspaces:    pgWorkspace.NewWorkspaceRepository(repoConfig),
		folders:       pgWorkspace.NewFolderRepository(repoConfig),
		files:         pgWorkspace.NewFileRepository(repoConfig),
		collaborators: pgWorkspace.NewCollaboratorRepository(repoConfig),
		users:         pgWorkspace.NewUserRepository(repoConfig),
		tx:            postgres.NewTransactionManager(repoConfig),
		close:         pool.Close,
	}, nil
}

// newVerifier prefers the shared HS256 secret when configured, JWKS otherwise.
func newVerifier(cfg *config.Config, logger *slog.Logger) (auth.JWTVerifier, error) {
	if cfg.JWTSecret != "" {
		logger.Info("verifying tokens with shared secret")
		return auth.NewSecretVerifier(cfg.JWTSecret, logger)
	}
	logger.Info("verifying tokens with JWKS", "url", cfg.SupabaseJWKSURL)
	return auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
}

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	out, closeLog, err := config.LogOutput(cfg.LogDir, "server", cfg.LogMaxFiles)
	if err != nil {
		log.Fatalf("Failed to set up log file: %v", err)
	}
	defer closeLog()

	logger := config.NewLogger(cfg.Debug, out)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.StorageBackend,
	)

	realtimeSettings, err := config.LoadRealtime(cfg.RealtimeConfigPath)
	if err != nil {
		log.Fatalf("Failed to load realtime settings: %v", err)
	}

	jwtVerifier, err := newVerifier(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openBackend(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer repos.close()

	authorizer := authService.NewMembershipAuthorizer(repos.workspaces, repos.folders, repos.files, repos.collaborators)

	workspaceService := wsService.NewWorkspaceService(repos.workspaces, repos.folders, repos.files, repos.collaborators, repos.tx, authorizer, logger)
	folderService := wsService.NewFolderService(repos.folders, repos.files, repos.tx, authorizer, logger)
	fileService := wsService.NewFileService(repos.files, repos.folders, authorizer, logger)
	collaboratorService := wsService.NewCollaboratorService(repos.collaborators, repos.users, repos.tx, authorizer, logger)

	origins := strings.Split(cfg.CORSOrigins, ",")
	hub := realtime.NewHub(realtimeSettings, logger,
		realtime.WithAuthorizer(authorizer),
		realtime.WithAllowedOrigins(origins...),
	)
	defer hub.Close()

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.Register(mux, handler.Handlers{
		Workspaces:    handler.NewWorkspaceHandler(workspaceService, logger),
		Folders:       handler.NewFolderHandler(folderService, logger),
		Files:         handler.NewFileHandler(fileService, logger),
		Collaborators: handler.NewCollaboratorHandler(collaboratorService, logger),
		Realtime:      hub,
	})

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Logger → Auth → Routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(jwtVerifier, logger)(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled for long-lived websocket connections
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}
}
