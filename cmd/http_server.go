package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/rbac-management/internal"
	"github.com/frahmantamala/rbac-management/internal/assignment"
	assignmentPostgres "github.com/frahmantamala/rbac-management/internal/assignment/postgres"
	"github.com/frahmantamala/rbac-management/internal/core/database"
	"github.com/frahmantamala/rbac-management/internal/permission"
	permissionPostgres "github.com/frahmantamala/rbac-management/internal/permission/postgres"
	"github.com/frahmantamala/rbac-management/internal/resolver"
	resolverPostgres "github.com/frahmantamala/rbac-management/internal/resolver/postgres"
	"github.com/frahmantamala/rbac-management/internal/role"
	rolePostgres "github.com/frahmantamala/rbac-management/internal/role/postgres"
	"github.com/frahmantamala/rbac-management/internal/transport"
	"github.com/frahmantamala/rbac-management/internal/transport/rest"
	"github.com/frahmantamala/rbac-management/internal/user"
	userPostgres "github.com/frahmantamala/rbac-management/internal/user/postgres"
	"github.com/frahmantamala/rbac-management/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *database.Handle
	Router   *chi.Mux
	Services *Services
	Logger   *slog.Logger
}

// Services holds one instance of every domain service, all sharing the
// same gorm session.
type Services struct {
	User       *user.Service
	Role       *role.Service
	Permission *permission.Service
	Assignment *assignment.Service
	Resolver   *resolver.Service
}

func newServices(db *gorm.DB, lg *slog.Logger) *Services {
	return &Services{
		User:       user.NewService(userPostgres.NewUserRepository(db), lg),
		Role:       role.NewService(rolePostgres.NewRoleRepository(db), lg),
		Permission: permission.NewService(permissionPostgres.NewPermissionRepository(db), lg),
		Assignment: assignment.NewService(assignmentPostgres.NewAssignmentRepository(db), lg),
		Resolver:   resolver.NewService(resolverPostgres.NewResolverRepository(db), lg),
	}
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			_ = deps.DB.Close()
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	base := transport.NewBaseHandler(deps.Logger)
	handlers := rest.Handlers{
		User:       user.NewHandler(base, deps.Services.User),
		Role:       role.NewHandler(base, deps.Services.Role),
		Permission: permission.NewHandler(base, deps.Services.Permission),
		Assignment: assignment.NewHandler(base, deps.Services.Assignment),
		Resolver:   resolver.NewHandler(base, deps.Services.Resolver),
	}
	rest.RegisterAllRoutes(deps.Router, deps.DB.SQL, handlers, deps.Config.Server, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := database.Open(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Router:   chi.NewRouter(),
		Services: newServices(db.Gorm, lg),
	}, nil
}
