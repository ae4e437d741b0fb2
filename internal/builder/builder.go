package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/burbla/burbla-backend/internal/api"
	chatapi "github.com/burbla/burbla-backend/internal/api/chat"
	sessionapi "github.com/burbla/burbla-backend/internal/api/session"
	userapi "github.com/burbla/burbla-backend/internal/api/user"
	"github.com/burbla/burbla-backend/internal/config"
	agentconn "github.com/burbla/burbla-backend/internal/integration/agent"
	"github.com/burbla/burbla-backend/internal/integration/places"
	"github.com/burbla/burbla-backend/internal/repository"
	"github.com/burbla/burbla-backend/internal/usecase/chat"
	"github.com/burbla/burbla-backend/internal/usecase/session"
	"github.com/burbla/burbla-backend/internal/usecase/user"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	chatRepo := repository.NewChatMessagePostgres(db)
	sessionRepo := repository.NewSessionPostgres(db)
	userRepo := repository.NewUserPostgres(db)
	logger.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	var placesConnector agentconn.PlacesService
	var agentConnector chat.AgentConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		placesConnector = places.NewMockConnector(logger)
		agentConnector = agentconn.NewMockConnector(placesConnector)
	} else {
		logger.Info("Using real connectors for external services")
		placesConnector = places.NewConnector(cfg.PlacesConnectorCfg, logger)
		agentConnector, err = agentconn.NewConnector(ctx, cfg.AgentConnectorCfg, placesConnector, logger)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("initialize agent connector: %w", err)
		}
	}

	// Initialize use cases
	normalizer := chat.NewNormalizer(&cfg.NormalizerRetry)
	chatUC := chat.NewUsecase(chatRepo, sessionRepo, userRepo, agentConnector, normalizer, logger)
	sessionUC := session.NewUsecase(sessionRepo, chatRepo, logger)
	userUC := user.NewUsecase(userRepo, logger)
	logger.Info("Use cases initialized")

	// Setup API handlers
	chatHandler := chatapi.NewHandler(chatUC)
	sessionHandler := sessionapi.NewHandler(sessionUC)
	userHandler := userapi.NewHandler(userUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(chatHandler, sessionHandler, userHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		db:     db,
		logger: logger,
	}, nil
}
