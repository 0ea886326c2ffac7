package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agrotalent/talent-hub/db"
	"github.com/agrotalent/talent-hub/internal/api/auth"
	"github.com/agrotalent/talent-hub/internal/api/domain"
	"github.com/agrotalent/talent-hub/internal/api/handler"
	"github.com/agrotalent/talent-hub/internal/api/model"
	"github.com/agrotalent/talent-hub/internal/api/router"
	"github.com/agrotalent/talent-hub/internal/api/storage"
	"github.com/agrotalent/talent-hub/internal/config"
	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/agrotalent/talent-hub/internal/notify"
	"github.com/agrotalent/talent-hub/shared/logger"
	"github.com/agrotalent/talent-hub/shared/objectstore"
	"github.com/agrotalent/talent-hub/shared/postgresql"
	"github.com/agrotalent/talent-hub/shared/rabbitmq"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateAPIConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	dbClient, err := initPostgreSQL(&cfg.Database, cfg.App.Name, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbClient.Close()

	appLogger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := postgresql.Migrate(migrateCtx, dbClient.GetDB(), db.Migrations, "migrations", appLogger.Logger)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	rabbitClient, err := initRabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
	}
	defer rabbitClient.Close()

	appLogger.Info("RabbitMQ connection established")

	objects, err := initObjectStore(cfg, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	store := storage.NewStorage(dbClient)
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	if err := bootstrapAdmin(cfg, store, appLogger.Logger); err != nil {
		return err
	}

	committer := intake.NewCommitter(&intake.CommitterConfig{
		Store:    store,
		Jobs:     store,
		Objects:  objects,
		Notifier: notify.NewPublisher(rabbitClient, appLogger.Logger),
		Logger:   appLogger.Logger,
	})

	deps := &handler.Dependencies{
		Logger:     appLogger.Logger,
		Jobs:       store,
		Candidates: store,
		Admins:     store,
		Objects:    objects,
		Committer:  committer,
		Lookup:     intake.NewLookup(store, appLogger.Logger),
		Tokens:     tokens,
		Health:     dbClient,
		Settings: handler.Settings{
			ServiceName:         cfg.App.Name,
			ResumeURLTTL:        cfg.Storage.ResumeURLTTL,
			WhatsAppCountryCode: cfg.Intake.WhatsAppCountryCode,
		},
		Now: time.Now,
	}

	r := initRouter(cfg, deps)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	appLogger.Info("API service is running",
		slog.String("address", addr),
		slog.String("public_url", cfg.Server.PublicURL),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Received signal, shutting down gracefully",
			slog.String("signal", sig.String()),
		)
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	})
}

func initPostgreSQL(cfg *config.DatabaseConfig, appName string, logger *slog.Logger) (*postgresql.Client, error) {
	return postgresql.NewClient(&postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		ApplicationName: appName,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		RetryAttempts:   cfg.ConnectRetries,
		RetryInterval:   cfg.RetryInterval,
	}, logger)
}

func initRabbitMQ(cfg *config.RabbitMQConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	return rabbitmq.NewClient(&rabbitmq.Config{
		Host:              cfg.Host,
		Port:              cfg.Port,
		User:              cfg.User,
		Password:          cfg.Password,
		VHost:             cfg.VHost,
		ExchangeName:      cfg.Exchange.Name,
		ExchangeType:      cfg.Exchange.Type,
		QueueName:         cfg.Queue,
		RoutingKey:        cfg.RoutingKey,
		DeadLetterQueue:   cfg.DeadLetterQueue,
		RetryAttempts:     cfg.Connection.RetryAttempts,
		RetryInterval:     cfg.Connection.RetryInterval,
		Heartbeat:         cfg.Connection.Heartbeat,
		ConnectionTimeout: cfg.Connection.ConnectionTimeout,
	}, logger)
}

func initObjectStore(cfg *config.Config, logger *slog.Logger) (*objectstore.Store, error) {
	return objectstore.New(&objectstore.Config{
		Root:           cfg.Storage.Root,
		BaseURL:        cfg.Server.PublicURL,
		SigningKey:     cfg.Storage.SigningKey,
		PublicBuckets:  []string{domain.ImageBucket},
		PrivateBuckets: []string{intake.ResumeBucket},
	}, logger)
}

// bootstrapAdmin creates the configured admin account on first start
func bootstrapAdmin(cfg *config.Config, store *storage.Storage, logger *slog.Logger) error {
	if cfg.Auth.AdminEmail == "" {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Auth.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := store.EnsureAdmin(ctx, &model.Admin{
		ID:           uuid.NewString(),
		Email:        intake.NormalizeEmail(cfg.Auth.AdminEmail),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if created {
		logger.Info("Admin account created", slog.String("email", cfg.Auth.AdminEmail))
	}
	return nil
}

// initRouter initializes the Gin router with all routes and middleware
func initRouter(cfg *config.Config, deps *handler.Dependencies) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	return router.SetupRouter(deps, cfg.Server.MaxUploadBytes)
}
