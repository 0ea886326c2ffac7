package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/agrotalent/talent-hub/internal/config"
	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/agrotalent/talent-hub/internal/worker"
	workerstorage "github.com/agrotalent/talent-hub/internal/worker/storage"
	"github.com/agrotalent/talent-hub/shared/logger"
	"github.com/agrotalent/talent-hub/shared/mailer"
	"github.com/agrotalent/talent-hub/shared/objectstore"
	"github.com/agrotalent/talent-hub/shared/postgresql"
	"github.com/agrotalent/talent-hub/shared/rabbitmq"
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

	defaultConfigPath := os.Getenv("WORKER_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/worker-service.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateWorkerConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	appLogger.Info("Starting worker service",
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

	rabbitClient, err := initRabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
	}
	defer rabbitClient.Close()

	appLogger.Info("RabbitMQ connection established")

	smtp, err := mailer.New(&mailer.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		FromName: cfg.Mail.FromName,
		TLS:      cfg.Mail.TLS,
		Timeout:  cfg.Mail.Timeout,
	}, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	// the worker only signs links; the API serves the files
	objects, err := objectstore.New(&objectstore.Config{
		Root:           cfg.Storage.Root,
		BaseURL:        cfg.Server.PublicURL,
		SigningKey:     cfg.Storage.SigningKey,
		PrivateBuckets: []string{intake.ResumeBucket},
	}, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Worker.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid worker time_zone: %w", err)
	}

	renderer, err := worker.NewRenderer(worker.RendererConfig{
		Signer:              objects,
		ResumeBucket:        intake.ResumeBucket,
		ResumeLinkTTL:       cfg.Worker.ResumeLinkTTL,
		WhatsAppCountryCode: cfg.Intake.WhatsAppCountryCode,
		Location:            loc,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize templates: %w", err)
	}

	workerInstance := worker.NewWorker(&worker.Config{
		Logger:        appLogger.Logger,
		Source:        rabbitClient,
		Store:         workerstorage.NewStorage(dbClient.GetDB(), appLogger.Logger),
		Renderer:      renderer,
		Mailer:        smtp,
		Concurrency:   cfg.Worker.Concurrency,
		PrefetchCount: cfg.RabbitMQ.Consumer.PrefetchCount,
		ConsumerTag:   cfg.RabbitMQ.Consumer.Tag,
		JobTimeout:    cfg.Worker.JobTimeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- workerInstance.Start(ctx)
	}()

	appLogger.Info("Worker service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Received signal, shutting down gracefully",
			slog.String("signal", sig.String()),
		)
	case err := <-errChan:
		if err != nil && !errors.Is(err, worker.ErrDeliveriesClosed) {
			appLogger.Error("Worker error", slog.Any("error", err))
			return err
		}
		if err != nil {
			return fmt.Errorf("broker connection lost: %w", err)
		}
		return nil
	case amqpErr := <-rabbitClient.NotifyClose():
		appLogger.Error("RabbitMQ channel closed", slog.Any("error", amqpErr))
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		workerInstance.Stop()
		close(done)
	}()

	select {
	case <-done:
		appLogger.Info("Worker stopped gracefully")
	case <-shutdownCtx.Done():
		appLogger.Warn("Worker shutdown timeout exceeded, forcing exit")
	}

	appLogger.Info("Worker service shutdown complete")
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
