package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/logger"

	"go.uber.org/zap"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configs, err := cmd.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(configs.AppEnv)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := openDatabase(configs)
	if err != nil {
		return err
	}
	if err := postgres.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var publisher ports.EventPublisher
	if brokers := configs.KafkaBrokers(); len(brokers) > 0 {
		producer := kafka.NewOrderEventProducer(brokers, configs.KafkaOrderChangedTopic)
		defer func() {
			if err := producer.Close(); err != nil {
				log.Warn("Failed to close kafka producer", zap.Error(err))
			}
		}()
		publisher = producer
	} else {
		log.Warn("KAFKA_HOST is not set, order events are not published")
	}

	var locker ports.SweepLocker
	if configs.RedisAddr != "" {
		client, err := redis.NewClient(ctx, configs.RedisAddr, configs.RedisDB)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		locker = redis.NewSweepLock(client, configs.SweepLockKey, 5*time.Minute)
	} else {
		log.Warn("REDIS_ADDR is not set, every replica runs the reservation sweep")
	}

	app := cmd.NewCompositionRoot(configs, gormDB, publisher, locker, log)

	jobManager := app.NewJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, app, configs.HTTPPort, log)
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	gormDB, err := gorm.Open(gorm_postgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return gormDB, nil
}

func startWebServer(ctx context.Context, app cmd.CompositionRoot, port string, log *zap.Logger) error {
	e, err := httpin.NewRouter(app.NewHTTPServer(), log)
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("port", port))
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
