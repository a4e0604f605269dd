package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gitlab.com/readerload.net/internal/adapter/console"
	"gitlab.com/readerload.net/internal/adapter/logging"
	"gitlab.com/readerload.net/internal/adapter/postgres/exchangerepository"
	"gitlab.com/readerload.net/internal/adapter/redis/exchangeport"
	"gitlab.com/readerload.net/internal/config"
	"gitlab.com/readerload.net/internal/core/ports/secondary"
	"gitlab.com/readerload.net/internal/core/services/reader"
	"gitlab.com/readerload.net/internal/domain"
	logger2 "gitlab.com/readerload.net/internal/global/logger"
	http2 "gitlab.com/readerload.net/internal/http"
	"gitlab.com/readerload.net/internal/readerengine"
	"gitlab.com/readerload.net/internal/tcp/connectionmanager"
	"gitlab.com/readerload.net/internal/tcp/defs"
)

const (
	exitOK    = 0
	exitError = 1
)

func main() {
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-quit
		logger2.Info("Caught signal, terminating reader clients...", "signal", sig.String())
		cancel()
	}()

	os.Exit(run(ctx, cancel, os.Args, os.Stdout, os.Stderr))
}

// run wires the reader clients and blocks until ctx is cancelled
func run(ctx context.Context, cancel context.CancelFunc, args []string, stdout, stderr io.Writer) int {
	program := filepath.Base(args[0])
	launchArgs, err := config.ParseArgs(args[1:])
	if err != nil {
		fmt.Fprintf(stderr, "Usage: %s <IP> <PORT> <NUM_READERS>\n", program)
		return exitError
	}

	if envFile, err := config.LoadEnvFile(); err != nil {
		fmt.Fprintf(stderr, "Error loading %s: %v\n", envFile, err)
		return exitError
	}

	sysCfg := config.NewSystemConfig()
	logger := logging.NewZapLoggerWithLevel(sysCfg.DebugMode)
	logger2.Replace(logger)
	defer logger.Sync()

	recorder, closeRecorder, err := setupRecorder(ctx, sysCfg, logger)
	if err != nil {
		logger.Error("Failed to set up exchange recorder", "kind", sysCfg.RecorderConfig.Kind, "error", err)
		return exitError
	}
	defer closeRecorder()

	connMgr := connectionmanager.NewConnectionManager(logger)
	readerSvc := reader.NewReaderService(sysCfg.ReaderCfg, connMgr, recorder, console.NewPrinter(stdout), logger)
	engine := readerengine.NewReaderEngine(readerSvc, connMgr, logger)

	var adminServer *http2.Server
	if sysCfg.AdminConfig.Enabled() {
		adminServer = http2.NewServer(sysCfg.AdminConfig.Port, "reader", sysCfg.AdminConfig.JwtSecret, engine, cancel, logger)
		if err := adminServer.Init(); err != nil {
			logger.Error("Failed to init control server", "error", err)
			return exitError
		}
		if err := adminServer.Start(ctx); err != nil {
			logger.Error("Failed to start control server", "error", err)
			return exitError
		}
	}

	descs := domain.NewReaderDescriptors(launchArgs.ServerIP, launchArgs.Port, launchArgs.NumReaders)
	logger.Info("Starting reader clients",
		"server", descs[0].Addr(),
		"readers", launchArgs.NumReaders,
		"responseMode", sysCfg.ReaderCfg.ResponseMode,
		"recorder", sysCfg.RecorderConfig.Kind,
	)

	if err := engine.Run(ctx, descs); err != nil {
		logger.Error("Failed to run reader clients", "error", err)
		return exitError
	}

	if adminServer != nil {
		stopCtx, stop := context.WithTimeout(context.Background(), defs.ShutdownGrace)
		adminServer.Stop(stopCtx)
		stop()
	}

	logger.Info("Reader clients terminated", "runID", engine.RunID())
	return exitOK
}

// setupRecorder builds the configured exchange recorder. The returned
// close func is always safe to call.
func setupRecorder(ctx context.Context, sysCfg *config.AppConfig, logger *logging.ZapLogger) (secondary.ExchangeRecorder, func(), error) {
	switch sysCfg.RecorderConfig.Kind {
	case config.RecorderRedis:
		redisClient := setupRedis(sysCfg.RedisConfig)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			redisClient.Close()
			return nil, func() {}, err
		}
		return exchangeport.NewExchangeRepository(redisClient, logger), func() { redisClient.Close() }, nil

	case config.RecorderPostgres:
		db, err := setupDatabase(sysCfg.PostgresConfig)
		if err != nil {
			return nil, func() {}, err
		}
		repo := exchangerepository.NewExchangeRepository(db, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, func() {}, err
		}
		return repo, func() { db.Close() }, nil

	default:
		return nil, func() {}, nil
	}
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// setupRedis sets up the Redis connection
func setupRedis(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
