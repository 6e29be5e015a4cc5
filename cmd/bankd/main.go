// Command bankd runs the bank transfer service: the HTTP command surface, the
// event dispatcher with the saga coordinator, and the projections, all in one
// process.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/AlexanderZavoykin/event-sourcing-bank/config"
	"github.com/AlexanderZavoykin/event-sourcing-bank/dispatcher"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog/memoryengine"
	"github.com/AlexanderZavoykin/event-sourcing-bank/eventlog/postgresengine"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/concludetransfer"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/deposit"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/initiatetransfer"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/openaccount"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/openbankaccount"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/performtransferdeposit"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/performtransferwithdraw"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/rollbacktransferwithdraw"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/transferinternal"
	"github.com/AlexanderZavoykin/event-sourcing-bank/features/command/withdraw"
	"github.com/AlexanderZavoykin/event-sourcing-bank/httpapi"
	"github.com/AlexanderZavoykin/event-sourcing-bank/observability/zapadapter"
	"github.com/AlexanderZavoykin/event-sourcing-bank/projection/bankaccountlookup"
	"github.com/AlexanderZavoykin/event-sourcing-bank/projection/transferreadmodel"
	"github.com/AlexanderZavoykin/event-sourcing-bank/saga"
)

// EventLog combines the read and append sides used across the process.
type EventLog interface {
	Load(ctx context.Context, streamType eventlog.StreamTypeString, streamID eventlog.StreamIDString) (
		eventlog.StoredEvents,
		eventlog.VersionUint,
		error,
	)
	Append(
		ctx context.Context,
		streamType eventlog.StreamTypeString,
		streamID eventlog.StreamIDString,
		expectedVersion eventlog.VersionUint,
		events ...eventlog.StorableEvent,
	) error
	ReadSince(
		ctx context.Context,
		streamType eventlog.StreamTypeString,
		afterGlobalSequence eventlog.GlobalSequenceUint64,
		limit int,
	) (eventlog.StoredEvents, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("loading config failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := zapadapter.New(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString("creating logger failed: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("service terminated", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zapadapter.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log, offsets, cleanup, err := buildEventLog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	transfers, bankAccounts, redisCleanup := buildReadModels(cfg, logger)
	defer redisCleanup()

	d := dispatcher.NewDispatcher(log, offsets,
		dispatcher.WithLogger(logger),
		dispatcher.WithPollInterval(cfg.DispatchPollInterval),
		dispatcher.WithBatchSize(cfg.DispatchBatchSize),
	)

	coordinator := saga.NewCoordinator(
		log,
		performtransferwithdraw.NewCommandHandler(log),
		performtransferdeposit.NewCommandHandler(log),
		rollbacktransferwithdraw.NewCommandHandler(log),
		concludetransfer.NewCommandHandler(log),
	)
	coordinator.Register(d)

	transferreadmodel.NewProjector(transfers).Register(d)
	bankaccountlookup.NewProjector(bankAccounts).Register(d)

	server := httpapi.NewServer(
		openaccount.NewCommandHandler(log),
		openbankaccount.NewCommandHandler(log),
		deposit.NewCommandHandler(log),
		withdraw.NewCommandHandler(log),
		transferinternal.NewCommandHandler(log),
		initiatetransfer.NewCommandHandler(log),
		log,
		transfers,
		bankAccounts,
	)

	httpServer := &http.Server{
		Addr:    cfg.HTTPListenAddr,
		Handler: server.Router(),
	}

	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		d.Start(ctx)
	}()

	httpErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPListenAddr)

		if serveErr := httpServer.ListenAndServe(); !errors.Is(serveErr, http.ErrServerClosed) {
			httpErr <- serveErr
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr := <-httpErr:
		stop()
		logger.Error("http server failed", "error", serveErr.Error())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("http server shutdown failed", "error", shutdownErr.Error())
	}

	<-dispatcherDone
	logger.Info("service stopped")

	return nil
}

// buildEventLog selects the Postgres engine when DATABASE_URL is set, the
// in-memory engine otherwise.
func buildEventLog(
	ctx context.Context,
	cfg config.Config,
	logger *zapadapter.Logger,
) (EventLog, dispatcher.OffsetStore, func(), error) {

	if cfg.DatabaseURL == "" {
		logger.Info("using in-memory event log")
		return memoryengine.NewEventLog(), dispatcher.NewMemoryOffsetStore(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := postgresengine.NewEventLogFromPGXPool(pool,
		postgresengine.WithTableName(cfg.EventsTableName),
		postgresengine.WithLogger(logger),
	)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	offsetsDB, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		_ = offsetsDB.Close()
		pool.Close()
	}

	logger.Info("using postgres event log", "table", cfg.EventsTableName)

	return log, dispatcher.NewPostgresOffsetStore(offsetsDB), cleanup, nil
}

// buildReadModels selects Redis-backed stores when REDIS_ADDR is set, the
// in-memory ones otherwise.
func buildReadModels(
	cfg config.Config,
	logger *zapadapter.Logger,
) (transferreadmodel.Store, bankaccountlookup.Cache, func()) {

	if cfg.RedisAddr == "" {
		logger.Info("using in-memory read models")
		return transferreadmodel.NewMemoryStore(), bankaccountlookup.NewMemoryCache(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	logger.Info("using redis read models", "addr", cfg.RedisAddr)

	return transferreadmodel.NewRedisStore(client), bankaccountlookup.NewRedisCache(client), func() { _ = client.Close() }
}
