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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/wasteledger/internal/adapter/http"
	"github.com/iho/wasteledger/internal/adapter/http/handler"
	apimiddleware "github.com/iho/wasteledger/internal/adapter/http/middleware"
	"github.com/iho/wasteledger/internal/adapter/queue"
	"github.com/iho/wasteledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/wasteledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/wasteledger/internal/adapter/repository/redis"
	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/infrastructure/auth"
	"github.com/iho/wasteledger/internal/infrastructure/commandworker"
	"github.com/iho/wasteledger/internal/infrastructure/config"
	"github.com/iho/wasteledger/internal/infrastructure/logger"
	"github.com/iho/wasteledger/internal/infrastructure/metrics"
	"github.com/iho/wasteledger/internal/infrastructure/postgres"
	"github.com/iho/wasteledger/internal/infrastructure/redis"
	"github.com/iho/wasteledger/internal/infrastructure/retry"
	"github.com/iho/wasteledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

// storage is the set of repositories backing the use cases.
type storage struct {
	balances       usecase.BalanceRepository
	records        usecase.WasteRecordRepository
	notes          usecase.NoteRepository
	summaryLogs    usecase.SummaryLogRepository
	accreditations usecase.AccreditationRepository
	checks         map[string]handler.Checker
	close          func()
}

// openStorage connects the configured storage backend. The postgres
// backend applies pending migrations first when enabled.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.StorageBackend == config.StorageBackendMemory {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return &storage{
			balances:       memory.NewBalanceRepository(),
			records:        memory.NewWasteRecordRepository(),
			notes:          memory.NewNoteRepository(),
			summaryLogs:    memory.NewSummaryLogRepository(),
			accreditations: memory.NewAccreditationRepository(),
			checks:         map[string]handler.Checker{},
			close:          func() {},
		}, nil
	}

	if cfg.MigrateOnStart {
		if err := migrate(cfg, log); err != nil {
			return nil, err
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	return &storage{
		balances:       postgresRepo.NewBalanceRepository(pool),
		records:        postgresRepo.NewWasteRecordRepository(pool),
		notes:          postgresRepo.NewNoteRepository(pool),
		summaryLogs:    postgresRepo.NewSummaryLogRepository(pool),
		accreditations: postgresRepo.NewAccreditationRepository(pool),
		checks:         map[string]handler.Checker{"postgres": pool.Ping},
		close:          pool.Close,
	}, nil
}

func migrate(cfg *config.Config, log zerolog.Logger) error {
	migrator, err := postgres.NewMigrator(cfg.MigrationsPath, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer migrator.Close()

	changed, err := migrator.Up()
	if err != nil {
		return err
	}

	log.Info().Bool("changed", changed).Msg("database migrations applied")
	return nil
}

// application is everything run needs once storage and redis are up.
type application struct {
	router  http.Handler
	queue   *queue.RedisQueue
	worker  *commandworker.Worker
	limiter *apimiddleware.RateLimiter
}

func newApplication(cfg *config.Config, store *storage, client *goredis.Client, m *metrics.Metrics, log zerolog.Logger) *application {
	idGen := postgresRepo.NewULIDGenerator()
	classifier := domain.TableClassifier{}

	accreditations := redisRepo.NewCachedAccreditationRepository(
		store.accreditations, redisRepo.NewCache(client), cfg.AccreditationCacheTTL, log)

	ledger := usecase.NewWasteBalanceUseCase(store.balances, accreditations, classifier,
		retry.NewRetrier(cfg.LedgerMaxRetries, log), idGen, m, log)
	notes := usecase.NewNoteUseCase(store.notes, accreditations, ledger, idGen, m, log)
	submissions := usecase.NewSubmissionUseCase(store.summaryLogs, store.records, ledger, classifier, idGen, m, log)

	commands := queue.NewRedisQueue(client, cfg.CommandQueueName)
	limiter := apimiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	checks := map[string]handler.Checker{
		"redis": func(ctx context.Context) error { return redis.Ping(ctx, client) },
	}
	for name, check := range store.checks {
		checks[name] = check
	}

	routerCfg := httpAdapter.RouterConfig{
		BalanceHandler:    handler.NewBalanceHandler(ledger),
		NoteHandler:       handler.NewNoteHandler(notes),
		SummaryLogHandler: handler.NewSummaryLogHandler(submissions, commands),
		HealthHandler:     handler.NewHealthHandler(checks),
		IdempotencyStore:  redisRepo.NewIdempotencyStore(client),
		IdempotencyTTL:    cfg.IdempotencyTTL,
		RateLimiter:       limiter,
		Metrics:           m,
		MetricsHandler:    promhttp.Handler(),
		Logger:            log,
	}
	if cfg.AuthEnabled {
		routerCfg.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTokenDuration)
	}

	return &application{
		router: httpAdapter.NewRouter(routerCfg),
		queue:  commands,
		worker: commandworker.New(commandworker.Config{
			Queue:        commands,
			Handler:      submissions,
			Logger:       log.With().Str("component", "command_worker").Logger(),
			Metrics:      m,
			MaxAttempts:  cfg.CommandMaxAttempts,
			PollInterval: cfg.CommandPollInterval,
		}),
		limiter: limiter,
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer client.Close()
	log.Info().Msg("connected to redis")

	app := newApplication(cfg, store, client, metrics.New(), log)

	recovered, err := app.queue.RecoverInFlight(ctx)
	if err != nil {
		return fmt.Errorf("recover in-flight commands: %w", err)
	}
	if recovered > 0 {
		log.Warn().Int("commands", recovered).Msg("requeued commands left in flight by a previous run")
	}

	workerDone := make(chan struct{})
	if cfg.CommandWorkerEnabled {
		go func() {
			defer close(workerDone)
			_ = app.worker.Start(ctx)
		}()
	} else {
		close(workerDone)
	}

	go app.limiter.Run(ctx, 10*time.Minute)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      app.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("command worker did not stop before the shutdown timeout")
	}

	return nil
}
