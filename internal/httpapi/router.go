package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"agent_academy/internal/billing"
	"agent_academy/internal/catalog"
	"agent_academy/internal/config"
	"agent_academy/internal/logging"
	"agent_academy/internal/middleware"
	"agent_academy/internal/progress"
	"agent_academy/internal/providers"
	"agent_academy/internal/queue"
	"agent_academy/internal/ratelimit"
	"agent_academy/internal/storage"
	"agent_academy/internal/utils"
)

// Dependencies aggregates all services the HTTP layer needs.
type Dependencies struct {
	Catalog     *catalog.Catalog
	Providers   *providers.Registry
	Progress    *progress.Tracker
	RateLimit   ratelimit.Limiter
	Billing     billing.Tracker
	UsageWorker *storage.UsageQueueWorker
	AttemptLog  *logging.AttemptLogger // nil when disabled

	db          *storage.DB
	redisClient *redis.Client
	validate    *validator.Validate
	logger      *utils.Logger
}

// NewRouter creates the HTTP handler with all dependencies wired up.
//
// Redis is optional: with no address configured the usage queue runs
// in-memory and spend tracking and rate limiting degrade to no-ops. Postgres
// is not optional; progress and usage records live there.
func NewRouter(cfg *config.Config) (http.Handler, *Dependencies, error) {
	db, err := storage.NewDB(storage.DBConfig{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
	}

	usageQueueCfg := queue.DefaultConfig("usage")
	usageQueueCfg.BatchSize = cfg.UsageQueue.BatchSize
	usageQueueCfg.BatchTimeout = cfg.UsageQueue.BatchTimeout

	var usageQueue queue.Queue
	if redisClient != nil {
		usageQueue, err = queue.NewRedisQueue(redisClient, usageQueueCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create usage queue: %w", err)
		}
	} else {
		usageQueue = queue.NewMemoryQueue(usageQueueCfg)
	}

	usageWorker := storage.NewUsageQueueWorker(usageQueue, storage.NewUsageRepository(db), usageQueueCfg)

	var rateLimiter ratelimit.Limiter = ratelimit.NewNoopLimiter()
	if redisClient != nil && cfg.RateLimit.RequestsPerMinute > 0 {
		rateLimiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimit.RequestsPerMinute)
	}

	var spendTracker billing.Tracker = billing.NewNoopTracker()
	if redisClient != nil {
		spendTracker = billing.NewRedisTracker(redisClient)
	}

	var attemptLog *logging.AttemptLogger
	if cfg.AttemptLog.FilePathTemplate != "" {
		attemptLog, err = logging.NewAttemptLogger(
			cfg.AttemptLog.FilePathTemplate,
			cfg.AttemptLog.MaxSize,
			cfg.AttemptLog.MaxFiles,
			cfg.AttemptLog.BufferSize,
			cfg.AttemptLog.FlushInterval,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize attempt log: %w", err)
		}
	}

	deps := &Dependencies{
		Catalog:     catalog.Default(),
		Providers:   providers.NewDefaultRegistry(providers.AnthropicConfig(cfg.Anthropic)),
		Progress:    progress.NewTracker(storage.NewProgressRepository(db)),
		RateLimit:   rateLimiter,
		Billing:     spendTracker,
		UsageWorker: usageWorker,
		AttemptLog:  attemptLog,
		db:          db,
		redisClient: redisClient,
		validate:    validator.New(),
		logger:      utils.NewLogger("httpapi"),
	}

	mux := http.NewServeMux()
	deps.registerRoutes(mux)

	identity := middleware.Identity(cfg.JWTSecret)
	corsWrapper := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	return corsWrapper.Handler(identity(mux)), deps, nil
}

func (d *Dependencies) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/health", d.handleHealth)

	mux.HandleFunc("GET /v1/models", d.handleListModels)
	mux.HandleFunc("GET /v1/models/recommend", d.handleRecommend)

	mux.HandleFunc("POST /v1/generate", d.handleGenerate)
	mux.HandleFunc("POST /v1/agents", d.handleAgents)

	mux.HandleFunc("GET /v1/progress", d.handleGetAllProgress)
	mux.HandleFunc("POST /v1/progress", d.handleSaveProgress)
	mux.HandleFunc("GET /v1/progress/completed", d.handleCompletedExercises)
	mux.HandleFunc("GET /v1/progress/{id}", d.handleGetProgress)
	mux.HandleFunc("POST /v1/progress/{id}/attempts", d.handleIncrementAttempts)

	mux.HandleFunc("GET /v1/profile", d.handleGetProfile)
	mux.HandleFunc("GET /v1/usage", d.handleMonthlySpend)
}

// Close releases everything NewRouter started, in reverse dependency order.
// The usage worker stops first so in-flight records still reach the database.
func (d *Dependencies) Close() error {
	var firstErr error

	if err := d.UsageWorker.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}
	if d.AttemptLog != nil {
		d.AttemptLog.Shutdown()
	}
	if err := d.Providers.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if d.redisClient != nil {
		if err := d.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := d.db.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
