// Package main - точка входа для API-сервера DeutschFlow Hub.
//
// Сервер обслуживает мини-приложение для изучения немецкого: сессии
// уроков с дневными и недельными квотами, VIP и рефералы, каталог
// контента и AI-ассистент на DeepSeek с детерминированным фолбэком.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: реализация репозиториев, внешние API, планировщик
// - Interface: HTTP endpoints
package main

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

	"github.com/joho/godotenv"

	// Application layer
	"github.com/deutschflow/deutschflow-hub/internal/application/command"
	"github.com/deutschflow/deutschflow-hub/internal/application/query"

	// Infrastructure layer
	"github.com/deutschflow/deutschflow-hub/internal/infrastructure/external/deepseek"
	"github.com/deutschflow/deutschflow-hub/internal/infrastructure/messaging"
	"github.com/deutschflow/deutschflow-hub/internal/infrastructure/persistence/postgres"
	"github.com/deutschflow/deutschflow-hub/internal/infrastructure/persistence/redis"
	"github.com/deutschflow/deutschflow-hub/internal/infrastructure/scheduler"
	"github.com/deutschflow/deutschflow-hub/internal/infrastructure/scheduler/jobs"

	// Interface layer
	httpserver "github.com/deutschflow/deutschflow-hub/internal/interface/http"

	// Packages
	"github.com/deutschflow/deutschflow-hub/config"
	"github.com/deutschflow/deutschflow-hub/internal/domain/catalog"
	"github.com/deutschflow/deutschflow-hub/internal/domain/learner"
	"github.com/deutschflow/deutschflow-hub/pkg/logger"
	"github.com/deutschflow/deutschflow-hub/pkg/timeutil"
)

func main() {
	// .env для локальной разработки; в проде переменные приходят из окружения.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting DeutschFlow Hub",
		"env", cfg.App.Environment,
		"debug", cfg.App.Debug,
		"version", cfg.App.Version,
	)

	// Квоты откатываются в берлинскую полночь: pkg/timeutil держит зону.
	log.Info("using Berlin timezone for quota rollovers", "configured", cfg.App.Timezone)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		log.Warn("failed to get migration status", "error", err)
	} else {
		appliedCount := 0
		for _, m := range status {
			if m.IsApplied {
				appliedCount++
			}
		}
		log.Info("migrations completed", "applied", appliedCount, "total", len(status))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ (+ Redis-кеш, опционально)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	learnerRepoPg := postgres.NewLearnerRepository(dbConn)
	userRepo := postgres.NewUserRepository(dbConn)

	var learnerRepo learner.Repository = learnerRepoPg
	var redisCache *redis.Cache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, snapshot caching disabled", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			sessionCache := redis.NewSessionCache(redisCache)
			learnerRepo = redis.NewCachedLearnerRepository(learnerRepoPg, sessionCache, log)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBusConfig := messaging.DefaultInMemoryEventBusConfig()
	eventBusConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	if err := eventBus.SubscribeAll(messaging.NewAuditLogHandler(log)); err != nil {
		return fmt.Errorf("failed to subscribe audit handler: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ ВНЕШНИХ КЛИЕНТОВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing DeepSeek client...")
	deepseekConfig := deepseek.DefaultConfig()
	deepseekConfig.BaseURL = cfg.DeepSeek.BaseURL
	deepseekConfig.APIKey = cfg.DeepSeek.APIKey
	deepseekConfig.Model = cfg.DeepSeek.Model
	deepseekConfig.Timeout = cfg.DeepSeek.RequestTimeout
	deepseekConfig.Temperature = cfg.DeepSeek.Temperature
	deepseekConfig.MaxTokens = cfg.DeepSeek.MaxTokens
	deepseekConfig.Logger = log
	assistant := deepseek.NewClient(deepseekConfig)

	if cfg.DeepSeek.APIKey == "" {
		log.Warn("DEEPSEEK_API_KEY is empty, assistant runs in fallback-only mode")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	ads := cfg.Features
	sessions := command.NewSessions(learnerRepo, command.NewLearnerLocks())
	library := catalog.NewLibrary()
	random := catalog.NewRandomizer(time.Now().UnixNano())

	startLessonCmd := command.NewStartLessonHandler(sessions, random, ads, eventBus)
	setFocusCmd := command.NewSetFocusHandler(sessions, ads)
	invokeActionCmd := command.NewInvokeActionHandler(sessions, ads, eventBus)
	upsertUserCmd := command.NewUpsertUserHandler(userRepo)
	askAICmd := command.NewAskAIHandler(assistant)
	resetLimitsCmd := command.NewResetLimitsHandler(sessions, ads, eventBus)
	toggleAdsCmd := command.NewToggleAdsGlobalHandler(ads, eventBus)
	manageContentCmd := command.NewManageContentHandler(library)

	summaryQuery := query.NewGetSummaryHandler(sessions, ads)
	limitsQuery := query.NewGetLimitsHandler(sessions)
	referralQuery := query.NewGetReferralStatusHandler(sessions)
	profileQuery := query.NewGetProfileHandler(userRepo)
	adminSummaryQuery := query.NewGetAdminSummaryHandler(learnerRepo, userRepo, ads)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ЗАПУСК ПЛАНИРОВЩИКА (откаты квот)
	// ─────────────────────────────────────────────────────────────────────────
	var quotaScheduler *scheduler.Scheduler

	if cfg.Scheduler.Enabled {
		log.Info("initializing scheduler...")
		quotaScheduler = scheduler.NewScheduler(scheduler.SchedulerConfig{
			Logger:         log,
			Timezone:       timeutil.BerlinTZ,
			MaxHistorySize: cfg.Scheduler.MaxHistorySize,
			EnableMetrics:  true,
		})

		dailyJob := jobs.NewDailyRolloverJob(learnerRepo, eventBus, log, cfg.Scheduler.JobTimeout)
		if err := quotaScheduler.Register(dailyJob, scheduler.MustParseCronExpression(jobs.DailyRolloverSchedule)); err != nil {
			return fmt.Errorf("failed to register daily rollover: %w", err)
		}

		weeklyJob := jobs.NewWeeklyRolloverJob(learnerRepo, eventBus, log, cfg.Scheduler.JobTimeout)
		if err := quotaScheduler.Register(weeklyJob, scheduler.MustParseCronExpression(jobs.WeeklyRolloverSchedule)); err != nil {
			return fmt.Errorf("failed to register weekly rollover: %w", err)
		}

		if err := quotaScheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		log.Info("scheduler started",
			"daily_cron", jobs.DailyRolloverSchedule,
			"weekly_cron", jobs.WeeklyRolloverSchedule,
		)
	} else {
		log.Warn("scheduler disabled, quota rollovers will not run")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpConfig.DefaultTelegramID = cfg.HTTP.DefaultTelegramID
	httpConfig.AdminKeyHeader = cfg.Admin.KeyHeader
	httpConfig.AdminKeyHash = cfg.Admin.KeyHash

	if cfg.Admin.KeyHash == "" {
		log.Warn("ADMIN_KEY_HASH is empty, admin surface is disabled")
	}

	httpDeps := httpserver.Dependencies{
		Summary:      summaryQuery,
		Limits:       limitsQuery,
		Referral:     referralQuery,
		Profile:      profileQuery,
		AdminSummary: adminSummaryQuery,

		StartLesson:     startLessonCmd,
		SetFocus:        setFocusCmd,
		InvokeAction:    invokeActionCmd,
		UpsertUser:      upsertUserCmd,
		AskAI:           askAICmd,
		ResetLimits:     resetLimitsCmd,
		ToggleAdsGlobal: toggleAdsCmd,
		ManageContent:   manageContentCmd,

		Library: library,
		Random:  random,
		Logger:  setupHTTPLogger(cfg),
		Health:  &healthChecker{db: dbConn, cache: redisCache},
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 11. ЗАПУСК СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 12. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("DeutschFlow Hub is running", "http_address", httpServer.Address())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error

	// 1. Останавливаем планировщик (новые джобы не стартуют)
	if quotaScheduler != nil {
		log.Info("stopping scheduler...")
		if err := quotaScheduler.Stop(); err != nil {
			log.Error("failed to stop scheduler gracefully", "error", err)
			shutdownErr = err
		}
	}

	// 2. Останавливаем HTTP сервер
	log.Info("stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		shutdownErr = err
	}

	// 3. Event bus и база данных закроются через defer

	if shutdownErr != nil {
		log.Warn("shutdown completed with errors")
	} else {
		log.Info("shutdown completed successfully")
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	if cfg.IsProduction() || cfg.Observability.LogFormat == "json" {
		// JSON формат для production (лучше для агрегаторов логов)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Текстовый формат для development (лучше читается)
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// setupHTTPLogger строит логгер HTTP-слоя с тем же уровнем, что задан
// в конфигурации. Debug-режим приложения понижает порог до DEBUG.
func setupHTTPLogger(cfg *config.Config) *logger.Logger {
	level := logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		level = logger.LevelDebug
	}
	return logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     level,
		AddCaller: false,
	})
}

// healthChecker реализует проверку готовности для HTTP-проб.
type healthChecker struct {
	db    *postgres.Connection
	cache *redis.Cache
}

// Check пингует базу и Redis. Redis необязателен: его отказ помечается
// в деталях, но не роняет готовность сервиса.
func (h *healthChecker) Check(ctx context.Context) httpserver.HealthStatus {
	status := httpserver.HealthStatus{
		Healthy: true,
		Ready:   true,
		Checks:  make(map[string]string),
	}

	if err := h.db.Ping(ctx); err != nil {
		status.Healthy = false
		status.Ready = false
		status.Message = "database unreachable"
		status.Checks["postgres"] = err.Error()
	} else {
		status.Checks["postgres"] = "ok"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			status.Checks["redis"] = err.Error()
		} else {
			status.Checks["redis"] = "ok"
		}
	}

	return status
}
