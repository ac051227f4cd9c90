// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики
// и собирает HTTP-роутер.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/coin-mine/internal/api"
	"serotonyl.ru/coin-mine/internal/auth"
	"serotonyl.ru/coin-mine/internal/config"
	"serotonyl.ru/coin-mine/internal/db/postgres"
	"serotonyl.ru/coin-mine/internal/features/accounts"
	"serotonyl.ru/coin-mine/internal/features/admin"
	"serotonyl.ru/coin-mine/internal/features/anomaly"
	"serotonyl.ru/coin-mine/internal/features/audit"
	"serotonyl.ru/coin-mine/internal/features/rewards"
	"serotonyl.ru/coin-mine/internal/gate"
	"serotonyl.ru/coin-mine/internal/jobs"
	"serotonyl.ru/coin-mine/internal/notify"
)

// App содержит все компоненты приложения.
type App struct {
	Router    chi.Router
	Scheduler *jobs.Scheduler
	Checks    *anomaly.Worker
	Limiter   *api.RateLimiter
	DB        *pgxpool.Pool
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Внешние каналы ===
	verifier := gate.NewClient(cfg)
	notifier, err := notify.NewTelegram(cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания нотификатора: %w", err)
	}
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	// === 3. Репозитории ===
	auditRepo := audit.NewRepository(pool)
	accountRepo := accounts.NewRepository(pool, auditRepo)
	rewardRepo := rewards.NewRepository(pool, auditRepo)

	// === 4. Детектор аномалий ===
	detector := anomaly.NewDetector(pool, auditRepo, cfg, notifier)
	checks := anomaly.NewWorker(detector, cfg.AnomalyWorkers, cfg.AnomalyQueueSize)

	// === 5. Сервисы ===
	accountService := accounts.NewService(accountRepo, auditRepo, verifier)
	rewardService := rewards.NewService(rewardRepo, checks, cfg)
	adminService := admin.NewService(accountRepo, cfg)

	// === 6. Обработчики ===
	accountHandler := accounts.NewHandler(accountService, tokens, cfg)
	rewardHandler := rewards.NewHandler(rewardService)
	adminHandler := admin.NewHandler(adminService)

	// === 7. Роутер ===
	limiter := api.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	router := newRouter(cfg, tokens, limiter, pool, accountHandler, rewardHandler, adminHandler)

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(accountRepo, detector)

	return &App{
		Router:    router,
		Scheduler: scheduler,
		Checks:    checks,
		Limiter:   limiter,
		DB:        pool,
	}, nil
}

// newRouter собирает HTTP-роутер с middleware и маршрутами.
func newRouter(
	cfg *config.Config,
	tokens *auth.Manager,
	limiter *api.RateLimiter,
	pool *pgxpool.Pool,
	accountHandler *accounts.Handler,
	rewardHandler *rewards.Handler,
	adminHandler *admin.Handler,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(api.LogRequests)
	r.Use(limiter.Middleware)

	// Публичные маршруты
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := pool.Ping(req.Context()); err != nil {
			log.WithError(err).Error("Healthcheck: БД недоступна")
			api.WriteError(w, http.StatusServiceUnavailable, "db_unavailable", "база данных недоступна")
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/auth", accountHandler.Auth)
	r.Get("/leaderboard", accountHandler.Leaderboard)

	// Маршруты с сессией
	r.Group(func(r chi.Router) {
		r.Use(api.RequireSession(tokens))
		r.Get("/me", accountHandler.Me)
		r.Post("/claim", rewardHandler.Claim)
		r.Post("/ads/view", rewardHandler.ViewAd)
		r.Post("/ads/skip", rewardHandler.SkipAd)
	})

	// Админ-маршруты (пароль в заголовке, без сессии)
	r.Post("/admin/block", adminHandler.Block)

	return r
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Accounts},
		{2, migration002AuditLog},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Accounts = `
CREATE TABLE IF NOT EXISTS accounts (
    id BIGSERIAL PRIMARY KEY,
    display_name VARCHAR(255) UNIQUE NOT NULL,
    avatar_url TEXT,
    gender VARCHAR(32) DEFAULT 'unspecified',
    balance BIGINT DEFAULT 0,
    total_awarded BIGINT DEFAULT 0,
    last_claim_at TIMESTAMP,
    ad_window_start TIMESTAMP,
    ad_view_count INTEGER DEFAULT 0,
    ad_skip_count INTEGER DEFAULT 0,
    status VARCHAR(32) NOT NULL DEFAULT 'active',
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_accounts_display_name ON accounts(display_name);
CREATE INDEX IF NOT EXISTS idx_accounts_balance ON accounts(balance DESC);
CREATE INDEX IF NOT EXISTS idx_accounts_status ON accounts(status);
`

var migration002AuditLog = `
CREATE TABLE IF NOT EXISTS audit_log (
    id BIGSERIAL PRIMARY KEY,
    account_id BIGINT NOT NULL REFERENCES accounts(id),
    action VARCHAR(50) NOT NULL,
    detail TEXT,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_audit_log_account_id ON audit_log(account_id);
CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log(created_at DESC);
`
