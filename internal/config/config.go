// Package config загружает конфигурацию сервиса из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
// Суммы наград, кулдауны и пороги аномалий живут только здесь:
// сервисы получают конфигурацию при создании и тестируются с любыми значениями.
type Config struct {
	// --- HTTP ---
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`
	// Таймаут graceful shutdown HTTP-сервера
	HTTPShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"5s"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"mineuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"coin_mine"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Сессии (JWT) ---
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// --- Identity Gate (внешняя верификация личности) ---
	// Если GATE_URL пуст и GATE_DEMO=true — принимается демо-доказательство.
	GateURL     string        `envconfig:"GATE_URL" default:""`
	GateAPIKey  string        `envconfig:"GATE_API_KEY" default:""`
	GateDemo    bool          `envconfig:"GATE_DEMO" default:"true"`
	GateTimeout time.Duration `envconfig:"GATE_TIMEOUT" default:"8s"`

	// --- Награды ---
	ClaimAmount   int64         `envconfig:"REWARD_CLAIM_AMOUNT" default:"100"`
	ClaimCooldown time.Duration `envconfig:"REWARD_CLAIM_COOLDOWN" default:"12h"`
	AdAmount      int64         `envconfig:"REWARD_AD_AMOUNT" default:"5"`
	AdWindow      time.Duration `envconfig:"REWARD_AD_WINDOW" default:"12h"`
	MaxAdViews    int           `envconfig:"REWARD_MAX_AD_VIEWS" default:"5"`
	MaxAdSkips    int           `envconfig:"REWARD_MAX_AD_SKIPS" default:"2"`

	// --- Детектор аномалий ---
	// Флаг при awarded/expected > порога ИЛИ awarded > expected + слак.
	// Автоблокировка при превышении порога вдвое.
	AnomalyRatioThreshold float64 `envconfig:"ANOMALY_RATIO_THRESHOLD" default:"2.0"`
	AnomalyAbsoluteSlack  int64   `envconfig:"ANOMALY_ABSOLUTE_SLACK" default:"1000"`
	// Сколько фоновых проверок обрабатываем параллельно и какой буфер очереди.
	// Переполненная очередь не блокирует начисление — проверку доберёт часовой обход.
	AnomalyWorkers   int `envconfig:"ANOMALY_WORKERS" default:"4"`
	AnomalyQueueSize int `envconfig:"ANOMALY_QUEUE_SIZE" default:"256"`

	// --- Admin ---
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" required:"true"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"30"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Оповещения (опционально) ---
	// Если токен пуст — оповещения в Telegram отключены.
	AlertBotToken string `envconfig:"ALERT_BOT_TOKEN" default:""`
	AlertChatID   int64  `envconfig:"ALERT_CHAT_ID" default:"0"`

	// --- Leaderboard ---
	LeaderboardDefaultLimit int `envconfig:"LEADERBOARD_DEFAULT_LIMIT" default:"50"`
	LeaderboardMaxLimit     int `envconfig:"LEADERBOARD_MAX_LIMIT" default:"100"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("некорректный HTTP_PORT: %d", c.HTTPPort)
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.ClaimAmount <= 0 || c.AdAmount <= 0 {
		return fmt.Errorf("суммы наград должны быть > 0")
	}
	if c.ClaimCooldown <= 0 || c.AdWindow <= 0 {
		return fmt.Errorf("кулдаун и окно должны быть > 0")
	}
	if c.MaxAdViews <= 0 || c.MaxAdSkips <= 0 {
		return fmt.Errorf("лимиты просмотров/пропусков должны быть > 0")
	}
	if c.AnomalyRatioThreshold <= 1.0 {
		return fmt.Errorf("ANOMALY_RATIO_THRESHOLD должен быть > 1.0")
	}
	if c.AnomalyWorkers <= 0 || c.AnomalyQueueSize <= 0 {
		return fmt.Errorf("некорректные ANOMALY_WORKERS/ANOMALY_QUEUE_SIZE")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("некорректные RATE_LIMIT_REQUESTS/RATE_LIMIT_WINDOW")
	}
	if c.AlertBotToken != "" && c.AlertChatID == 0 {
		return fmt.Errorf("ALERT_CHAT_ID не задан при включённых оповещениях")
	}
	if c.LeaderboardDefaultLimit <= 0 || c.LeaderboardMaxLimit < c.LeaderboardDefaultLimit {
		return fmt.Errorf("некорректные лимиты leaderboard")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
