// Package accounts управляет аккаунтами: создание по верифицированной
// личности, профиль, таблица лидеров, блокировка.
// models.go описывает структуру аккаунта и его статусы.
package accounts

import "time"

// Status — состояние аккаунта.
type Status string

const (
	// StatusActive — обычное состояние, все операции доступны
	StatusActive Status = "active"
	// StatusFlagged — помечен детектором аномалий; операции ПОКА доступны
	StatusFlagged Status = "flagged"
	// StatusBlocked — все операции наград запрещены до ручной разблокировки
	StatusBlocked Status = "blocked"
)

// Account представляет аккаунт в базе данных.
// Создаётся ровно один раз на верифицированную личность и никогда не удаляется.
type Account struct {
	ID          int64   `db:"id"`
	DisplayName string  `db:"display_name"` // Ключ личности от identity gate, уникален и неизменяем
	AvatarURL   *string `db:"avatar_url"`
	Gender      string  `db:"gender"`

	Balance int64 `db:"balance"`
	// TotalAwarded — сумма ВСЕХ начислений леджера. Ведётся отдельно от
	// баланса именно для того, чтобы детектор сверял «начислено» с
	// «оправдано журналом», даже если когда-нибудь появятся траты.
	TotalAwarded int64 `db:"total_awarded"`

	LastClaimAt   *time.Time `db:"last_claim_at"`   // nil — ещё ни разу не было клейма
	AdWindowStart *time.Time `db:"ad_window_start"` // nil — окно рекламы не открыто
	AdViewCount   int        `db:"ad_view_count"`
	AdSkipCount   int        `db:"ad_skip_count"`

	Status    Status    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Blocked сообщает, запрещены ли аккаунту операции наград.
func (a *Account) Blocked() bool {
	return a.Status == StatusBlocked
}

// Flagged сообщает, помечен ли аккаунт детектором.
func (a *Account) Flagged() bool {
	return a.Status == StatusFlagged
}

// LeaderboardRow — строка таблицы лидеров (проекция для чтения).
type LeaderboardRow struct {
	DisplayName string  `json:"display_name"`
	Balance     int64   `json:"balance"`
	AvatarURL   *string `json:"avatar_url"`
	Flagged     bool    `json:"flagged"`
}
