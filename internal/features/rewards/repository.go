// Package rewards — repository.go выполняет операции леджера наград.
// Каждая операция — одна транзакция БД с блокировкой строки аккаунта
// (SELECT ... FOR UPDATE): проверка условий, изменение счётчиков и запись
// журнала фиксируются как единое целое. Два одновременных клейма одного
// аккаунта сериализуются на блокировке — начисление пройдёт ровно одно.
package rewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/coin-mine/internal/common"
	"serotonyl.ru/coin-mine/internal/features/accounts"
	"serotonyl.ru/coin-mine/internal/features/audit"
)

// Repository выполняет транзакции леджера.
type Repository struct {
	db    *pgxpool.Pool
	audit *audit.Repository
}

// NewRepository создаёт репозиторий леджера.
func NewRepository(db *pgxpool.Pool, auditRepo *audit.Repository) *Repository {
	return &Repository{db: db, audit: auditRepo}
}

// lockAccount читает строку аккаунта под блокировкой FOR UPDATE.
func lockAccount(ctx context.Context, tx pgx.Tx, accountID int64) (*accounts.Account, error) {
	var a accounts.Account
	err := tx.QueryRow(ctx, `
		SELECT id, status, balance, total_awarded, last_claim_at,
		       ad_window_start, ad_view_count, ad_skip_count
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`, accountID).Scan(
		&a.ID, &a.Status, &a.Balance, &a.TotalAwarded, &a.LastClaimAt,
		&a.AdWindowStart, &a.AdViewCount, &a.AdSkipCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrAccountNotFound
		}
		return nil, fmt.Errorf("ошибка чтения аккаунта (id=%d): %w", accountID, err)
	}
	return &a, nil
}

// Claim начисляет периодическую награду с кулдауном.
// Возвращает новый баланс. При активном кулдауне — CooldownError
// с оставшимся временем, состояние не меняется.
func (r *Repository) Claim(ctx context.Context, accountID, amount int64, cooldown time.Duration) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	acc, err := lockAccount(ctx, tx, accountID)
	if err != nil {
		return 0, err
	}
	if acc.Blocked() {
		return 0, common.ErrAccountBlocked
	}

	now := time.Now().UTC()
	if remaining := RemainingCooldown(acc.LastClaimAt, now, cooldown); remaining > 0 {
		return 0, &common.CooldownError{Remaining: remaining}
	}

	var balance int64
	err = tx.QueryRow(ctx, `
		UPDATE accounts
		SET balance = balance + $2,
		    total_awarded = total_awarded + $2,
		    last_claim_at = $3,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING balance
	`, accountID, amount, now).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("ошибка начисления клейма: %w", err)
	}

	detail := fmt.Sprintf("начислено %s", common.FormatCoins(amount))
	if err := r.audit.Append(ctx, tx, accountID, audit.ActionClaim, detail); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return balance, nil
}

// ViewAd начисляет награду за просмотр рекламы в пределах квоты окна.
// Перекат окна происходит лениво, внутри этой же транзакции.
// Возвращает новый баланс и счётчик просмотров текущего окна.
func (r *Repository) ViewAd(ctx context.Context, accountID, amount int64, window time.Duration, maxViews int) (int64, int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	acc, err := lockAccount(ctx, tx, accountID)
	if err != nil {
		return 0, 0, err
	}
	if acc.Blocked() {
		return 0, 0, common.ErrAccountBlocked
	}

	now := time.Now().UTC()
	state := Roll(WindowState{Start: acc.AdWindowStart, Views: acc.AdViewCount, Skips: acc.AdSkipCount}, now, window)
	if state.Views >= maxViews {
		// Квота окна исчерпана; откат ничего не потерял —
		// перекат окна с исчерпанной квотой невозможен
		return 0, 0, common.ErrQuotaExceeded
	}

	views := state.Views + 1
	var balance int64
	err = tx.QueryRow(ctx, `
		UPDATE accounts
		SET balance = balance + $2,
		    total_awarded = total_awarded + $2,
		    ad_window_start = $3,
		    ad_view_count = $4,
		    ad_skip_count = $5,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING balance
	`, accountID, amount, state.Start, views, state.Skips).Scan(&balance)
	if err != nil {
		return 0, 0, fmt.Errorf("ошибка начисления за просмотр: %w", err)
	}

	detail := fmt.Sprintf("просмотр рекламы, счётчик %d", views)
	if err := r.audit.Append(ctx, tx, accountID, audit.ActionAdView, detail); err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return balance, views, nil
}

// SkipAd фиксирует пропуск рекламы (без награды) в пределах квоты окна.
// Окно то же самое, что и у просмотров: перекат обнуляет оба счётчика.
// Возвращает счётчик пропусков текущего окна.
func (r *Repository) SkipAd(ctx context.Context, accountID int64, window time.Duration, maxSkips int) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	acc, err := lockAccount(ctx, tx, accountID)
	if err != nil {
		return 0, err
	}
	if acc.Blocked() {
		return 0, common.ErrAccountBlocked
	}

	now := time.Now().UTC()
	state := Roll(WindowState{Start: acc.AdWindowStart, Views: acc.AdViewCount, Skips: acc.AdSkipCount}, now, window)
	if state.Skips >= maxSkips {
		return 0, common.ErrQuotaExceeded
	}

	skips := state.Skips + 1
	if _, err := tx.Exec(ctx, `
		UPDATE accounts
		SET ad_window_start = $2,
		    ad_view_count = $3,
		    ad_skip_count = $4,
		    updated_at = NOW()
		WHERE id = $1
	`, accountID, state.Start, state.Views, skips); err != nil {
		return 0, fmt.Errorf("ошибка записи пропуска: %w", err)
	}

	detail := fmt.Sprintf("пропуск рекламы, счётчик %d", skips)
	if err := r.audit.Append(ctx, tx, accountID, audit.ActionAdSkip, detail); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return skips, nil
}
