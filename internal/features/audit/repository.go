// Package audit — repository.go выполняет операции с таблицей audit_log.
// Запись всегда идёт через Querier: вызывающий передаёт свою транзакцию,
// чтобы запись журнала зафиксировалась вместе с изменением аккаунта.
package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier — общий интерфейс pgxpool.Pool и pgx.Tx.
// Позволяет писать в журнал как вне, так и внутри транзакции.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository работает с таблицей audit_log.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий журнала.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись журнала через переданный Querier.
// Для событий, меняющих состояние аккаунта, q обязан быть той же
// транзакцией, в которой выполняется изменение.
func (r *Repository) Append(ctx context.Context, q Querier, accountID int64, action Action, detail string) error {
	query := `INSERT INTO audit_log (account_id, action, detail) VALUES ($1, $2, $3)`
	if _, err := q.Exec(ctx, query, accountID, action, detail); err != nil {
		return fmt.Errorf("ошибка записи журнала (%s): %w", action, err)
	}
	return nil
}

// ExpectedTotal считает сумму, которую журнал «оправдывает» для аккаунта:
// каждая запись claim стоит claimAmount, каждая ad_view — adAmount,
// остальные виды действий — ноль. Считается в SQL, а не в памяти:
// журнал растёт неограниченно.
func (r *Repository) ExpectedTotal(ctx context.Context, q Querier, accountID int64, claimAmount, adAmount int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE action
				WHEN 'claim' THEN $2::BIGINT
				WHEN 'ad_view' THEN $3::BIGINT
				ELSE 0
			END
		), 0)
		FROM audit_log
		WHERE account_id = $1
	`
	var expected int64
	if err := q.QueryRow(ctx, query, accountID, claimAmount, adAmount).Scan(&expected); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта ожидаемой суммы: %w", err)
	}
	return expected, nil
}

// ListByAccount возвращает последние записи журнала аккаунта (новые сверху).
func (r *Repository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*Entry, error) {
	query := `
		SELECT id, account_id, action, detail, created_at
		FROM audit_log
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи журнала: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
