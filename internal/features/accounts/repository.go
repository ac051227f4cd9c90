// Package accounts — repository.go выполняет все операции с таблицей accounts.
// Изменяющие операции пишут запись журнала в той же транзакции БД,
// что и само изменение: либо происходят оба, либо ни одного.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/coin-mine/internal/common"
	"serotonyl.ru/coin-mine/internal/features/audit"
)

const accountColumns = `
	id, display_name, avatar_url, gender, balance, total_awarded,
	last_claim_at, ad_window_start, ad_view_count, ad_skip_count,
	status, created_at, updated_at
`

// Repository предоставляет методы для работы с аккаунтами.
type Repository struct {
	db    *pgxpool.Pool
	audit *audit.Repository
}

// NewRepository создаёт репозиторий аккаунтов.
func NewRepository(db *pgxpool.Pool, auditRepo *audit.Repository) *Repository {
	return &Repository{db: db, audit: auditRepo}
}

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(
		&a.ID, &a.DisplayName, &a.AvatarURL, &a.Gender, &a.Balance, &a.TotalAwarded,
		&a.LastClaimAt, &a.AdWindowStart, &a.AdViewCount, &a.AdSkipCount,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateIfAbsent находит аккаунт по имени или создаёт новый.
// Идемпотентно: два одновременных первых входа не создадут два аккаунта —
// конфликт по display_name разрешается в БД, проигравший просто читает
// уже созданную строку. Запись журнала create идёт в той же транзакции,
// что и вставка.
func (r *Repository) CreateIfAbsent(ctx context.Context, displayName string, avatarURL *string, gender string) (*Account, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO accounts (display_name, avatar_url, gender)
		VALUES ($1, $2, $3)
		ON CONFLICT (display_name) DO NOTHING
		RETURNING `+accountColumns,
		displayName, avatarURL, gender,
	)
	acc, err := scanAccount(row)
	switch {
	case err == nil:
		// Создали новый аккаунт — фиксируем событие create
		if err := r.audit.Append(ctx, tx, acc.ID, audit.ActionCreate, "создан по верифицированной личности"); err != nil {
			return nil, false, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, false, fmt.Errorf("ошибка фиксации транзакции: %w", err)
		}
		return acc, true, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Аккаунт уже существует — читаем его
		acc, err = scanAccount(tx.QueryRow(ctx,
			`SELECT `+accountColumns+` FROM accounts WHERE display_name = $1`, displayName))
		if err != nil {
			return nil, false, fmt.Errorf("ошибка чтения аккаунта (%s): %w", displayName, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, false, fmt.Errorf("ошибка фиксации транзакции: %w", err)
		}
		return acc, false, nil
	default:
		return nil, false, fmt.Errorf("ошибка создания аккаунта (%s): %w", displayName, err)
	}
}

// GetByID возвращает аккаунт по идентификатору.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Account, error) {
	acc, err := scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrAccountNotFound
		}
		return nil, fmt.Errorf("ошибка чтения аккаунта (id=%d): %w", id, err)
	}
	return acc, nil
}

// GetByDisplayName возвращает аккаунт по имени.
func (r *Repository) GetByDisplayName(ctx context.Context, displayName string) (*Account, error) {
	acc, err := scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE display_name = $1`, displayName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrAccountNotFound
		}
		return nil, fmt.Errorf("ошибка чтения аккаунта (%s): %w", displayName, err)
	}
	return acc, nil
}

// Top возвращает первые limit аккаунтов по убыванию баланса.
func (r *Repository) Top(ctx context.Context, limit int) ([]*LeaderboardRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT display_name, balance, avatar_url, status
		FROM accounts
		ORDER BY balance DESC, id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения таблицы лидеров: %w", err)
	}
	defer rows.Close()

	var result []*LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		var status Status
		if err := rows.Scan(&row.DisplayName, &row.Balance, &row.AvatarURL, &status); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки лидеров: %w", err)
		}
		row.Flagged = status == StatusFlagged
		result = append(result, &row)
	}
	return result, rows.Err()
}

// Block блокирует аккаунт по имени (административное действие).
// Статус и запись журнала admin_block фиксируются одной транзакцией.
func (r *Repository) Block(ctx context.Context, displayName string, detail string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM accounts WHERE display_name = $1 FOR UPDATE`, displayName,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.ErrAccountNotFound
		}
		return fmt.Errorf("ошибка поиска аккаунта (%s): %w", displayName, err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, StatusBlocked,
	); err != nil {
		return fmt.Errorf("ошибка блокировки аккаунта: %w", err)
	}

	if err := r.audit.Append(ctx, tx, id, audit.ActionAdminBlock, detail); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// AllIDs возвращает идентификаторы всех аккаунтов.
// Используется часовым обходом детектора аномалий.
func (r *Repository) AllIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения списка аккаунтов: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountByStatus возвращает количество аккаунтов в каждом статусе.
// Нужно для ежедневной сводки в логах.
func (r *Repository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM accounts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта статусов: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int64)
	for rows.Next() {
		var status Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования статуса: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
