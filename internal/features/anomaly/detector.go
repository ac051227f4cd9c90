// detector.go — транзакционная сверка одного аккаунта.
// Детектор читает строку аккаунта под FOR UPDATE, считает оправданную
// журналом сумму и применяет вердикт. Смена статуса и запись журнала
// фиксируются одной транзакцией; повторная проверка того же аккаунта
// без нового нарушения ничего не пишет.
package anomaly

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/coin-mine/internal/config"
	"serotonyl.ru/coin-mine/internal/features/accounts"
	"serotonyl.ru/coin-mine/internal/features/audit"
	"serotonyl.ru/coin-mine/internal/metrics"
)

// Alerter отправляет оповещение оператору. Реализация может быть nil-безопасной.
type Alerter interface {
	Alert(ctx context.Context, text string)
}

// Detector сверяет total_awarded аккаунта с суммой по журналу.
type Detector struct {
	db      *pgxpool.Pool
	audit   *audit.Repository
	cfg     *config.Config
	alerter Alerter
}

// NewDetector создаёт детектор аномалий.
func NewDetector(db *pgxpool.Pool, auditRepo *audit.Repository, cfg *config.Config, alerter Alerter) *Detector {
	return &Detector{db: db, audit: auditRepo, cfg: cfg, alerter: alerter}
}

// Check выполняет сверку одного аккаунта.
// Несуществующий аккаунт — не ошибка: он мог быть поставлен в очередь
// до удаления.
func (d *Detector) Check(ctx context.Context, accountID int64) error {
	metrics.AnomalyChecks.Inc()

	tx, err := d.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		displayName string
		status      accounts.Status
		awarded     int64
	)
	err = tx.QueryRow(ctx, `
		SELECT display_name, status, total_awarded
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`, accountID).Scan(&displayName, &status, &awarded)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("ошибка чтения аккаунта (id=%d): %w", accountID, err)
	}

	expected, err := d.audit.ExpectedTotal(ctx, tx, accountID, d.cfg.ClaimAmount, d.cfg.AdAmount)
	if err != nil {
		return err
	}

	v := Evaluate(awarded, expected, d.cfg.AnomalyRatioThreshold, d.cfg.AnomalyAbsoluteSlack)
	if !v.Flag {
		return tx.Commit(ctx)
	}

	// Идемпотентность: журнал пополняется только при реальном переходе
	var alert string
	switch {
	case v.Block && status != accounts.StatusBlocked:
		if _, err := tx.Exec(ctx, `
			UPDATE accounts SET status = $2, updated_at = NOW() WHERE id = $1
		`, accountID, accounts.StatusBlocked); err != nil {
			return fmt.Errorf("ошибка автоблокировки (id=%d): %w", accountID, err)
		}
		if err := d.audit.Append(ctx, tx, accountID, audit.ActionFlag, v.Reason); err != nil {
			return err
		}
		if err := d.audit.Append(ctx, tx, accountID, audit.ActionAutoBlock, "автоблокировка по аномалии"); err != nil {
			return err
		}
		metrics.AnomalyFlags.Inc()
		metrics.AnomalyBlocks.Inc()
		alert = fmt.Sprintf("🚫 Автоблокировка %s: %s", displayName, v.Reason)

	case !v.Block && status == accounts.StatusActive:
		if _, err := tx.Exec(ctx, `
			UPDATE accounts SET status = $2, updated_at = NOW() WHERE id = $1
		`, accountID, accounts.StatusFlagged); err != nil {
			return fmt.Errorf("ошибка пометки аккаунта (id=%d): %w", accountID, err)
		}
		if err := d.audit.Append(ctx, tx, accountID, audit.ActionFlag, v.Reason); err != nil {
			return err
		}
		metrics.AnomalyFlags.Inc()
		alert = fmt.Sprintf("⚠️ Аномалия у %s: %s", displayName, v.Reason)

	default:
		// Статус уже соответствует вердикту
		return tx.Commit(ctx)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	log.Warnf("Детектор: %s (id=%d): %s", displayName, accountID, v.Reason)
	if d.alerter != nil {
		d.alerter.Alert(ctx, alert)
	}
	return nil
}
