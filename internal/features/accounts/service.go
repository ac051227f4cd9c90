// Package accounts — service.go содержит бизнес-логику аккаунтов:
// аутентификация через identity gate, профиль, таблица лидеров.
package accounts

import (
	"context"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/coin-mine/internal/common"
	"serotonyl.ru/coin-mine/internal/features/audit"
	"serotonyl.ru/coin-mine/internal/gate"
)

// Service управляет аккаунтами.
type Service struct {
	repo      *Repository
	auditRepo *audit.Repository
	verifier  gate.Verifier
}

// NewService создаёт сервис аккаунтов.
func NewService(repo *Repository, auditRepo *audit.Repository, verifier gate.Verifier) *Service {
	return &Service{repo: repo, auditRepo: auditRepo, verifier: verifier}
}

// Authenticate проверяет доказательство через identity gate и возвращает
// аккаунт, создавая его при первом входе.
//
// Ошибки:
//   - common.ErrVerificationFailed — gate отклонил доказательство
//   - common.ErrKYCNotVerified — личность без подтверждённого KYC (постоянный отказ)
//   - common.ErrGateUnavailable — gate недоступен (временный отказ)
func (s *Service) Authenticate(ctx context.Context, displayName, proof string) (*Account, error) {
	identity, err := s.verifier.Verify(ctx, displayName, proof)
	if err != nil {
		return nil, err
	}
	if !identity.KYCVerified {
		// KYC нет — аккаунт не создаём и не ищем
		return nil, common.ErrKYCNotVerified
	}

	acc, created, err := s.repo.CreateIfAbsent(ctx, identity.DisplayName, identity.AvatarURL, identity.Gender)
	if err != nil {
		return nil, err
	}
	if created {
		log.WithField("display_name", acc.DisplayName).Info("Создан новый аккаунт")
	}

	// Фиксируем вход. Ошибка журнала здесь не отменяет аутентификацию:
	// состояние аккаунта не менялось.
	if err := s.auditRepo.Append(ctx, s.repo.db, acc.ID, audit.ActionAuthenticate, "успешная аутентификация"); err != nil {
		log.WithError(err).WithField("account_id", acc.ID).Error("Ошибка записи события аутентификации")
	}

	return acc, nil
}

// Profile возвращает аккаунт для отображения профиля.
// Заблокированный аккаунт профиль видит — блокировка касается только наград.
func (s *Service) Profile(ctx context.Context, accountID int64) (*Account, error) {
	return s.repo.GetByID(ctx, accountID)
}

// Top возвращает таблицу лидеров по балансу.
func (s *Service) Top(ctx context.Context, limit int) ([]*LeaderboardRow, error) {
	return s.repo.Top(ctx, limit)
}
