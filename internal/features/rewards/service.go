// Package rewards — service.go содержит бизнес-логику леджера наград.
// После каждого успешного начисления ставит в очередь фоновую проверку
// аномалий: проверка не задерживает ответ и её сбой не виден клиенту.
package rewards

import (
	"context"
	"errors"
	"fmt"

	"serotonyl.ru/coin-mine/internal/common"
	"serotonyl.ru/coin-mine/internal/config"
	"serotonyl.ru/coin-mine/internal/metrics"
)

// CheckScheduler ставит аккаунт в очередь фоновой сверки.
// Реализация — пул воркеров детектора аномалий.
type CheckScheduler interface {
	Enqueue(accountID int64)
}

// Service управляет начислением наград.
type Service struct {
	repo   *Repository
	checks CheckScheduler
	cfg    *config.Config
}

// NewService создаёт сервис наград.
func NewService(repo *Repository, checks CheckScheduler, cfg *config.Config) *Service {
	return &Service{repo: repo, checks: checks, cfg: cfg}
}

// ClaimResult — результат успешного клейма.
type ClaimResult struct {
	Balance int64
	Message string
}

// Claim выполняет периодический клейм с кулдауном.
func (s *Service) Claim(ctx context.Context, accountID int64) (*ClaimResult, error) {
	balance, err := s.repo.Claim(ctx, accountID, s.cfg.ClaimAmount, s.cfg.ClaimCooldown)
	if err != nil {
		countRejection(err)
		return nil, err
	}

	metrics.RewardsIssued.WithLabelValues("claim").Inc()
	s.checks.Enqueue(accountID)

	return &ClaimResult{
		Balance: balance,
		Message: fmt.Sprintf("Начислено %s.", common.FormatCoins(s.cfg.ClaimAmount)),
	}, nil
}

// AdViewResult — результат успешного просмотра рекламы.
type AdViewResult struct {
	Balance   int64
	ViewCount int
}

// ViewAd начисляет награду за просмотр рекламы в пределах квоты окна.
func (s *Service) ViewAd(ctx context.Context, accountID int64) (*AdViewResult, error) {
	balance, views, err := s.repo.ViewAd(ctx, accountID, s.cfg.AdAmount, s.cfg.AdWindow, s.cfg.MaxAdViews)
	if err != nil {
		countRejection(err)
		return nil, err
	}

	metrics.RewardsIssued.WithLabelValues("ad_view").Inc()
	s.checks.Enqueue(accountID)

	return &AdViewResult{Balance: balance, ViewCount: views}, nil
}

// SkipAd фиксирует пропуск рекламы (награды нет, квота есть).
func (s *Service) SkipAd(ctx context.Context, accountID int64) (int, error) {
	skips, err := s.repo.SkipAd(ctx, accountID, s.cfg.AdWindow, s.cfg.MaxAdSkips)
	if err != nil {
		countRejection(err)
		return 0, err
	}
	return skips, nil
}

// countRejection учитывает отказ леджера в метриках.
func countRejection(err error) {
	switch {
	case errors.Is(err, common.ErrAccountBlocked):
		metrics.RewardRejections.WithLabelValues("blocked").Inc()
	case errors.Is(err, common.ErrQuotaExceeded):
		metrics.RewardRejections.WithLabelValues("quota").Inc()
	default:
		if _, ok := common.AsCooldown(err); ok {
			metrics.RewardRejections.WithLabelValues("cooldown").Inc()
		}
	}
}
