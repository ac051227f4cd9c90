// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежечасная полная сверка всех
// аккаунтов (подстраховка на случай отброшенных заявок очереди)
// и ежедневная сводка по статусам.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/coin-mine/internal/features/accounts"
	"serotonyl.ru/coin-mine/internal/features/anomaly"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron        *cron.Cron
	accountRepo *accounts.Repository
	detector    *anomaly.Detector
}

// NewScheduler создаёт планировщик задач с московским часовым поясом.
func NewScheduler(accountRepo *accounts.Repository, detector *anomaly.Detector) *Scheduler {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		log.WithError(err).Warn("Не удалось загрузить Europe/Moscow, используем UTC+3")
		loc = time.FixedZone("MSK", 3*60*60)
	}

	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:        c,
		accountRepo: accountRepo,
		detector:    detector,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Полная сверка каждый час
	s.cron.AddFunc("0 * * * *", func() {
		log.Info("[CRON] Полная сверка аккаунтов")
		s.sweep(ctx)
	})

	// Ежедневная сводка в 00:00 по Москве
	s.cron.AddFunc("0 0 * * *", func() {
		log.Info("[CRON] Сводка по статусам")
		s.summary(ctx)
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен (Europe/Moscow)")
}

// Stop останавливает планировщик, дождавшись текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// sweep прогоняет детектор по всем аккаунтам.
func (s *Scheduler) sweep(ctx context.Context) {
	ids, err := s.accountRepo.AllIDs(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка чтения списка аккаунтов")
		return
	}

	var failed int
	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		if err := s.detector.Check(ctx, id); err != nil {
			failed++
			log.WithError(err).WithField("account_id", id).Error("[CRON] Ошибка сверки")
		}
	}

	log.Infof("[CRON] Сверка завершена: %d аккаунтов, ошибок %d", len(ids), failed)
}

// summary пишет в лог распределение аккаунтов по статусам.
func (s *Scheduler) summary(ctx context.Context) {
	counts, err := s.accountRepo.CountByStatus(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка подсчёта статусов")
		return
	}

	log.WithFields(log.Fields{
		"active":  counts[accounts.StatusActive],
		"flagged": counts[accounts.StatusFlagged],
		"blocked": counts[accounts.StatusBlocked],
	}).Info("[CRON] Распределение аккаунтов по статусам")
}
