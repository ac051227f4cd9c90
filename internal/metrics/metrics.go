// Package metrics регистрирует счётчики Prometheus.
// Метрики отдаются на GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RewardsIssued — успешные начисления по видам (claim, ad_view)
	RewardsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinmine_rewards_issued_total",
		Help: "Количество успешных начислений наград по видам.",
	}, []string{"kind"})

	// RewardRejections — отказы леджера по причинам (cooldown, quota, blocked)
	RewardRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coinmine_reward_rejections_total",
		Help: "Количество отклонённых операций леджера по причинам.",
	}, []string{"reason"})

	// AnomalyChecks — выполненные проверки детектора
	AnomalyChecks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coinmine_anomaly_checks_total",
		Help: "Количество выполненных сверок детектора аномалий.",
	})

	// AnomalyFlags — переводы аккаунтов в статус flagged
	AnomalyFlags = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coinmine_anomaly_flags_total",
		Help: "Количество аккаунтов, помеченных детектором.",
	})

	// AnomalyBlocks — автоблокировки
	AnomalyBlocks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coinmine_anomaly_blocks_total",
		Help: "Количество автоматических блокировок.",
	})
)
