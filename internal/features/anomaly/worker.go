// worker.go — пул фоновых воркеров детектора.
// Очередь ограничена: при переполнении заявка отбрасывается, аккаунт
// догонит часовая полная сверка планировщика.
package anomaly

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Worker распределяет заявки на сверку по пулу горутин.
type Worker struct {
	detector *Detector
	queue    chan int64
	workers  int
	wg       sync.WaitGroup
}

// NewWorker создаёт пул из workers горутин с очередью на queueSize заявок.
func NewWorker(detector *Detector, workers, queueSize int) *Worker {
	return &Worker{
		detector: detector,
		queue:    make(chan int64, queueSize),
		workers:  workers,
	}
}

// Enqueue ставит аккаунт в очередь сверки. Никогда не блокирует:
// вызывается из пути ответа клиенту.
func (w *Worker) Enqueue(accountID int64) {
	select {
	case w.queue <- accountID:
	default:
		log.Warnf("Очередь детектора переполнена, заявка отброшена (id=%d)", accountID)
	}
}

// Start запускает воркеры. Они останавливаются по отмене ctx.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
	log.Infof("Детектор аномалий запущен: %d воркеров", w.workers)
}

// Wait блокируется до завершения всех воркеров.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case accountID := <-w.queue:
			if err := w.detector.Check(ctx, accountID); err != nil {
				log.Errorf("Ошибка сверки аккаунта (id=%d): %v", accountID, err)
			}
		}
	}
}
