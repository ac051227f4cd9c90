package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnqueueNeverBlocks(t *testing.T) {
	// Воркеры не запущены: очередь на 2 заявки заполняется,
	// третья должна быть отброшена, а не заблокировать вызов
	w := NewWorker(nil, 1, 2)

	w.Enqueue(1)
	w.Enqueue(2)
	w.Enqueue(3)

	assert.Len(t, w.queue, 2)
}
