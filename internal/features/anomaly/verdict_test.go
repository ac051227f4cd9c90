package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	const (
		threshold = 2.0
		slack     = 1000
	)

	t.Run("пустой аккаунт чист", func(t *testing.T) {
		v := Evaluate(0, 0, threshold, slack)
		assert.False(t, v.Flag)
		assert.False(t, v.Block)
	})

	t.Run("начисления без записей журнала — флаг без блокировки", func(t *testing.T) {
		v := Evaluate(500, 0, threshold, slack)
		assert.True(t, v.Flag)
		assert.False(t, v.Block)
		assert.NotEmpty(t, v.Reason)
	})

	t.Run("сошедшийся леджер чист", func(t *testing.T) {
		v := Evaluate(1000, 1000, threshold, slack)
		assert.False(t, v.Flag)
		assert.InDelta(t, 1.0, v.Ratio, 0.001)
	})

	t.Run("отношение ровно на пороге ещё чисто", func(t *testing.T) {
		v := Evaluate(2000, 1000, threshold, slack)
		assert.False(t, v.Flag)
	})

	t.Run("отношение выше порога — флаг", func(t *testing.T) {
		v := Evaluate(2100, 1000, threshold, slack)
		assert.True(t, v.Flag)
		assert.False(t, v.Block)
	})

	t.Run("абсолютный перебор ловится и при малом отношении", func(t *testing.T) {
		// 101000/100000 = 1.01 — порог по отношению не сработал бы
		v := Evaluate(101001, 100000, threshold, slack)
		assert.True(t, v.Flag)
		assert.False(t, v.Block)
	})

	t.Run("перебор в пределах слака чист", func(t *testing.T) {
		v := Evaluate(100500, 100000, threshold, slack)
		assert.False(t, v.Flag)
	})

	t.Run("двойной порог — блокировка", func(t *testing.T) {
		v := Evaluate(4100, 1000, threshold, slack)
		assert.True(t, v.Flag)
		assert.True(t, v.Block)
	})

	t.Run("ровно двойной порог — только флаг", func(t *testing.T) {
		v := Evaluate(4000, 1000, threshold, slack)
		assert.True(t, v.Flag)
		assert.False(t, v.Block)
	})
}
