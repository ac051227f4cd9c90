package rewards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemainingCooldown(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cooldown := 12 * time.Hour

	t.Run("первый клейм разрешён сразу", func(t *testing.T) {
		assert.Zero(t, RemainingCooldown(nil, now, cooldown))
	})

	t.Run("сразу после клейма ждать весь кулдаун", func(t *testing.T) {
		last := now
		assert.Equal(t, cooldown, RemainingCooldown(&last, now, cooldown))
	})

	t.Run("в середине кулдауна остаток уменьшается", func(t *testing.T) {
		last := now.Add(-5 * time.Hour)
		assert.Equal(t, 7*time.Hour, RemainingCooldown(&last, now, cooldown))
	})

	t.Run("ровно на границе клейм уже разрешён", func(t *testing.T) {
		last := now.Add(-cooldown)
		assert.Zero(t, RemainingCooldown(&last, now, cooldown))
	})

	t.Run("за секунду до границы ещё запрещён", func(t *testing.T) {
		last := now.Add(-cooldown + time.Second)
		assert.Equal(t, time.Second, RemainingCooldown(&last, now, cooldown))
	})
}

func TestRoll(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	window := 12 * time.Hour

	t.Run("без окна открывается новое", func(t *testing.T) {
		state := Roll(WindowState{}, now, window)
		assert.NotNil(t, state.Start)
		assert.Equal(t, now, *state.Start)
		assert.Zero(t, state.Views)
		assert.Zero(t, state.Skips)
	})

	t.Run("живое окно сохраняет счётчики", func(t *testing.T) {
		start := now.Add(-3 * time.Hour)
		state := Roll(WindowState{Start: &start, Views: 4, Skips: 1}, now, window)
		assert.Equal(t, start, *state.Start)
		assert.Equal(t, 4, state.Views)
		assert.Equal(t, 1, state.Skips)
	})

	t.Run("ровно на границе окно ещё живо", func(t *testing.T) {
		start := now.Add(-window)
		state := Roll(WindowState{Start: &start, Views: 5, Skips: 2}, now, window)
		assert.Equal(t, start, *state.Start)
		assert.Equal(t, 5, state.Views)
	})

	t.Run("после границы оба счётчика обнуляются", func(t *testing.T) {
		start := now.Add(-window - time.Second)
		state := Roll(WindowState{Start: &start, Views: 5, Skips: 2}, now, window)
		assert.Equal(t, now, *state.Start)
		assert.Zero(t, state.Views)
		assert.Zero(t, state.Skips)
	})
}
