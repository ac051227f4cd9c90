// Package rewards — window.go содержит чистые функции тайминга:
// остаток кулдауна клейма и ленивое скользящее окно рекламы.
// Никаких таймеров: окно пересчитывается из сохранённого штампа
// при каждом запросе.
package rewards

import "time"

// RemainingCooldown возвращает, сколько осталось ждать до следующего клейма.
// Ноль — клейм разрешён. Граница строгая: ровно через cooldown после
// последнего клейма операция уже проходит.
func RemainingCooldown(lastClaimAt *time.Time, now time.Time, cooldown time.Duration) time.Duration {
	if lastClaimAt == nil {
		return 0
	}
	elapsed := now.Sub(*lastClaimAt)
	if elapsed < cooldown {
		return cooldown - elapsed
	}
	return 0
}

// WindowState — состояние окна рекламы аккаунта.
// Start == nil означает, что окно ещё не открывалось.
type WindowState struct {
	Start *time.Time
	Views int
	Skips int
}

// Roll возвращает состояние окна на момент now.
// Если окно не открыто или истекло (строго больше length с начала),
// открывается новое окно: оба счётчика обнуляются, независимо от того,
// просмотр или пропуск вызвал перекат.
func Roll(state WindowState, now time.Time, length time.Duration) WindowState {
	if state.Start == nil || now.Sub(*state.Start) > length {
		start := now
		return WindowState{Start: &start}
	}
	return state
}
