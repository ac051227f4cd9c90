// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация и форматирование длительностей.
package common

import (
	"fmt"
	"math"
	"time"
)

// PluralizeCoins возвращает правильную форму слова «монета» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "монета" (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "монеты" (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → "монет" (0, 5-20, 25-30, 100, ...)
func PluralizeCoins(n int64) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "монета"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "монеты"
	}
	return "монет"
}

// FormatCoins форматирует сумму в читабельную строку.
// Пример: FormatCoins(150) → "150 монет"
func FormatCoins(n int64) string {
	return fmt.Sprintf("%d %s", n, PluralizeCoins(n))
}

// PluralizeMinutes возвращает правильную форму слова «минута».
func PluralizeMinutes(n int64) string {
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "минута"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "минуты"
	}
	return "минут"
}

// FormatDuration форматирует длительность для пользователя.
// До часа — минуты, дальше — часы и минуты. Округляем вверх:
// «осталось 0 минут» при живом кулдауне выглядит как ложь.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalMinutes := int64(math.Ceil(d.Minutes()))
	if totalMinutes < 60 {
		return fmt.Sprintf("%d %s", totalMinutes, PluralizeMinutes(totalMinutes))
	}
	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	return fmt.Sprintf("%d ч %d мин", hours, minutes)
}
