// Package anomaly реализует детектор аномалий: сверку начисленной суммы
// с суммой, которую оправдывает журнал событий.
// verdict.go — чистая решающая функция; детерминирована на одном журнале.
package anomaly

import "fmt"

// Verdict — решение по одному аккаунту.
type Verdict struct {
	Flag   bool    // пометить аккаунт
	Block  bool    // заблокировать (подразумевает Flag)
	Ratio  float64 // awarded/expected; 0 при expected == 0
	Reason string  // детали для записи журнала
}

// Evaluate сравнивает начисленную сумму с оправданной журналом.
//
// Правила:
//   - expected == 0 и awarded > 0 — невозможно при корректном леджере
//     (каждое начисление парно записи журнала) → флаг, без блокировки;
//   - awarded/expected > ratioThreshold ИЛИ awarded > expected + absoluteSlack
//     → флаг. Условия объединены через ИЛИ: на больших expected
//     аддитивный слак срабатывает раньше порога по отношению;
//   - отношение выше двойного порога → ещё и блокировка.
func Evaluate(awarded, expected int64, ratioThreshold float64, absoluteSlack int64) Verdict {
	if expected == 0 {
		if awarded > 0 {
			return Verdict{Flag: true, Reason: "начисления без подтверждающих записей журнала"}
		}
		return Verdict{}
	}

	ratio := float64(awarded) / float64(expected)
	v := Verdict{Ratio: ratio}
	if ratio > ratioThreshold || awarded > expected+absoluteSlack {
		v.Flag = true
		v.Reason = fmt.Sprintf("аномалия: awarded=%d expected=%d ratio=%.2f", awarded, expected, ratio)
		if ratio > ratioThreshold*2 {
			v.Block = true
		}
	}
	return v
}
