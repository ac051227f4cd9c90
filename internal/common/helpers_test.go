package common

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPluralizeCoins(t *testing.T) {
	cases := map[int64]string{
		0:   "монет",
		1:   "монета",
		2:   "монеты",
		4:   "монеты",
		5:   "монет",
		11:  "монет",
		12:  "монет",
		21:  "монета",
		22:  "монеты",
		100: "монет",
		101: "монета",
		111: "монет",
	}
	for n, want := range cases {
		assert.Equal(t, want, PluralizeCoins(n), "n=%d", n)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0 минут", FormatDuration(0))
	assert.Equal(t, "1 минута", FormatDuration(30*time.Second)) // округление вверх
	assert.Equal(t, "5 минут", FormatDuration(5*time.Minute))
	assert.Equal(t, "59 минут", FormatDuration(59*time.Minute))
	assert.Equal(t, "1 ч 0 мин", FormatDuration(time.Hour))
	assert.Equal(t, "11 ч 30 мин", FormatDuration(11*time.Hour+30*time.Minute))
	assert.Equal(t, "0 минут", FormatDuration(-time.Minute))
}

func TestAsCooldown(t *testing.T) {
	ce := &CooldownError{Remaining: 7 * time.Hour}
	wrapped := fmt.Errorf("операция отклонена: %w", ce)

	got, ok := AsCooldown(wrapped)
	assert.True(t, ok)
	assert.Equal(t, 7*time.Hour, got.Remaining)

	_, ok = AsCooldown(errors.New("другая ошибка"))
	assert.False(t, ok)
}
