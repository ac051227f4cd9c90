// Package notify отправляет оповещения оператору в Telegram.
// Канал опциональный: без токена создаётся nil-нотификатор,
// все вызовы Alert на нём — no-op.
package notify

import (
	"context"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/coin-mine/internal/config"
)

// Telegram отправляет сообщения в операторский чат.
type Telegram struct {
	bot    *telego.Bot
	chatID int64
}

// NewTelegram создаёт нотификатор. Возвращает nil, если токен не задан.
func NewTelegram(cfg *config.Config) (*Telegram, error) {
	if cfg.AlertBotToken == "" || cfg.AlertChatID == 0 {
		log.Info("Оповещения в Telegram отключены (нет токена или chat_id)")
		return nil, nil
	}

	bot, err := telego.NewBot(cfg.AlertBotToken, telego.WithDiscardLogger())
	if err != nil {
		return nil, err
	}

	return &Telegram{bot: bot, chatID: cfg.AlertChatID}, nil
}

// Alert отправляет текст в операторский чат. Ошибка отправки только
// логируется: оповещение не должно ронять вызывающую операцию.
func (t *Telegram) Alert(ctx context.Context, text string) {
	if t == nil {
		return
	}
	_, err := t.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: t.chatID},
		Text:   text,
	})
	if err != nil {
		log.WithError(err).Error("Ошибка отправки оповещения в Telegram")
	}
}
