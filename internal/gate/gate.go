// Package gate — клиент внешнего сервиса верификации личности (identity gate).
// Сервис принимает доказательство (proof) и имя, возвращает профиль
// с признаком KYC. Ядро различает два вида отказов:
// постоянный (доказательство отклонено, KYC нет) и временный (gate недоступен).
package gate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/coin-mine/internal/common"
	"serotonyl.ru/coin-mine/internal/config"
)

// DemoProof — доказательство, принимаемое в демо-режиме без обращения к gate.
const DemoProof = "pi_demo"

// Identity — верифицированная личность, которую вернул gate.
type Identity struct {
	DisplayName string
	KYCVerified bool
	AvatarURL   *string
	Gender      string
}

// Verifier — интерфейс верификации. Ядро зависит только от него,
// конкретный клиент подставляется при сборке приложения.
type Verifier interface {
	Verify(ctx context.Context, displayName, proof string) (*Identity, error)
}

// Client — HTTP-клиент identity gate с демо-режимом.
type Client struct {
	url    string
	apiKey string
	demo   bool
	http   *http.Client
}

// NewClient создаёт клиент по конфигурации.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		url:    cfg.GateURL,
		apiKey: cfg.GateAPIKey,
		demo:   cfg.GateDemo,
		http:   &http.Client{Timeout: cfg.GateTimeout},
	}
}

// gateResponse — ожидаемый ответ gate. Поля-синонимы (username/picture)
// поддерживаются, потому что у внешнего API они исторически плавали.
type gateResponse struct {
	DisplayName string  `json:"display_name"`
	Username    string  `json:"username"`
	KYCVerified bool    `json:"kyc_verified"`
	AvatarURL   *string `json:"avatar_url"`
	Picture     *string `json:"picture"`
	Gender      string  `json:"gender"`
}

// Verify проверяет доказательство и возвращает личность.
//
// Ошибки:
//   - common.ErrVerificationFailed — gate отклонил доказательство (постоянно)
//   - common.ErrGateUnavailable — gate не настроен или недоступен (временно)
func (c *Client) Verify(ctx context.Context, displayName, proof string) (*Identity, error) {
	// Демо-режим: принимаем фиксированное доказательство без внешнего вызова
	if c.demo && proof == DemoProof {
		return &Identity{DisplayName: displayName, KYCVerified: true, Gender: "unspecified"}, nil
	}

	if c.url == "" {
		return nil, common.ErrGateUnavailable
	}

	payload, err := json.Marshal(map[string]string{
		"display_name": displayName,
		"proof":        proof,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Таймаут или обрыв соединения — временная проблема, не отказ
		log.WithError(err).Warn("Identity gate недоступен")
		return nil, common.ErrGateUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// продолжаем разбор
	case resp.StatusCode >= 500:
		log.WithField("status", resp.StatusCode).Warn("Identity gate вернул ошибку сервера")
		return nil, common.ErrGateUnavailable
	default:
		log.WithField("status", resp.StatusCode).Info("Identity gate отклонил доказательство")
		return nil, common.ErrVerificationFailed
	}

	var gr gateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		log.WithError(err).Warn("Некорректный ответ identity gate")
		return nil, common.ErrGateUnavailable
	}

	id := &Identity{
		DisplayName: gr.DisplayName,
		KYCVerified: gr.KYCVerified,
		AvatarURL:   gr.AvatarURL,
		Gender:      gr.Gender,
	}
	if id.DisplayName == "" {
		id.DisplayName = gr.Username
	}
	if id.DisplayName == "" {
		id.DisplayName = displayName
	}
	if id.AvatarURL == nil {
		id.AvatarURL = gr.Picture
	}
	if id.Gender == "" {
		id.Gender = "unspecified"
	}
	return id, nil
}
