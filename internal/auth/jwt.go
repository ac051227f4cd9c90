// Package auth выпускает и проверяет сессионные токены (JWT, HS256).
// Токен несёт только идентификатор аккаунта и срок действия.
// Любая причина отказа (подпись, срок, формат) снаружи выглядит одинаково —
// диагностика подделок клиенту не раскрывается.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"serotonyl.ru/coin-mine/internal/common"
)

// Claims — полезная нагрузка сессионного токена.
type Claims struct {
	DisplayName string `json:"display_name"`
	jwt.RegisteredClaims
}

// Manager выпускает и проверяет токены с одним секретом и TTL.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager создаёт менеджер сессий.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue выпускает токен для аккаунта.
func (m *Manager) Issue(accountID int64, displayName string) (string, error) {
	now := time.Now()
	claims := &Claims{
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}
	return signed, nil
}

// Parse проверяет токен и возвращает идентификатор аккаунта.
// Все причины отказа сведены к common.ErrInvalidCredentials.
func (m *Manager) Parse(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Фиксируем метод подписи — защита от подмены алгоритма
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return 0, common.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, common.ErrInvalidCredentials
	}

	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || accountID <= 0 {
		return 0, common.ErrInvalidCredentials
	}
	return accountID, nil
}
