// Package api — session.go извлекает аккаунт из сессионного токена.
package api

import (
	"context"
	"net/http"
	"strings"

	"serotonyl.ru/coin-mine/internal/auth"
	"serotonyl.ru/coin-mine/internal/common"
)

type ctxKey int

const ctxKeyAccountID ctxKey = iota

// RequireSession проверяет заголовок Authorization: Bearer <token>
// и кладёт идентификатор аккаунта в контекст запроса.
// Любой дефект токена — один и тот же ответ 401.
func RequireSession(tokens *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				RespondError(w, common.ErrInvalidCredentials)
				return
			}

			accountID, err := tokens.Parse(tokenString)
			if err != nil {
				RespondError(w, common.ErrInvalidCredentials)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAccountID, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountID возвращает идентификатор аккаунта из контекста запроса.
// Ноль означает, что RequireSession не отработал (ошибка роутинга).
func AccountID(r *http.Request) int64 {
	id, _ := r.Context().Value(ctxKeyAccountID).(int64)
	return id
}
