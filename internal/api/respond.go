// Package api содержит общий HTTP-слой: JSON-ответы, маппинг ошибок
// на коды, сессионный middleware, логирование и rate limiting.
// Роуты собираются в internal/app, обработчики живут в фичах.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/coin-mine/internal/common"
)

// errorResponse — единый формат ошибки для клиента.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	// RetryAfterSeconds заполняется только для активного кулдауна
	RetryAfterSeconds int64 `json:"retry_after_seconds,omitempty"`
}

// WriteJSON сериализует v и пишет ответ с указанным статусом.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Ошибка сериализации ответа")
	}
}

// WriteError пишет ошибку в едином формате.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorResponse{Error: code, Message: message})
}

// RespondError переводит доменную ошибку в HTTP-ответ.
// Неизвестные ошибки логируются и отдаются как internal без деталей.
func RespondError(w http.ResponseWriter, err error) {
	if ce, ok := common.AsCooldown(err); ok {
		WriteJSON(w, http.StatusTooManyRequests, errorResponse{
			Error:             "cooldown_active",
			Message:           ce.Error(),
			RetryAfterSeconds: int64(ce.Remaining.Seconds() + 0.999),
		})
		return
	}

	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, common.ErrVerificationFailed):
		WriteError(w, http.StatusUnauthorized, "verification_failed", err.Error())
	case errors.Is(err, common.ErrKYCNotVerified):
		WriteError(w, http.StatusForbidden, "kyc_not_verified", err.Error())
	case errors.Is(err, common.ErrGateUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "gate_unavailable", err.Error())
	case errors.Is(err, common.ErrAccountBlocked):
		WriteError(w, http.StatusForbidden, "account_blocked", err.Error())
	case errors.Is(err, common.ErrQuotaExceeded):
		WriteError(w, http.StatusTooManyRequests, "quota_exceeded", err.Error())
	case errors.Is(err, common.ErrAccountNotFound):
		WriteError(w, http.StatusNotFound, "account_not_found", err.Error())
	case errors.Is(err, common.ErrWrongPassword), errors.Is(err, common.ErrTooManyAttempts):
		WriteError(w, http.StatusForbidden, "admin_denied", err.Error())
	default:
		log.WithError(err).Error("Внутренняя ошибка обработчика")
		WriteError(w, http.StatusInternalServerError, "internal", "внутренняя ошибка сервиса")
	}
}
