// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях сервиса.
// Эти ошибки позволяют HTTP-слою различать типы проблем
// и отдавать клиенту корректный код ответа.
package common

import (
	"errors"
	"fmt"
	"time"
)

// Ошибки аутентификации и авторизации
var (
	// ErrInvalidCredentials — сессионный токен не прошёл проверку.
	// Причина (подпись, срок, формат) наружу не раскрывается.
	ErrInvalidCredentials = errors.New("недействительные учётные данные")
	// ErrVerificationFailed — identity gate отклонил доказательство
	ErrVerificationFailed = errors.New("верификация личности не пройдена")
	// ErrKYCNotVerified — личность существует, но KYC не подтверждён.
	// Это постоянный отказ, повторять запрос бессмысленно.
	ErrKYCNotVerified = errors.New("KYC не подтверждён")
	// ErrGateUnavailable — identity gate недоступен или не настроен (временная проблема)
	ErrGateUnavailable = errors.New("сервис верификации недоступен")
	// ErrAccountBlocked — аккаунт заблокирован, операции наград запрещены
	ErrAccountBlocked = errors.New("аккаунт заблокирован")
)

// Ошибки лимитов
var (
	// ErrQuotaExceeded — исчерпана квота текущего окна (просмотры или пропуски рекламы)
	ErrQuotaExceeded = errors.New("лимит на текущее окно исчерпан")
)

// Прочие ошибки
var (
	// ErrAccountNotFound — аккаунт не найден в базе
	ErrAccountNotFound = errors.New("аккаунт не найден")
	// ErrWrongPassword — неверный админ-пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
)

// CooldownError возвращается при попытке клейма до истечения кулдауна.
// Несёт оставшееся время для показа пользователю.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("кулдаун активен, осталось %s", FormatDuration(e.Remaining))
}

// AsCooldown возвращает CooldownError, если err им является.
func AsCooldown(err error) (*CooldownError, bool) {
	var ce *CooldownError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
