// Package admin — service.go содержит логику проверки пароля администратора
// и ручной блокировки аккаунтов.
package admin

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"

	"serotonyl.ru/coin-mine/internal/common"
	"serotonyl.ru/coin-mine/internal/config"
	"serotonyl.ru/coin-mine/internal/features/accounts"
)

// Service управляет админ-операциями.
type Service struct {
	accountRepo *accounts.Repository
	cfg         *config.Config
	attempts    map[string][]time.Time // Неудачные попытки по IP (in-memory)
	attemptsMu  sync.Mutex
}

// NewService создаёт админ-сервис.
func NewService(accountRepo *accounts.Repository, cfg *config.Config) *Service {
	return &Service{
		accountRepo: accountRepo,
		cfg:         cfg,
		attempts:    make(map[string][]time.Time),
	}
}

// Block проверяет пароль администратора и блокирует аккаунт.
// Защита от brute-force: 3 неудачные попытки с одного IP = блокировка на 1 час.
func (s *Service) Block(ctx context.Context, clientIP, password, displayName, reason string) error {
	if s.tooManyAttempts(clientIP) {
		return common.ErrTooManyAttempts
	}

	if !verifyArgon2id(password, s.cfg.AdminPasswordHash) {
		s.recordFailure(clientIP)
		log.Warnf("Неверный пароль администратора (ip=%s)", clientIP)
		return common.ErrWrongPassword
	}

	detail := "ручная блокировка"
	if reason != "" {
		detail = fmt.Sprintf("ручная блокировка: %s", reason)
	}
	if err := s.accountRepo.Block(ctx, displayName, detail); err != nil {
		return err
	}

	log.Infof("Аккаунт %s заблокирован администратором", displayName)
	return nil
}

// tooManyAttempts проверяет лимит неудачных попыток за последний час.
func (s *Service) tooManyAttempts(clientIP string) bool {
	s.attemptsMu.Lock()
	defer s.attemptsMu.Unlock()

	cutoff := time.Now().Add(-1 * time.Hour)
	recent := s.attempts[clientIP][:0]
	for _, t := range s.attempts[clientIP] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	s.attempts[clientIP] = recent

	return len(recent) >= 3
}

// recordFailure фиксирует неудачную попытку.
func (s *Service) recordFailure(clientIP string) {
	s.attemptsMu.Lock()
	defer s.attemptsMu.Unlock()
	s.attempts[clientIP] = append(s.attempts[clientIP], time.Now())
}

// verifyArgon2id проверяет пароль по хешу Argon2id.
// Формат хеша: $argon2id$v=19$m=65536,t=3,p=2$<salt_base64>$<hash_base64>
func verifyArgon2id(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		log.Error("Некорректный формат хеша Argon2id")
		return false
	}

	var memory uint32
	var iterations uint32
	var parallelism uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil {
		log.WithError(err).Error("Ошибка парсинга параметров Argon2id")
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования соли")
		return false
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		log.WithError(err).Error("Ошибка декодирования хеша")
		return false
	}

	computedHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expectedHash)))

	// Сравнение в постоянном времени (защита от timing attack)
	return subtle.ConstantTimeCompare(computedHash, expectedHash) == 1
}
