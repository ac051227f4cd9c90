package admin

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"

	"serotonyl.ru/coin-mine/internal/config"
)

// hashPassword строит хеш в том же формате, что scripts/generate_hash.go.
func hashPassword(t *testing.T, password string) string {
	t.Helper()
	salt := make([]byte, 16)
	_, err := rand.Read(salt)
	require.NoError(t, err)

	var (
		memory      uint32 = 65536
		iterations  uint32 = 3
		parallelism uint8  = 2
	)
	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, 32)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory, iterations, parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash))
}

func TestVerifyArgon2id(t *testing.T) {
	encoded := hashPassword(t, "правильный-пароль")

	assert.True(t, verifyArgon2id("правильный-пароль", encoded))
	assert.False(t, verifyArgon2id("неправильный", encoded))
	assert.False(t, verifyArgon2id("правильный-пароль", "мусор"))
	assert.False(t, verifyArgon2id("правильный-пароль", "$argon2id$v=19$мусор$мусор$мусор"))
}

func TestAttemptLimiter(t *testing.T) {
	s := NewService(nil, &config.Config{})

	assert.False(t, s.tooManyAttempts("10.0.0.1"))

	for i := 0; i < 3; i++ {
		s.recordFailure("10.0.0.1")
	}
	assert.True(t, s.tooManyAttempts("10.0.0.1"))

	// Другой IP не задет
	assert.False(t, s.tooManyAttempts("10.0.0.2"))
}
