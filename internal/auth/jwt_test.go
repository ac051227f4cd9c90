package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/coin-mine/internal/common"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(42, "Мария")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	accountID, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), accountID)
}

func TestParseRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	for _, token := range []string{"", "не-токен", "a.b.c"} {
		_, err := m.Parse(token)
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-one", time.Hour)
	verifier := NewManager("secret-two", time.Hour)

	token, err := issuer.Issue(42, "Мария")
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Issue(42, "Мария")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}
