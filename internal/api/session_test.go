package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/coin-mine/internal/auth"
)

func sessionHandler(t *testing.T, tokens *auth.Manager) http.Handler {
	t.Helper()
	return RequireSession(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, int64(42), AccountID(r))
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequireSessionValidToken(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	token, err := tokens.Issue(42, "Мария")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/claim", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	sessionHandler(t, tokens).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSessionMissingHeader(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/claim", nil)
	rec := httptest.NewRecorder()
	sessionHandler(t, tokens).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSessionBadScheme(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/claim", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	rec := httptest.NewRecorder()
	sessionHandler(t, tokens).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSessionForgedToken(t *testing.T) {
	tokens := auth.NewManager("test-secret", time.Hour)
	forger := auth.NewManager("other-secret", time.Hour)
	token, err := forger.Issue(42, "Мария")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/claim", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	sessionHandler(t, tokens).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
