package gate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/coin-mine/internal/common"
	"serotonyl.ru/coin-mine/internal/config"
)

func newTestClient(url string, demo bool) *Client {
	cfg := &config.Config{
		GateURL:     url,
		GateAPIKey:  "test-key",
		GateDemo:    demo,
		GateTimeout: 2 * time.Second,
	}
	return NewClient(cfg)
}

func TestVerifyDemoMode(t *testing.T) {
	// Демо-режим не трогает сеть — URL намеренно пустой
	c := newTestClient("", true)

	id, err := c.Verify(context.Background(), "Мария", DemoProof)
	require.NoError(t, err)
	assert.Equal(t, "Мария", id.DisplayName)
	assert.True(t, id.KYCVerified)
	assert.Equal(t, "unspecified", id.Gender)
}

func TestVerifyNoURLConfigured(t *testing.T) {
	c := newTestClient("", false)

	_, err := c.Verify(context.Background(), "Мария", "какое-то доказательство")
	assert.ErrorIs(t, err, common.ErrGateUnavailable)
}

func TestVerifyOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name":"Мария","kyc_verified":true,"picture":"https://cdn/avatar.png"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, false)
	id, err := c.Verify(context.Background(), "Мария", "настоящее доказательство")
	require.NoError(t, err)
	assert.Equal(t, "Мария", id.DisplayName)
	assert.True(t, id.KYCVerified)
	require.NotNil(t, id.AvatarURL)
	assert.Equal(t, "https://cdn/avatar.png", *id.AvatarURL)
	assert.Equal(t, "unspecified", id.Gender)
}

func TestVerifyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, false)
	_, err := c.Verify(context.Background(), "Мария", "поддельное доказательство")
	assert.ErrorIs(t, err, common.ErrVerificationFailed)
}

func TestVerifyServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, false)
	_, err := c.Verify(context.Background(), "Мария", "доказательство")
	assert.ErrorIs(t, err, common.ErrGateUnavailable)
}

func TestVerifyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // порт закрыт до вызова

	c := newTestClient(srv.URL, false)
	_, err := c.Verify(context.Background(), "Мария", "доказательство")
	assert.ErrorIs(t, err, common.ErrGateUnavailable)
}

func TestVerifyBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("это не json"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, false)
	_, err := c.Verify(context.Background(), "Мария", "доказательство")
	assert.ErrorIs(t, err, common.ErrGateUnavailable)
}
