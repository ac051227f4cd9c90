// Package accounts — handlers.go содержит HTTP-обработчики:
// аутентификация, профиль, таблица лидеров.
package accounts

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"serotonyl.ru/coin-mine/internal/api"
	"serotonyl.ru/coin-mine/internal/auth"
	"serotonyl.ru/coin-mine/internal/config"
)

// Handler обрабатывает HTTP-запросы аккаунтов.
type Handler struct {
	service *Service
	tokens  *auth.Manager
	cfg     *config.Config
}

// NewHandler создаёт обработчик аккаунтов.
func NewHandler(service *Service, tokens *auth.Manager, cfg *config.Config) *Handler {
	return &Handler{service: service, tokens: tokens, cfg: cfg}
}

type authRequest struct {
	DisplayName string `json:"display_name"`
	Proof       string `json:"proof"`
}

type accountSummary struct {
	DisplayName string  `json:"display_name"`
	Balance     int64   `json:"balance"`
	AvatarURL   *string `json:"avatar_url"`
	Blocked     bool    `json:"blocked"`
}

// Auth обрабатывает POST /auth: верификация через gate + выпуск токена.
func (h *Handler) Auth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "bad_request", "некорректное тело запроса")
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" || req.Proof == "" {
		api.WriteError(w, http.StatusBadRequest, "bad_request", "display_name и proof обязательны")
		return
	}

	acc, err := h.service.Authenticate(r.Context(), req.DisplayName, req.Proof)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	token, err := h.tokens.Issue(acc.ID, acc.DisplayName)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"account": accountSummary{
			DisplayName: acc.DisplayName,
			Balance:     acc.Balance,
			AvatarURL:   acc.AvatarURL,
			Blocked:     acc.Blocked(),
		},
	})
}

// Me обрабатывает GET /me: профиль текущего аккаунта.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	acc, err := h.service.Profile(r.Context(), api.AccountID(r))
	if err != nil {
		api.RespondError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"display_name":  acc.DisplayName,
		"balance":       acc.Balance,
		"avatar_url":    acc.AvatarURL,
		"flagged":       acc.Flagged(),
		"blocked":       acc.Blocked(),
		"ad_view_count": acc.AdViewCount,
	})
}

// Leaderboard обрабатывает GET /leaderboard?limit=N.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := h.cfg.LeaderboardDefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.WriteError(w, http.StatusBadRequest, "bad_request", "некорректный limit")
			return
		}
		limit = parsed
	}
	if limit > h.cfg.LeaderboardMaxLimit {
		limit = h.cfg.LeaderboardMaxLimit
	}

	rows, err := h.service.Top(r.Context(), limit)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	if rows == nil {
		rows = []*LeaderboardRow{}
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"leaderboard": rows})
}
