// Package admin — handlers.go содержит HTTP-обработчики админ-операций.
package admin

import (
	"encoding/json"
	"net"
	"net/http"

	"serotonyl.ru/coin-mine/internal/api"
)

// Handler обрабатывает админ-запросы.
type Handler struct {
	service *Service
}

// NewHandler создаёт админ-обработчик.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type blockRequest struct {
	DisplayName string `json:"display_name"`
	Reason      string `json:"reason"`
}

// Block обрабатывает POST /admin/block.
// Пароль администратора передаётся в заголовке X-Admin-Password.
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	var req blockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DisplayName == "" {
		api.WriteError(w, http.StatusBadRequest, "bad_request", "требуется display_name")
		return
	}

	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}

	password := r.Header.Get("X-Admin-Password")
	if err := h.service.Block(r.Context(), ip, password, req.DisplayName, req.Reason); err != nil {
		api.RespondError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"display_name": req.DisplayName,
		"status":       "blocked",
	})
}
