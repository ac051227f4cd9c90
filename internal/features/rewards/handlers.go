// Package rewards — handlers.go содержит HTTP-обработчики леджера.
package rewards

import (
	"net/http"

	"serotonyl.ru/coin-mine/internal/api"
)

// Handler обрабатывает HTTP-запросы наград.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик наград.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Claim обрабатывает POST /claim.
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Claim(r.Context(), api.AccountID(r))
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"balance": result.Balance,
		"message": result.Message,
	})
}

// ViewAd обрабатывает POST /ads/view.
func (h *Handler) ViewAd(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ViewAd(r.Context(), api.AccountID(r))
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"balance":       result.Balance,
		"ad_view_count": result.ViewCount,
	})
}

// SkipAd обрабатывает POST /ads/skip.
func (h *Handler) SkipAd(w http.ResponseWriter, r *http.Request) {
	skips, err := h.service.SkipAd(r.Context(), api.AccountID(r))
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"ad_skip_count": skips,
	})
}
