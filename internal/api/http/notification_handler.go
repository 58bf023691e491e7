package http

import (
	"net/http"
	"strconv"

	"rentalfleet-backend/internal/service"
)

// NotificationHandler serves the operator notification feed.
type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	items, total, err := h.notifications.List(r.Context(), p, page, pageSize)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"notifications": items,
		"total":         total,
	})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		RespondError(w, r, err)
		return
	}
	if err := h.notifications.MarkRead(r.Context(), p, id); err != nil {
		RespondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
