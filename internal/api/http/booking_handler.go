package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/security"
	"rentalfleet-backend/internal/service"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var in service.CreateBookingInput
	if err := DecodeJSON(r, &in); err != nil {
		RespondError(w, r, err)
		return
	}
	detail, err := h.bookings.Create(r.Context(), p, in)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	JSON(w, http.StatusCreated, detail)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var in service.CreateBookingInput
	if err := DecodeJSON(r, &in); err != nil {
		RespondError(w, r, err)
		return
	}
	detail, err := h.bookings.Update(r.Context(), p, id, in)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, detail)
}

func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var in service.ConfirmBookingInput
	if err := DecodeJSON(r, &in); err != nil {
		RespondError(w, r, err)
		return
	}
	booking, err := h.bookings.Confirm(r.Context(), p, in)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.bookings.Decline)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, h.bookings.Cancel)
}

func (h *BookingHandler) Start(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var in service.StartBookingInput
	if err := DecodeJSON(r, &in); err != nil {
		RespondError(w, r, err)
		return
	}
	booking, err := h.bookings.Start(r.Context(), p, in)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) End(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var in service.EndBookingInput
	if err := DecodeJSON(r, &in); err != nil {
		RespondError(w, r, err)
		return
	}
	booking, err := h.bookings.End(r.Context(), p, in)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	detail, err := h.bookings.Get(r.Context(), p, id)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, detail)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	bookings, total, err := h.bookings.List(r.Context(), p, q.Get("status"), page, pageSize)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"bookings": bookings,
		"total":    total,
	})
}

func (h *BookingHandler) action(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, p security.Principal, in service.BookingActionInput) (*domain.Booking, error)) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var in service.BookingActionInput
	if err := DecodeJSON(r, &in); err != nil {
		RespondError(w, r, err)
		return
	}
	booking, err := fn(r.Context(), p, in)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, booking)
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidation(name, "must be a valid UUID")
	}
	return id, nil
}
