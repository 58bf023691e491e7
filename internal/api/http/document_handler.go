package http

import (
	"net/http"

	"rentalfleet-backend/internal/service"
)

// DocumentHandler serves on-demand invoice and agreement generation.
type DocumentHandler struct {
	documents service.DocumentService
}

func NewDocumentHandler(documents service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

func (h *DocumentHandler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		RespondError(w, r, err)
		return
	}
	inv, err := h.documents.GenerateInvoice(r.Context(), p.TenantID, bookingID)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, inv)
}

func (h *DocumentHandler) GenerateAgreement(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		RespondError(w, r, err)
		return
	}
	ag, err := h.documents.GenerateAgreement(r.Context(), p.TenantID, bookingID)
	if err != nil {
		RespondError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, ag)
}
