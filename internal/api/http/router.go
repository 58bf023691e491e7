package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentalfleet-backend/internal/security"
	"rentalfleet-backend/internal/service"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Bookings      *BookingHandler
	Documents     *DocumentHandler
	Notifications *NotificationHandler
	Stats         *StatsHandler
	WS            *WSHandler
	Tenants       service.TenantService
}

// NewRouter wires the REST and websocket surface. Every route under /api
// requires a verified bearer token.
func NewRouter(h Handlers, tokens *security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("/bookings", h.Bookings.Create).Methods(http.MethodPost)
	api.HandleFunc("/bookings", h.Bookings.List).Methods(http.MethodGet)
	api.HandleFunc("/bookings/confirm", h.Bookings.Confirm).Methods(http.MethodPost)
	api.HandleFunc("/bookings/decline", h.Bookings.Decline).Methods(http.MethodPost)
	api.HandleFunc("/bookings/cancel", h.Bookings.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/bookings/start", h.Bookings.Start).Methods(http.MethodPost)
	api.HandleFunc("/bookings/end", h.Bookings.End).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}", h.Bookings.Get).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", h.Bookings.Update).Methods(http.MethodPut)

	api.HandleFunc("/documents/invoice/{id}", h.Documents.GenerateInvoice).Methods(http.MethodPost)
	api.HandleFunc("/documents/agreement/{id}", h.Documents.GenerateAgreement).Methods(http.MethodPost)

	api.HandleFunc("/notifications", h.Notifications.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", h.Notifications.MarkRead).Methods(http.MethodPost)

	api.HandleFunc("/stats/monthly", h.Stats.Monthly).Methods(http.MethodGet)
	api.HandleFunc("/stats/yearly", h.Stats.Yearly).Methods(http.MethodGet)

	api.HandleFunc("/tenant", func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			Problem(w, http.StatusUnauthorized, "Unauthorized", "")
			return
		}
		tenant, err := h.Tenants.Resolve(r.Context(), p.TenantID)
		if err != nil {
			RespondError(w, r, err)
			return
		}
		JSON(w, http.StatusOK, tenant)
	}).Methods(http.MethodGet)

	api.HandleFunc("/ws", h.WS.Connect).Methods(http.MethodGet)

	return r
}
