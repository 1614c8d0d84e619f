package handler

import (
	"net/http"

	"doctortravel/internal/bookings/service"
	"doctortravel/internal/identity"
	httputil "doctortravel/pkg/http"
	"doctortravel/pkg/logger"
	"doctortravel/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// SessionUsers resolves the signed-in user of a session. The user is nil for
// a session nobody has signed into.
type SessionUsers interface {
	SessionUser(sessionID string) (*identity.User, error)
}

type BookingHandler struct {
	service  service.BookingService
	sessions SessionUsers
	log      *logger.Logger
}

func NewBookingHandler(service service.BookingService, sessions SessionUsers, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:  service,
		sessions: sessions,
		log:      log,
	}
}

func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.sessions.SessionUser(ps.ByName("sid"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Submit", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Submit", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	confirmation, err := h.service.Submit(r.Context(), user, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Submit", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, confirmation); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/sessions/:sid/bookings", h.Submit)
}
