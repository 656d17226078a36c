package adaptor

import (
	"net/http"

	"event-booking/internal/usecase"
	"event-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WaitlistHandler struct {
	service usecase.WaitlistService
	log     *zap.Logger
}

func NewWaitlistHandler(service usecase.WaitlistService, log *zap.Logger) *WaitlistHandler {
	return &WaitlistHandler{
		service: service,
		log:     log.With(zap.String("handler", "waitlist")),
	}
}

// Join handles POST /api/events/{id}/waitlist (protected)
func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	entry, err := h.service.Join(r.Context(), userID.String(), eventID)
	if err != nil {
		respondServiceError(w, h.log, err, "join waitlist")
		return
	}

	utils.ResponseCreated(w, "success", entry)
}

// Leave handles DELETE /api/events/{id}/waitlist (protected)
func (h *WaitlistHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	if err := h.service.Leave(r.Context(), userID.String(), eventID); err != nil {
		respondServiceError(w, h.log, err, "leave waitlist")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// Position handles GET /api/events/{id}/waitlist/position (protected)
func (h *WaitlistHandler) Position(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	eventID := chi.URLParam(r, "id")
	if eventID == "" {
		utils.ResponseBadRequest(w, "Event ID is required", nil)
		return
	}

	entry, err := h.service.PositionOf(r.Context(), userID.String(), eventID)
	if err != nil {
		respondServiceError(w, h.log, err, "waitlist position")
		return
	}

	utils.ResponseSuccess(w, "success", entry)
}
