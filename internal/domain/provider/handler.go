package provider

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fonthenet/sihadz-api/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetSchedule serves the weekly hours and blackout dates the storefront
// renders slot pickers from.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid provider id")
		return
	}

	sched, err := h.svc.GetSchedule(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "provider not found")
			return
		}
		response.InternalError(w, "")
		return
	}

	response.OK(w, sched)
}

// Routes returns the public provider router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}/schedule", h.GetSchedule)
	return r
}
