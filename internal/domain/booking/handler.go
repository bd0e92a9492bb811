package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fonthenet/sihadz-api/internal/domain/provider"
	"github.com/fonthenet/sihadz-api/internal/domain/wallet"
	"github.com/fonthenet/sihadz-api/internal/middleware"
	"github.com/fonthenet/sihadz-api/internal/pkg/logger"
	"github.com/fonthenet/sihadz-api/internal/pkg/response"
	"github.com/fonthenet/sihadz-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) CreateWithWallet(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	if callerID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req CreateWithWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ErrorWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", fieldErrors)
		return
	}

	resp, err := h.svc.CreateWithWallet(r.Context(), callerID, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	if callerID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	b, err := h.svc.Get(r.Context(), callerID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, b)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.GetUserID(r.Context())
	if callerID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	resp, err := h.svc.Cancel(r.Context(), callerID, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var insufficient *wallet.InsufficientFundsError

	switch {
	case errors.Is(err, ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrDuplicateSlot):
		response.Conflict(w, err.Error())
	case errors.As(err, &insufficient):
		response.ErrorWithDetails(w, http.StatusBadRequest, "INSUFFICIENT_FUNDS", insufficient.Error(), map[string]string{
			"balance":  strconv.FormatInt(insufficient.Balance, 10),
			"required": strconv.FormatInt(insufficient.Required, 10),
		})
	case errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidTime),
		errors.Is(err, ErrInvalidProvider),
		errors.Is(err, ErrCreateFailed),
		errors.Is(err, ErrAlreadyCancelled),
		errors.Is(err, provider.ErrDateUnavailable),
		errors.Is(err, provider.ErrDayClosed),
		errors.Is(err, provider.ErrOutsideHours):
		response.BadRequest(w, err.Error())
	default:
		logger.FromContext(r.Context()).Error().Err(err).Msg("booking request failed")
		response.InternalError(w, err.Error())
	}
}
