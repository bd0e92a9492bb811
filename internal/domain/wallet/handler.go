package wallet

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fonthenet/sihadz-api/internal/middleware"
	"github.com/fonthenet/sihadz-api/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type topUpRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())
	if ownerID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	balance, err := h.svc.GetBalance(r.Context(), ownerID)
	if err != nil {
		response.InternalError(w, "")
		return
	}

	response.OK(w, map[string]interface{}{"balance": balance})
}

func (h *Handler) TopUp(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())
	if ownerID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req topUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	balance, err := h.svc.TopUp(r.Context(), ownerID, req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			response.BadRequest(w, "amount must be greater than zero")
			return
		}
		response.InternalError(w, "")
		return
	}

	response.OK(w, map[string]interface{}{"balance": balance})
}

func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())
	if ownerID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	rows, err := h.svc.ListTransactions(r.Context(), ownerID, 50)
	if err != nil {
		response.InternalError(w, "")
		return
	}

	response.OK(w, map[string]interface{}{"transactions": rows})
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/balance", h.Balance)
	r.Post("/topup", h.TopUp)
	r.Get("/transactions", h.Transactions)
	return r
}
