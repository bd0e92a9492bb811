package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the appointments router.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/wallet", h.CreateWithWallet)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/cancel", h.Cancel)
	return r
}
