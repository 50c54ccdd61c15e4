package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-travel-warnings/internal/models"
	apierrors "github.com/pribylovaa/go-travel-warnings/internal/transport/http/errors"
)

// ResolveResponse — ответ GET /countries/resolve.
type ResolveResponse struct {
	Query string   `json:"query"`
	Codes []string `json:"codes"`
}

// ListWarnings отдаёт все предупреждения, сгруппированные по стране (из кэша).
// Тот же ответ отдаётся по /data/warnings.json.
func (h *Handlers) ListWarnings(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshot.Get(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if snap == nil {
		snap = models.WarningsByCountry{}
	}

	writeJSON(w, http.StatusOK, snap)
}

func (h *Handlers) WarningsForCountry(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.WarningsForCountry(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) ResolveCountries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	writeJSON(w, http.StatusOK, ResolveResponse{Query: q, Codes: h.svc.ResolveCountries(q)})
}
