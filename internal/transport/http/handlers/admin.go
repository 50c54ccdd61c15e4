package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-travel-warnings/internal/transport/http/errors"
)

// TriggerRun запускает прогон конвейера (конкурентные запросы объединяются)
// и возвращает его сводку.
func (h *Handlers) TriggerRun(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.TriggerRun(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
