package handlers

import "net/http"

// Livez — процесс жив.
func (h *Handlers) Livez(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Healthz — процесс готов обслуживать запросы (хранилище подключено).
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	if h.ready() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	}

	http.Error(w, "not ready", http.StatusServiceUnavailable)
}
