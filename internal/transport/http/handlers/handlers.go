package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/go-travel-warnings/internal/models"
)

// Service — операции сервиса, доступные через HTTP.
type Service interface {
	WarningsForCountry(ctx context.Context, code string) ([]models.Warning, error)
	ResolveCountries(text string) []string
	TriggerRun(ctx context.Context) (models.RunReport, error)
}

// Snapshot — источник полного снимка предупреждений (кэш).
type Snapshot interface {
	Get(ctx context.Context) (models.WarningsByCountry, error)
}

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	svc      Service
	snapshot Snapshot
	ready    func() bool
}

// New собирает хендлеры. ready == nil означает «всегда готов».
func New(svc Service, snapshot Snapshot, ready func() bool) *Handlers {
	if ready == nil {
		ready = func() bool { return true }
	}

	return &Handlers{svc: svc, snapshot: snapshot, ready: ready}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
