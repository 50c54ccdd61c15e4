package service

//go:generate mockgen -source=./ports.go -destination=../../mocks/service.go -package=mocks

import (
	"context"

	"github.com/pribylovaa/go-travel-warnings/internal/models"
)

// Scraper — источник предупреждений за один прогон.
type Scraper interface {
	Scrape(ctx context.Context) (models.WarningsByCountry, error)
}

// Sender отправляет одно SMS.
type Sender interface {
	Send(ctx context.Context, phone, text string) error
}

// Publisher публикует снимок предупреждений (артефакт warnings.json).
type Publisher interface {
	Publish(ctx context.Context, warnings models.WarningsByCountry) error
}
