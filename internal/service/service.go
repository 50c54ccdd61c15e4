// service содержит бизнес-логику конвейера предупреждений: пакетный upsert,
// удаление устаревших записей, рассылку и чтение.
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/pribylovaa/go-travel-warnings/internal/config"
	"github.com/pribylovaa/go-travel-warnings/internal/countries"
	"github.com/pribylovaa/go-travel-warnings/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные аргументы.
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — сущность отсутствует.
	// Транспорт: 404.
	ErrNotFound = errors.New("not found")
	// ErrScrapeFailed — не удалось получить индексную страницу; прогон прерван, ничего не сохранено.
	// Транспорт: 502.
	ErrScrapeFailed = errors.New("scrape failed")
	// ErrStopped — сервис остановлен (Shutdown), новые прогоны не запускаются.
	// Транспорт: 503.
	ErrStopped = errors.New("service stopped")
)

// Service — описывает бизнес-логику сервиса предупреждений.
type Service struct {
	storage  storage.Storage
	scraper  Scraper
	sender   Sender
	resolver *countries.Resolver
	cfg      config.Config

	publisher  Publisher
	invalidate func()
	newBatchID func() (string, error)

	runs singleflight.Group

	// Прогоны TriggerRun отвязаны от вызывающих; их останавливает только Shutdown.
	runsMu   sync.Mutex
	closed   bool
	inflight sync.WaitGroup
	stopCtx  context.Context
	stopRuns context.CancelFunc
}

// Option настраивает необязательные зависимости Service.
type Option func(*Service)

// WithPublisher задаёт публикацию артефакта warnings.json после скрапинга.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithInvalidate задаёт хук, вызываемый после каждого завершённого прогона (сброс кэша).
func WithInvalidate(fn func()) Option {
	return func(s *Service) { s.invalidate = fn }
}

// WithBatchIDGenerator подменяет генератор идентификаторов прогона.
func WithBatchIDGenerator(fn func() (string, error)) Option {
	return func(s *Service) { s.newBatchID = fn }
}

// New создает новый экземпляр Service.
func New(st storage.Storage, scraper Scraper, sender Sender, resolver *countries.Resolver, cfg config.Config, opts ...Option) *Service {
	s := &Service{
		storage:    st,
		scraper:    scraper,
		sender:     sender,
		resolver:   resolver,
		cfg:        cfg,
		newBatchID: newUUIDv7,
	}
	s.stopCtx, s.stopRuns = context.WithCancel(context.Background())

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// newUUIDv7 — упорядоченный по времени идентификатор прогона.
func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}
