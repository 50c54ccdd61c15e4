package storage

//go:generate mockgen -source=./storage.go -destination=../../mocks/storage.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/go-travel-warnings/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
)

// WarningsStorage описывает операции над предупреждениями.
type WarningsStorage interface {
	// UpsertWarning сохраняет предупреждение по естественному ключу
	// (countryCode, textOverview, colorClass, source): при совпадении запись
	// заменяется целиком (включая batchUUID), иначе вставляется новая.
	// inserted == true, если совпадения не было.
	UpsertWarning(ctx context.Context, w models.Warning) (inserted bool, err error)

	// DeleteStaleWarnings удаляет все предупреждения source, чей batchUUID != batchUUID.
	// Возвращает число удалённых записей. Предупреждения других источников не трогает.
	DeleteStaleWarnings(ctx context.Context, source, batchUUID string) (int64, error)

	// ListWarnings возвращает все предупреждения, отсортированные по countryCode, затем startDate DESC.
	ListWarnings(ctx context.Context) ([]models.Warning, error)

	// WarningsByCountry возвращает предупреждения одной страны (startDate DESC).
	WarningsByCountry(ctx context.Context, countryCode string) ([]models.Warning, error)
}

// RequestsStorage — чтение заявок (внешняя сущность, конвейер её не меняет).
type RequestsStorage interface {
	// FindAffectedRequests возвращает заявки, у которых есть хотя бы один отрезок
	// с countryCode == countryCode и startDate >= since.
	FindAffectedRequests(ctx context.Context, countryCode string, since time.Time) ([]models.Request, error)
}

// UsersStorage — чтение пользователей (внешняя сущность).
type UsersStorage interface {
	// UserByID возвращает пользователя по идентификатору.
	// Если запись не найдена (или id некорректен) — ErrNotFound.
	UserByID(ctx context.Context, id string) (*models.User, error)
}

// Storage объединяет все операции хранилища, нужные сервису.
type Storage interface {
	WarningsStorage
	RequestsStorage
	UsersStorage

	// Ping проверяет доступность хранилища (для /healthz).
	Ping(ctx context.Context) error

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
