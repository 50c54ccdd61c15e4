package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/go-travel-warnings/internal/metrics"
	"github.com/pribylovaa/go-travel-warnings/pkg/log"
)

// Reap удаляет предупреждения source, не подтверждённые прогоном batchUUID.
// Вызывается строго после барьера ApplyBatch; другие источники не затрагиваются.
// batch_uuid в логах берётся из логгера контекста (его привязывает RunOnce).
//
// Ошибки:
// - ErrInvalidArgument — пустой source или batchUUID (иначе удалилась бы вся коллекция источника);
// - прочие ошибки стораджа — обёрнутые и прокинуты наверх.
func (s *Service) Reap(ctx context.Context, source, batchUUID string) (int64, error) {
	const op = "service/reaper/Reap"

	if source == "" || batchUUID == "" {
		return 0, fmt.Errorf("%s: %w: empty source or batch id", op, ErrInvalidArgument)
	}

	ctx = log.With(ctx, slog.String("source", source))
	lg := log.From(ctx)

	n, err := s.storage.DeleteStaleWarnings(ctx, source, batchUUID)
	if err != nil {
		lg.Error("reap_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return 0, fmt.Errorf("%s: delete stale: %w", op, err)
	}

	metrics.Reaped.Add(float64(n))

	lg.Info("reap_done",
		slog.String("op", op),
		slog.Int64("deleted", n),
	)

	return n, nil
}
