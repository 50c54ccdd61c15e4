package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/pribylovaa/go-travel-warnings/internal/metrics"
	"github.com/pribylovaa/go-travel-warnings/internal/models"
	"github.com/pribylovaa/go-travel-warnings/pkg/log"
)

type upsertOutcome int

const (
	outcomeFailed upsertOutcome = iota
	outcomeInserted
	outcomeUpdated
)

// ApplyBatch сохраняет все предупреждения прогона под одним свежим batch id.
//
// Особенности:
//   - пустой пакет — no-op: пустой результат без batch id;
//   - upsert выполняются конкурентно (не более cfg.Batch.Concurrency), результат
//     собирается после барьера errgroup и не зависит от порядка завершения;
//   - ошибка отдельной записи логируется и считается в Failed, пакет продолжается;
//   - отмена ctx во время пакета возвращает ошибку: удаление устаревших и рассылка не выполняются.
func (s *Service) ApplyBatch(ctx context.Context, warnings []models.Warning) (models.BatchResult, error) {
	const op = "service/batch/ApplyBatch"

	lg := log.From(ctx)

	if len(warnings) == 0 {
		lg.Info("batch_empty", slog.String("op", op))
		return models.BatchResult{}, nil
	}

	batchID, err := s.newBatchID()
	if err != nil {
		return models.BatchResult{}, fmt.Errorf("%s: new batch id: %w", op, err)
	}

	ctx = log.With(ctx, slog.String("batch_uuid", batchID))
	lg = log.From(ctx)

	sources := make(map[string]struct{})
	stamped := make([]models.Warning, len(warnings))
	for i, w := range warnings {
		w.BatchUUID = batchID
		stamped[i] = w
		sources[w.Source] = struct{}{}
	}

	outcomes := make([]upsertOutcome, len(stamped))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency())

	for i := range stamped {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			inserted, err := s.storage.UpsertWarning(gctx, stamped[i])
			if err != nil {
				lg.Warn("upsert_failed",
					slog.String("op", op),
					slog.String("country", stamped[i].CountryCode),
					slog.String("err", err.Error()),
				)
				return nil
			}

			if inserted {
				outcomes[i] = outcomeInserted
			} else {
				outcomes[i] = outcomeUpdated
			}

			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return models.BatchResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res := models.BatchResult{BatchUUID: batchID}
	for i, o := range outcomes {
		switch o {
		case outcomeInserted:
			res.Inserted = append(res.Inserted, stamped[i])
		case outcomeUpdated:
			res.Updated = append(res.Updated, stamped[i])
		default:
			res.Failed++
		}
	}

	for src := range sources {
		res.Sources = append(res.Sources, src)
	}
	sort.Strings(res.Sources)

	metrics.Upserts.WithLabelValues("inserted").Add(float64(len(res.Inserted)))
	metrics.Upserts.WithLabelValues("updated").Add(float64(len(res.Updated)))
	metrics.Upserts.WithLabelValues("failed").Add(float64(res.Failed))

	lg.Info("batch_applied",
		slog.String("op", op),
		slog.Int("total", len(stamped)),
		slog.Int("inserted", len(res.Inserted)),
		slog.Int("updated", len(res.Updated)),
		slog.Int("failed", res.Failed),
	)

	return res, nil
}

func (s *Service) batchConcurrency() int {
	if s.cfg.Batch.Concurrency > 0 {
		return s.cfg.Batch.Concurrency
	}

	return 1
}
