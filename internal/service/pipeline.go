package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pribylovaa/go-travel-warnings/internal/metrics"
	"github.com/pribylovaa/go-travel-warnings/internal/models"
	"github.com/pribylovaa/go-travel-warnings/pkg/log"
)

const runKey = "run"

// cancelGrace — сколько Shutdown ждёт отменённый прогон после истечения своего ctx.
const cancelGrace = 2 * time.Second

// RunOnce выполняет один прогон конвейера.
//
// Порядок:
//  1. скрапинг (ошибка — прогон прерван, в хранилище ничего не меняется, ErrScrapeFailed);
//  2. публикация артефакта (ошибка логируется, прогон продолжается);
//  3. ApplyBatch по плоскому списку;
//  4. после барьера пакета параллельно: Reap по каждому источнику пакета и NotifyAffected по вставленным;
//  5. сброс кэша.
//
// Прогон ограничен cfg.Timeouts.Run.
func (s *Service) RunOnce(ctx context.Context) (models.RunReport, error) {
	const op = "service/pipeline/RunOnce"

	start := time.Now()

	if s.cfg.Timeouts.Run > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeouts.Run)
		defer cancel()
	}

	lg := log.From(ctx)
	lg.Info("run_started", slog.String("op", op))

	var report models.RunReport
	finish := func(result string) {
		report.Duration = time.Since(start)
		metrics.Runs.WithLabelValues(result).Inc()
		metrics.RunDuration.Observe(report.Duration.Seconds())
	}

	grouped, err := s.scraper.Scrape(ctx)
	if err != nil {
		finish("scrape_failed")
		lg.Error("run_scrape_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return report, fmt.Errorf("%s: %w: %w", op, ErrScrapeFailed, err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, grouped); err != nil {
			lg.Warn("artifact_publish_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	flat := grouped.Flatten()
	report.Scraped = len(flat)

	batch, err := s.ApplyBatch(ctx, flat)
	if err != nil {
		finish("failed")
		lg.Error("run_batch_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return report, fmt.Errorf("%s: apply batch: %w", op, err)
	}

	report.BatchUUID = batch.BatchUUID
	report.Inserted = len(batch.Inserted)
	report.Updated = len(batch.Updated)
	report.Failed = batch.Failed

	if batch.BatchUUID == "" {
		finish("empty")
		lg.Info("run_completed",
			slog.String("op", op),
			slog.Int("scraped", report.Scraped),
			slog.Duration("duration", report.Duration),
		)

		return report, nil
	}

	ctx = log.With(ctx, slog.String("batch_uuid", batch.BatchUUID))
	lg = log.From(ctx)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		notify models.NotifyResult
	)

	for _, src := range batch.Sources {
		wg.Add(1)
		go func() {
			defer wg.Done()

			n, err := s.Reap(ctx, src, batch.BatchUUID)
			if err != nil {
				return
			}

			mu.Lock()
			report.Reaped += n
			mu.Unlock()
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		notify = s.NotifyAffected(ctx, batch.Inserted)
	}()

	wg.Wait()

	report.Requests = notify.Requests
	report.Sent = notify.Sent
	report.SendFailed = notify.Failed

	if s.invalidate != nil {
		s.invalidate()
	}

	finish("ok")

	lg.Info("run_completed",
		slog.String("op", op),
		slog.Int("scraped", report.Scraped),
		slog.Int("inserted", report.Inserted),
		slog.Int("updated", report.Updated),
		slog.Int("failed", report.Failed),
		slog.Int64("reaped", report.Reaped),
		slog.Int("sent", report.Sent),
		slog.Int("send_failed", report.SendFailed),
		slog.Duration("duration", report.Duration),
	)

	return report, nil
}

// TriggerRun запускает прогон, объединяя конкурентные вызовы в один: пока прогон
// идёт, остальные вызывающие ждут его результат. Сам прогон не зависит от отмены
// ctx конкретного вызывающего; отмена освобождает только его. Прогон прерывает
// только Shutdown; после него TriggerRun возвращает ErrStopped.
func (s *Service) TriggerRun(ctx context.Context) (models.RunReport, error) {
	const op = "service/pipeline/TriggerRun"

	ch := s.runs.DoChan(runKey, func() (any, error) {
		runCtx, done, err := s.beginRun(ctx)
		if err != nil {
			return models.RunReport{}, err
		}
		defer done()

		report, err := s.RunOnce(runCtx)
		if err != nil && s.stopCtx.Err() != nil {
			return report, fmt.Errorf("%s: %w: %w", op, ErrStopped, err)
		}

		return report, err
	})

	select {
	case <-ctx.Done():
		return models.RunReport{}, fmt.Errorf("%s: %w", op, ctx.Err())
	case res := <-ch:
		report, _ := res.Val.(models.RunReport)
		if res.Shared {
			log.From(ctx).Debug("run_coalesced", slog.String("op", op))
		}

		return report, res.Err
	}
}

// beginRun регистрирует прогон в полёте и возвращает его контекст: значения
// (логгер) берутся из ctx, отмена приходит только от Shutdown.
func (s *Service) beginRun(ctx context.Context) (context.Context, func(), error) {
	const op = "service/pipeline/beginRun"

	s.runsMu.Lock()
	defer s.runsMu.Unlock()

	if s.closed {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrStopped)
	}
	s.inflight.Add(1)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(s.stopCtx, cancel)

	return runCtx, func() {
		stop()
		cancel()
		s.inflight.Done()
	}, nil
}

// Shutdown запрещает новые прогоны и ждёт завершения текущего. Если ctx
// истекает раньше, прогон отменяется (удаление устаревших и рассылка после
// отменённого пакета не выполняются), Shutdown ждёт его ещё не дольше cancelGrace
// и возвращает ошибку ctx.
func (s *Service) Shutdown(ctx context.Context) error {
	const op = "service/pipeline/Shutdown"

	s.runsMu.Lock()
	s.closed = true
	s.runsMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.stopRuns()
		return nil
	case <-ctx.Done():
		s.stopRuns()
		log.From(ctx).Warn("run_canceled_on_shutdown", slog.String("op", op))

		select {
		case <-done:
		case <-time.After(cancelGrace):
			log.From(ctx).Error("run_stop_timeout", slog.String("op", op))
		}

		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}
