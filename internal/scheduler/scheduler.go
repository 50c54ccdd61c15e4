// scheduler запускает прогоны конвейера по cron-расписанию.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pribylovaa/go-travel-warnings/internal/config"
	"github.com/pribylovaa/go-travel-warnings/internal/models"
	"github.com/pribylovaa/go-travel-warnings/internal/service"
	"github.com/pribylovaa/go-travel-warnings/pkg/log"
)

// Runner запускает один прогон конвейера.
type Runner interface {
	TriggerRun(ctx context.Context) (models.RunReport, error)
}

// Scheduler — обёртка над cron: одно задание, перекрывающиеся запуски пропускаются,
// паника в задании не роняет процесс.
type Scheduler struct {
	cron       *cron.Cron
	schedule   cron.Schedule
	runner     Runner
	runOnStart bool
	lg         *slog.Logger
}

// New проверяет расписание и готовит cron в локальной таймзоне сервера.
func New(runner Runner, cfg config.SchedulerConfig, lg *slog.Logger) (*Scheduler, error) {
	const op = "scheduler/scheduler/New"

	if runner == nil {
		return nil, fmt.Errorf("%s: nil runner", op)
	}

	if lg == nil {
		lg = slog.Default()
	}

	sched, err := cron.ParseStandard(cfg.Spec)
	if err != nil {
		return nil, fmt.Errorf("%s: parse spec %q: %w", op, cfg.Spec, err)
	}

	cl := cronLogger{lg: lg}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.Local),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		schedule:   sched,
		runner:     runner,
		runOnStart: cfg.RunOnStart,
		lg:         lg,
	}, nil
}

// Run регистрирует задание и блокируется до отмены ctx; затем ждёт
// завершения запущенного задания.
func (s *Scheduler) Run(ctx context.Context) error {
	const op = "scheduler/scheduler/Run"

	ctx = log.Into(ctx, s.lg)

	id := s.cron.Schedule(s.schedule, cron.FuncJob(func() { s.runJob(ctx) }))

	if s.runOnStart {
		// Через тот же экземпляр задания, чтобы действовал SkipIfStillRunning.
		go s.cron.Entry(id).WrappedJob.Run()
	}

	s.cron.Start()
	s.lg.Info("scheduler_started",
		slog.String("op", op),
		slog.Time("next", s.cron.Entry(id).Next),
		slog.Bool("run_on_start", s.runOnStart),
	)

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()

	s.lg.Info("scheduler_stopped", slog.String("op", op))

	return nil
}

func (s *Scheduler) runJob(ctx context.Context) {
	const op = "scheduler/scheduler/runJob"

	if ctx.Err() != nil {
		return
	}

	lg := log.From(ctx)

	report, err := s.runner.TriggerRun(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, service.ErrStopped) {
			return
		}

		lg.Error("scheduled_run_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return
	}

	lg.Info("scheduled_run_done",
		slog.String("op", op),
		slog.String("batch_uuid", report.BatchUUID),
		slog.Int("inserted", report.Inserted),
		slog.Int64("reaped", report.Reaped),
	)
}

// cronLogger направляет служебные сообщения cron в slog.
type cronLogger struct {
	lg *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.lg.Debug("cron_"+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.lg.Error("cron_"+msg, append(keysAndValues, "err", err.Error())...)
}

var _ Runner = (*service.Service)(nil)
