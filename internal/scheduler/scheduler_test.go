package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-travel-warnings/internal/config"
	"github.com/pribylovaa/go-travel-warnings/internal/models"
)

// farSpec — расписание, которое не сработает во время теста.
const farSpec = "0 0 1 1 *"

// fakeRunner считает прогоны; block задерживает каждый прогон до закрытия.
type fakeRunner struct {
	calls atomic.Int32
	block chan struct{}
	err   error
}

func (f *fakeRunner) TriggerRun(ctx context.Context) (models.RunReport, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return models.RunReport{}, ctx.Err()
		}
	}
	return models.RunReport{BatchUUID: "b"}, f.err
}

func silent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestNew_Validation — пустой runner и битое расписание отклоняются.
func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := New(nil, config.SchedulerConfig{Spec: farSpec}, silent())
	require.Error(t, err)

	_, err = New(&fakeRunner{}, config.SchedulerConfig{Spec: "every tuesday"}, silent())
	require.Error(t, err)

	s, err := New(&fakeRunner{}, config.SchedulerConfig{Spec: farSpec}, nil)
	require.NoError(t, err)
	require.NotNil(t, s)
}

// TestRun_RunOnStart_FiresOnce — run_on_start запускает один прогон сразу.
func TestRun_RunOnStart_FiresOnce(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	s, err := New(r, config.SchedulerConfig{Spec: farSpec, RunOnStart: true}, silent())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.EqualValues(t, 1, r.calls.Load())
}

// TestRun_NoRunOnStart_Idle — без run_on_start до срабатывания расписания прогонов нет.
func TestRun_NoRunOnStart_Idle(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	s, err := New(r, config.SchedulerConfig{Spec: farSpec}, silent())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, s.Run(ctx))
	require.Zero(t, r.calls.Load())
}

// TestRun_EverySecond — задание срабатывает по расписанию.
func TestRun_EverySecond(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{err: errors.New("scrape failed")}
	s, err := New(r, config.SchedulerConfig{Spec: "@every 1s"}, silent())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

// TestSkipIfStillRunning — перекрывающийся запуск пропускается.
func TestSkipIfStillRunning(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{block: make(chan struct{})}
	s, err := New(r, config.SchedulerConfig{Spec: farSpec}, silent())
	require.NoError(t, err)

	ctx := context.Background()
	id := s.cron.Schedule(s.schedule, cron.FuncJob(func() { s.runJob(ctx) }))
	job := s.cron.Entry(id).WrappedJob

	first := make(chan struct{})
	go func() {
		job.Run()
		close(first)
	}()
	require.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	// Второй запуск, пока первый идёт, пропускается и сразу возвращается.
	job.Run()
	require.EqualValues(t, 1, r.calls.Load())

	close(r.block)
	<-first
}

// TestCronLogger — адаптер принимает пары ключ-значение cron.
func TestCronLogger_Error(t *testing.T) {
	t.Parallel()

	cl := cronLogger{lg: silent()}
	cl.Info("start", "k", "v")
	cl.Error(errors.New("boom"), "panic", "stack", "...")
}
