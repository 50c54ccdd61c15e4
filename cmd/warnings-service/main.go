package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pribylovaa/go-travel-warnings/internal/artifact"
	"github.com/pribylovaa/go-travel-warnings/internal/cache"
	"github.com/pribylovaa/go-travel-warnings/internal/config"
	"github.com/pribylovaa/go-travel-warnings/internal/countries"
	"github.com/pribylovaa/go-travel-warnings/internal/models"
	"github.com/pribylovaa/go-travel-warnings/internal/scheduler"
	"github.com/pribylovaa/go-travel-warnings/internal/scraper"
	"github.com/pribylovaa/go-travel-warnings/internal/service"
	"github.com/pribylovaa/go-travel-warnings/internal/sms"
	twmongo "github.com/pribylovaa/go-travel-warnings/internal/storage/mongo"
	httptransport "github.com/pribylovaa/go-travel-warnings/internal/transport/http"
	logctx "github.com/pribylovaa/go-travel-warnings/pkg/log"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var (
		configPath string
		envFile    string
		once       bool
	)
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.StringVar(&envFile, "env-file", ".env", "path to .env file loaded before config (missing default file is ignored)")
	flag.BoolVar(&once, "once", false, "run the pipeline once and exit")
	flag.Parse()

	if err := loadEnvFile(envFile, flagPassed("env-file")); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting warnings-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	rootCtx = logctx.Into(rootCtx, log)

	dbCtx, dbCancel := context.WithTimeout(rootCtx, cfg.DB.ConnectTimeout)
	store, err := twmongo.New(dbCtx, cfg.DB)
	dbCancel()
	if err != nil {
		log.Error("mongo_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("mongo_connected")

	// Кэш читает через сервис, сервис сбрасывает кэш после прогона.
	var svc *service.Service
	warningsCache := cache.New(func(ctx context.Context) (models.WarningsByCountry, error) {
		return svc.ListWarnings(ctx)
	}, cfg.Timeouts.Service)

	svc, err = buildService(rootCtx, cfg, store, service.WithInvalidate(warningsCache.Invalidate))
	if err != nil {
		log.Error("service_init_failed", slog.String("err", err.Error()))
		rootCancel()
		_ = store.Close(context.Background())
		os.Exit(1)
	}

	if once {
		code := runOnce(rootCtx, svc)
		rootCancel()
		_ = store.Close(context.Background())
		os.Exit(code)
	}

	var ready int32 // 0 — not ready; 1 — ready
	httpAddr := cfg.HTTP.Addr()

	httpSrv := &http.Server{
		Addr: httpAddr,
		Handler: httptransport.NewRouter(svc, warningsCache, httptransport.Options{
			Logger:  log,
			Timeout: cfg.Timeouts.Service,
			Ready:   func() bool { return atomic.LoadInt32(&ready) == 1 },
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("http_listen_start", "addr", httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	schedDone := make(chan struct{})
	schedCtx, schedCancel := context.WithCancel(rootCtx)
	if cfg.Scheduler.Disabled {
		close(schedDone)
		log.Info("scheduler_disabled")
	} else {
		sched, err := scheduler.New(svc, cfg.Scheduler, log)
		if err != nil {
			log.Error("scheduler_init_failed", slog.String("err", err.Error()))
			schedCancel()
			rootCancel()
			_ = httpSrv.Shutdown(context.Background())
			_ = store.Close(context.Background())
			os.Exit(1)
		}

		go func() {
			defer close(schedDone)
			_ = sched.Run(schedCtx)
		}()
	}

	atomic.StoreInt32(&ready, 1)

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
		_ = httpSrv.Close()
	} else {
		log.Info("http_stopped")
	}

	schedCancel()
	select {
	case <-schedDone:
	case <-shutdownCtx.Done():
		log.Warn("scheduler_stop_timeout")
	}

	// Прогон в полёте отвязан от rootCtx: дожидаемся (или отменяем) его до закрытия хранилища.
	if err := svc.Shutdown(logctx.Into(shutdownCtx, log)); err != nil {
		log.Warn("service_shutdown_incomplete", slog.String("err", err.Error()))
	}
	shutdownCancel()

	rootCancel()
	_ = store.Close(context.Background())

	log.Info("service_stopped")
	os.Exit(0)
}

// buildService собирает конвейер: справочник стран -> скрапер -> SMS -> артефакт -> сервис.
func buildService(ctx context.Context, cfg *config.Config, store *twmongo.Mongo, opts ...service.Option) (*service.Service, error) {
	const op = "main/buildService"

	log := logctx.From(ctx)

	dir, err := countries.Load(cfg.Countries.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: countries: %w", op, err)
	}
	resolver := countries.NewResolver(dir)
	log.Info("countries_loaded", slog.Int("count", dir.Len()))

	sc, err := scraper.New(&http.Client{Timeout: cfg.Scraper.Timeout}, cfg.Scraper, resolver)
	if err != nil {
		return nil, fmt.Errorf("%s: scraper: %w", op, err)
	}

	var sender service.Sender = sms.Discard{}
	if cfg.SMS.Enabled() {
		tw, err := sms.NewTwilio(cfg.SMS)
		if err != nil {
			return nil, fmt.Errorf("%s: sms: %w", op, err)
		}
		sender = tw
		log.Info("sms_twilio_enabled")
	} else {
		log.Warn("sms_disabled_no_credentials")
	}

	pub, err := buildPublisher(ctx, cfg.Artifact)
	if err != nil {
		return nil, fmt.Errorf("%s: artifact: %w", op, err)
	}
	if pub != nil {
		opts = append(opts, service.WithPublisher(pub))
	}

	return service.New(store, sc, sender, resolver, *cfg, opts...), nil
}

// buildPublisher возвращает приёмник(и) артефакта по artifact.kind; nil — публикация выключена.
func buildPublisher(ctx context.Context, cfg config.ArtifactConfig) (service.Publisher, error) {
	newS3 := func() (*artifact.S3, error) {
		s3ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return artifact.NewS3(s3ctx, cfg.S3)
	}

	switch cfg.Kind {
	case config.ArtifactFile:
		return artifact.NewFile(cfg.Path)
	case config.ArtifactS3:
		return newS3()
	case config.ArtifactBoth:
		f, err := artifact.NewFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		s3, err := newS3()
		if err != nil {
			return nil, err
		}
		return artifact.Multi{f, s3}, nil
	default:
		return nil, nil
	}
}

// runOnce выполняет один прогон (режим --once); код выхода 1 при ошибке.
func runOnce(ctx context.Context, svc *service.Service) int {
	log := logctx.From(ctx)

	report, err := svc.RunOnce(ctx)
	if err != nil {
		log.Error("run_failed", slog.String("err", err.Error()))
		return 1
	}

	log.Info("run_once_done",
		slog.String("batch_uuid", report.BatchUUID),
		slog.Int("inserted", report.Inserted),
		slog.Int("updated", report.Updated),
		slog.Int64("reaped", report.Reaped),
		slog.Int("sent", report.Sent),
	)

	return 0
}

// loadEnvFile подгружает переменные из path; существующие переменные окружения
// не перезаписываются. Отсутствие файла — ошибка, только если путь задан явно.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", path, err)
	}

	return nil
}

// flagPassed сообщает, был ли флаг name задан в командной строке.
func flagPassed(name string) bool {
	var passed bool
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})

	return passed
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
