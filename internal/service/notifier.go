package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pribylovaa/go-travel-warnings/internal/metrics"
	"github.com/pribylovaa/go-travel-warnings/internal/models"
	"github.com/pribylovaa/go-travel-warnings/internal/storage"
	"github.com/pribylovaa/go-travel-warnings/pkg/log"
	"github.com/pribylovaa/go-travel-warnings/pkg/redact"
)

const (
	volunteerMessage = "A new travel warning has been issued that may affect your Peace Corps volunteer's leave request."
	reviewerMessage  = "A new travel warning has been issued that may affect a Peace Corps leave request you have approved"
)

// notifyTally — счётчики рассылки, общие для горутин одного вызова NotifyAffected.
type notifyTally struct {
	mu  sync.Mutex
	res models.NotifyResult
}

func (t *notifyTally) add(requests, sent, failed int) {
	t.mu.Lock()
	t.res.Requests += requests
	t.res.Sent += sent
	t.res.Failed += failed
	t.mu.Unlock()
}

// NotifyAffected рассылает SMS по заявкам, затронутым новыми предупреждениями.
//
// Заявка затронута, если у неё есть отрезок с той же страной и датой начала
// не раньше даты предупреждения. Для каждой такой заявки SMS уходит на каждый
// телефон волонтёра и согласовавшего сотрудника. Отсутствующие пользователи и
// пустые ссылки пропускаются молча; ошибки поиска и отправки логируются,
// считаются в Failed и не повторяются. Дедупликации между предупреждениями нет.
func (s *Service) NotifyAffected(ctx context.Context, inserted []models.Warning) models.NotifyResult {
	const op = "service/notifier/NotifyAffected"

	lg := log.From(ctx)
	tally := &notifyTally{}
	tally.res.Warnings = len(inserted)

	if len(inserted) == 0 {
		return tally.res
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.notifyConcurrency())

	for _, w := range inserted {
		if w.StartDate.IsZero() {
			lg.Warn("notify_skipped_no_date",
				slog.String("op", op),
				slog.String("country", w.CountryCode),
			)
			continue
		}

		g.Go(func() error {
			s.notifyWarning(gctx, w, tally)
			return nil
		})
	}

	_ = g.Wait()

	lg.Info("notify_done",
		slog.String("op", op),
		slog.Int("warnings", tally.res.Warnings),
		slog.Int("requests", tally.res.Requests),
		slog.Int("sent", tally.res.Sent),
		slog.Int("failed", tally.res.Failed),
	)

	return tally.res
}

// notifyWarning обрабатывает одно предупреждение: поиск заявок и рассылка по ним.
func (s *Service) notifyWarning(ctx context.Context, w models.Warning, tally *notifyTally) {
	const op = "service/notifier/notifyWarning"

	lg := log.From(ctx).With(slog.String("country", w.CountryCode))

	requests, err := s.storage.FindAffectedRequests(ctx, w.CountryCode, w.StartDate)
	if err != nil {
		lg.Error("affected_requests_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		tally.add(0, 0, 1)
		return
	}

	for _, req := range requests {
		var sent, failed int

		for _, target := range []struct {
			userID string
			text   string
		}{
			{req.Volunteer, volunteerMessage},
			{req.Reviewer, reviewerMessage},
		} {
			ok, bad := s.notifyUser(ctx, target.userID, target.text)
			sent += ok
			failed += bad
		}

		tally.add(1, sent, failed)
	}
}

// notifyUser отправляет text на все телефоны пользователя userID.
// Возвращает число успешных и неуспешных попыток.
func (s *Service) notifyUser(ctx context.Context, userID, text string) (sent, failed int) {
	const op = "service/notifier/notifyUser"

	if userID == "" {
		return 0, 0
	}

	lg := log.From(ctx)

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return 0, 0
		}

		lg.Error("user_lookup_failed",
			slog.String("op", op),
			slog.String("user_id", userID),
			slog.String("err", err.Error()),
		)
		return 0, 1
	}

	for _, phone := range user.Phones {
		if strings.TrimSpace(phone) == "" {
			continue
		}

		if err := s.sender.Send(ctx, phone, text); err != nil {
			lg.Warn("sms_send_failed",
				slog.String("op", op),
				slog.String("user_id", userID),
				slog.String("to", redact.Phone(phone)),
				slog.String("err", err.Error()),
			)
			metrics.Notifications.WithLabelValues("failed").Inc()
			failed++
			continue
		}

		metrics.Notifications.WithLabelValues("sent").Inc()
		sent++
	}

	return sent, failed
}

func (s *Service) notifyConcurrency() int {
	if s.cfg.Notify.Concurrency > 0 {
		return s.cfg.Notify.Concurrency
	}

	return 1
}
