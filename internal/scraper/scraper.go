// scraper загружает индексную страницу предупреждений, разбирает таблицу
// и догружает страницы подробностей.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/pribylovaa/go-travel-warnings/internal/config"
	"github.com/pribylovaa/go-travel-warnings/internal/metrics"
	"github.com/pribylovaa/go-travel-warnings/internal/models"
	"github.com/pribylovaa/go-travel-warnings/pkg/log"
)

// ErrBadStatus — индексная страница ответила не 2xx.
var ErrBadStatus = errors.New("unexpected status")

// CountryResolver — нормализатор названий стран.
type CountryResolver interface {
	ResolveCountryCodes(freeText string) []string
}

// Scraper реализует service.Scraper для таблицы предупреждений.
//
// HTTP-клиент настраивается извне (таймауты, прокси и т.д.); параллелизм
// страниц подробностей ограничен cfg.DetailConcurrency и rate-лимитером на хост.
type Scraper struct {
	client   *http.Client
	cfg      config.ScraperConfig
	resolver CountryResolver
	limiter  *hostLimiter
	base     *url.URL
}

// New создаёт новый Scraper.
func New(client *http.Client, cfg config.ScraperConfig, resolver CountryResolver) (*Scraper, error) {
	const op = "scraper/New"

	if resolver == nil {
		return nil, fmt.Errorf("%s: nil resolver", op)
	}

	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}

		client = &http.Client{Timeout: timeout}
	}

	if cfg.DetailConcurrency <= 0 {
		cfg.DetailConcurrency = 4
	}

	var base *url.URL
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("%s: base_url: %w", op, err)
		}

		base = u
	}

	return &Scraper{
		client:   client,
		cfg:      cfg,
		resolver: resolver,
		limiter:  newHostLimiter(cfg.RatePerSecond, cfg.Burst),
		base:     base,
	}, nil
}

// Source — издатель, которым помечаются все предупреждения этого Scraper.
func (s *Scraper) Source() string {
	return s.cfg.Source
}

// Scrape выполняет один полный обход.
//
// Ошибка загрузки индекса (транспорт или не-2xx) прерывает обход целиком.
// Ошибки страниц подробностей не фатальны: предупреждение остаётся без Text/TextOverview.
// Результат отдаётся только после завершения всех загрузок подробностей.
func (s *Scraper) Scrape(ctx context.Context) (models.WarningsByCountry, error) {
	const op = "scraper/Scrape"

	lg := log.From(ctx)

	doc, err := s.fetchDocument(ctx, s.cfg.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("%s: index: %w", op, err)
	}

	rows := parseRows(doc, s.base, s.cfg.DateLayout)

	type pending struct {
		warning models.Warning
		codes   []string
	}

	items := make([]pending, 0, len(rows))
	var dropped int

	for _, r := range rows {
		codes := s.resolver.ResolveCountryCodes(r.country)
		if len(codes) == 0 {
			dropped++
			lg.Debug("row_dropped",
				slog.String("op", op),
				slog.String("type", r.typ),
				slog.String("country", r.country),
			)
			continue
		}

		if r.startDate.IsZero() {
			lg.Warn("date_parse_failed",
				slog.String("op", op),
				slog.String("value", r.dateRaw),
				slog.String("layout", s.cfg.DateLayout),
			)
		}

		items = append(items, pending{
			warning: models.Warning{
				Type:       r.typ,
				StartDate:  r.startDate,
				Source:     s.cfg.Source,
				Link:       r.link,
				ColorClass: models.ColorClassFor(r.typ),
			},
			codes: codes,
		})
	}

	// Fan-out страниц подробностей; Wait — барьер перед выдачей результата.
	var g errgroup.Group
	g.SetLimit(s.cfg.DetailConcurrency)

	for i := range items {
		if items[i].warning.Link == "" {
			continue
		}

		g.Go(func() error {
			w := &items[i].warning

			text, overview, err := s.fetchDetail(ctx, w.Link)
			if err != nil {
				metrics.DetailFetches.WithLabelValues("failed").Inc()
				lg.Warn("detail_fetch_failed",
					slog.String("op", op),
					slog.String("url", w.Link),
					slog.String("err", err.Error()),
				)
				return nil
			}

			metrics.DetailFetches.WithLabelValues("ok").Inc()
			w.Text = text
			w.TextOverview = overview

			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make(models.WarningsByCountry)
	for _, it := range items {
		for _, code := range it.codes {
			w := it.warning
			w.CountryCode = code
			out.Add(w)
		}
	}

	lg.Info("scrape_done",
		slog.String("op", op),
		slog.Int("rows", len(rows)),
		slog.Int("dropped", dropped),
		slog.Int("warnings", len(items)),
		slog.Int("countries", len(out)),
	)

	return out, nil
}

// fetchDetail загружает страницу подробностей и извлекает тексты по селекторам.
func (s *Scraper) fetchDetail(ctx context.Context, link string) (string, string, error) {
	doc, err := s.fetchDocument(ctx, link)
	if err != nil {
		return "", "", err
	}

	text, overview := parseDetail(doc, s.cfg.TextSelector, s.cfg.OverviewSelector)

	return text, overview, nil
}

// fetchDocument выполняет GET с учётом rate-лимита и разбирает HTML.
func (s *Scraper) fetchDocument(ctx context.Context, src string) (*goquery.Document, error) {
	const op = "scraper/fetchDocument"

	if err := s.limiter.wait(ctx, src); err != nil {
		return nil, fmt.Errorf("%s: rate_wait: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}

	if s.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", s.cfg.UserAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: %w: status=%d", op, ErrBadStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %w", op, err)
	}

	return doc, nil
}
