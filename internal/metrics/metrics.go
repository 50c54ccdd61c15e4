// metrics — Prometheus-метрики конвейера. Регистрируются в DefaultRegisterer
// и экспонируются через /metrics (promhttp.Handler).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "travel_warnings"

var (
	// Runs — прогоны конвейера по результату: ok|empty|scrape_failed|failed.
	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Pipeline runs by result.",
	}, []string{"result"})

	// RunDuration — длительность прогона целиком.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Pipeline run duration.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// Upserts — результаты upsert: inserted|updated|failed.
	Upserts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upserts_total",
		Help:      "Warning upserts by outcome.",
	}, []string{"outcome"})

	// Reaped — удалённые устаревшие предупреждения.
	Reaped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reaped_total",
		Help:      "Stale warnings deleted by the reaper.",
	})

	// Notifications — SMS по результату: sent|failed.
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "SMS notifications by result.",
	}, []string{"result"})

	// DetailFetches — загрузки страниц подробностей: ok|failed.
	DetailFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "detail_fetch_total",
		Help:      "Detail page fetches by result.",
	}, []string{"result"})
)
