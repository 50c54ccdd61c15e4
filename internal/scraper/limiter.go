package scraper

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// hostLimiter ограничивает частоту запросов отдельно для каждого хоста.
// Нулевой rate отключает ограничение.
type hostLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func newHostLimiter(reqPerSec float64, burst int) *hostLimiter {
	if burst <= 0 {
		burst = 1
	}

	return &hostLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(reqPerSec),
		b: burst,
	}
}

func (hl *hostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if lim, ok := hl.m[host]; ok {
		return lim
	}

	lim := rate.NewLimiter(hl.r, hl.b)
	hl.m[host] = lim

	return lim
}

// wait блокируется до разрешения на запрос к хосту raw (или до отмены ctx).
func (hl *hostLimiter) wait(ctx context.Context, raw string) error {
	if hl.r <= 0 {
		return ctx.Err()
	}

	host := "_"
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = u.Host
	}

	return hl.limiterFor(host).Wait(ctx)
}
