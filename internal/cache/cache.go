// cache — кэш снимка предупреждений для HTTP-выдачи.
// Явный автомат состояний: unloaded -> loading -> loaded; одна загрузка
// обслуживает всех ожидающих, Invalidate сбрасывает снимок после прогона.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pribylovaa/go-travel-warnings/internal/models"
	"github.com/pribylovaa/go-travel-warnings/pkg/log"
)

// State — состояние кэша.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Loader загружает полный снимок предупреждений.
type Loader func(ctx context.Context) (models.WarningsByCountry, error)

type result struct {
	value models.WarningsByCountry
	err   error
}

// flight — одна загрузка и её ожидающие.
type flight struct {
	waiters []chan result
}

// WarningsCache кэширует результат Loader до Invalidate.
// Возвращаемый снимок общий для всех вызывающих и не должен изменяться.
type WarningsCache struct {
	load    Loader
	timeout time.Duration

	mu     sync.Mutex
	state  State
	gen    uint64
	value  models.WarningsByCountry
	flight *flight
}

// New создаёт пустой кэш. timeout ограничивает одну загрузку (0 — без ограничения).
func New(load Loader, timeout time.Duration) *WarningsCache {
	return &WarningsCache{load: load, timeout: timeout}
}

// Get возвращает снимок, загружая его при необходимости.
//
//   - loaded — возвращает сохранённый снимок;
//   - unloaded — переходит в loading, запускает одну загрузку и ждёт её;
//   - loading — ждёт текущую загрузку.
//
// Отмена ctx освобождает только этого вызывающего; загрузка продолжается для остальных.
func (c *WarningsCache) Get(ctx context.Context) (models.WarningsByCountry, error) {
	const op = "cache/cache/Get"

	c.mu.Lock()
	if c.state == StateLoaded {
		v := c.value
		c.mu.Unlock()
		return v, nil
	}

	if c.state == StateUnloaded {
		c.state = StateLoading
		c.flight = &flight{}
		go c.run(ctx, c.flight, c.gen)
	}

	ch := make(chan result, 1)
	c.flight.waiters = append(c.flight.waiters, ch)
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("%s: %w", op, r.err)
		}
		return r.value, nil
	}
}

// run выполняет загрузку и раздаёт результат ожидающим fl.
// Результат сохраняется, только если с момента старта не было Invalidate.
func (c *WarningsCache) run(ctx context.Context, fl *flight, gen uint64) {
	const op = "cache/cache/run"

	loadCtx := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(loadCtx, c.timeout)
		defer cancel()
	}

	v, err := c.load(loadCtx)

	c.mu.Lock()
	if c.gen == gen {
		if err != nil {
			c.state = StateUnloaded
		} else {
			c.state = StateLoaded
			c.value = v
		}
		c.flight = nil
	}
	waiters := fl.waiters
	fl.waiters = nil
	c.mu.Unlock()

	if err != nil {
		log.From(ctx).Warn("cache_load_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	for _, ch := range waiters {
		ch <- result{value: v, err: err}
	}
}

// Invalidate сбрасывает снимок. Загрузка, идущая в этот момент, ответит своим
// ожидающим, но в кэш не попадёт; следующий Get начнёт новую.
func (c *WarningsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.state = StateUnloaded
	c.value = nil
	c.flight = nil
}

// State возвращает текущее состояние кэша.
func (c *WarningsCache) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}
