// Package weather shows today's rain chance and temperature range.
//
// Forecasts change slowly, so the collector serves a cached forecast and
// refreshes it on a background goroutine once the refresh deadline passes.
package weather

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/ministatus/internal/logger"
)

type Config struct {
	URL     string
	Timeout time.Duration
	// Refresh is the delay after a successful fetch, Retry the delay after a failed one
	Refresh time.Duration
	Retry   time.Duration
}

type Collector struct {
	client *Client
	cfg    Config
	log    logger.Logger
	now    func() time.Time
	// refreshes outlive single ticks and stop with this context
	ctx context.Context

	mu       sync.RWMutex
	forecast *Forecast
	next     time.Time

	refreshing atomic.Bool
	wg         sync.WaitGroup
}

// New performs the first fetch synchronously. A failed first fetch is not an
// error: the collector shows nothing and retries later.
func New(ctx context.Context, cfg Config, log logger.Logger) *Collector {
	return newCollector(ctx, cfg, log, time.Now)
}

func newCollector(ctx context.Context, cfg Config, log logger.Logger, now func() time.Time) *Collector {
	c := &Collector{
		client: NewClient(cfg.URL, cfg.Timeout),
		cfg:    cfg,
		log:    log,
		now:    now,
		ctx:    ctx,
	}

	c.refresh()

	return c
}

func (c *Collector) Produce(_ context.Context) (string, error) {
	c.mu.RLock()
	forecast, due := c.forecast, !c.now().Before(c.next)
	c.mu.RUnlock()

	if due && c.refreshing.CompareAndSwap(false, true) {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			defer c.refreshing.Store(false)
			c.refresh()
		}()
	}

	if forecast == nil {
		return "", nil
	}

	return forecast.String(), nil
}

func (c *Collector) refresh() {
	f, ok, err := c.client.Fetch(c.ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case err != nil:
		c.log.Warn().Err(err).Msg("Failed to retrieve weather data")
		c.next = c.now().Add(c.cfg.Retry)
	case !ok:
		c.log.Debug().Msg("Weather response holds no daytime forecast")
		c.next = c.now().Add(c.cfg.Retry)
	default:
		c.forecast = &f
		c.next = c.now().Add(c.cfg.Refresh)
		c.log.Debug().
			Int("rain", f.Rain).
			Int("min_temp", f.MinTemp).
			Int("max_temp", f.MaxTemp).
			Time("next", c.next).
			Msg("Weather data refreshed")
	}
}

// Wait blocks until an in-flight refresh finishes
func (c *Collector) Wait() {
	c.wg.Wait()
}
