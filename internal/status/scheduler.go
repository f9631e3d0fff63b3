package status

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"codeberg.org/mutker/ministatus/internal/collector"
	"codeberg.org/mutker/ministatus/internal/errors"
	"codeberg.org/mutker/ministatus/internal/logger"
	"github.com/google/uuid"
)

const (
	DefaultSeparator = " | "

	ErrCollectorPanic = errors.ErrorCode("status_collector_panic")
)

// Display receives the joined status line once per tick
type Display interface {
	SetTitle(line string) error
}

// Outcome classifies what a slot returned during a tick
type Outcome int

const (
	OutcomeValue Outcome = iota
	OutcomeEmpty
	OutcomeStale
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValue:
		return "value"
	case OutcomeEmpty:
		return "empty"
	case OutcomeStale:
		return "stale"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Config struct {
	Interval  time.Duration
	Separator string
}

// Scheduler polls every slot once per tick and publishes the joined line
type Scheduler struct {
	slots   []collector.Slot
	cache   *StaleCache
	display Display
	cfg     Config
	log     logger.Logger
}

func NewScheduler(cfg Config, slots []collector.Slot, display Display, log logger.Logger) (*Scheduler, error) {
	errFactory := errors.New()

	if cfg.Interval <= 0 {
		return nil, errFactory.WithData(errors.ErrInvalidConfig, fmt.Sprintf("interval %s", cfg.Interval))
	}
	if display == nil {
		return nil, errFactory.WithMessage(errors.ErrInvalidConfig, "display is required")
	}

	return &Scheduler{
		slots:   slots,
		cache:   NewStaleCache(),
		display: display,
		cfg:     cfg,
		log:     log,
	}, nil
}

// Run ticks immediately and then again whenever wake fires or the interval
// elapses, until ctx is cancelled. A wake only moves the next tick forward.
func (s *Scheduler) Run(ctx context.Context, wake <-chan os.Signal) error {
	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		s.Tick(ctx)

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.cfg.Interval)

		select {
		case <-ctx.Done():
			return nil
		case sig := <-wake:
			s.log.Debug().Str("signal", sig.String()).Msg("Woken up early")
		case <-timer.C:
		}
	}
}

// Tick polls all slots, publishes the joined line and returns it
func (s *Scheduler) Tick(ctx context.Context) string {
	start := time.Now()

	line := s.Poll(ctx)
	if err := s.display.SetTitle(line); err != nil {
		s.logError(err).Msg("Failed to update display")
	}

	s.log.Debug().
		Dur("elapsed", time.Since(start)).
		Int("slots", len(s.slots)).
		Msg("Tick done")

	return line
}

// Poll runs the polling and joining phases without touching the display
func (s *Scheduler) Poll(ctx context.Context) string {
	parts := make([]string, 0, len(s.slots))
	for _, slot := range s.slots {
		if text, outcome := s.pollSlot(ctx, slot); outcome == OutcomeValue || outcome == OutcomeStale {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, s.separator())
}

func (s *Scheduler) pollSlot(ctx context.Context, slot collector.Slot) (string, Outcome) {
	text, err := s.safeProduce(ctx, slot)
	switch {
	case err == nil && text != "":
		s.cache.Put(slot.Index, text)
		return text, OutcomeValue
	case err == nil:
		return "", OutcomeEmpty
	}

	stale, ok := s.cache.Get(slot.Index)
	s.log.Debug().
		Err(err).
		Int("index", slot.Index).
		Str("collector", slot.Name).
		Bool("stale", ok).
		Msg("Collector failed")

	if ok {
		return stale, OutcomeStale
	}

	return "", OutcomeFailed
}

// safeProduce calls the collector with panic recovery. A panic is logged with
// a correlation ID and turned into an error.
func (s *Scheduler) safeProduce(ctx context.Context, slot collector.Slot) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()

			s.log.Error().
				Str("correlation_id", correlationID).
				Str("collector", slot.Name).
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", string(debug.Stack())).
				Msg("Collector panic")

			text = ""
			err = errors.New().WithData(ErrCollectorPanic, correlationID)
		}
	}()

	return slot.Collector.Produce(ctx)
}

func (s *Scheduler) logError(err error) *logger.LogEvent {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		return s.log.ErrorWithCode(appErr)
	}

	return &logger.LogEvent{Event: s.log.Error().Err(err)}
}

func (s *Scheduler) separator() string {
	if s.cfg.Separator == "" {
		return DefaultSeparator
	}

	return s.cfg.Separator
}

// Cache exposes the stale cache for inspection
func (s *Scheduler) Cache() *StaleCache {
	return s.cache
}
