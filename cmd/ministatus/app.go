package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/ministatus/internal/audio"
	"codeberg.org/mutker/ministatus/internal/collector"
	"codeberg.org/mutker/ministatus/internal/config"
	"codeberg.org/mutker/ministatus/internal/display"
	"codeberg.org/mutker/ministatus/internal/errors"
	"codeberg.org/mutker/ministatus/internal/gpu"
	"codeberg.org/mutker/ministatus/internal/logger"
	"codeberg.org/mutker/ministatus/internal/news"
	"codeberg.org/mutker/ministatus/internal/pid"
	"codeberg.org/mutker/ministatus/internal/status"
	"codeberg.org/mutker/ministatus/internal/weather"
)

type app struct {
	cfg       *config.Config
	log       logger.Logger
	registry  *collector.Registry
	closers   []io.Closer
	dialAudio func(ctx context.Context, appName string, log logger.Logger) (*audio.Synchronizer, error)
}

func newApp(cfg *config.Config, log logger.Logger) *app {
	return &app{
		cfg:       cfg,
		log:       log,
		registry:  collector.NewRegistry(log),
		dialAudio: audio.Connect,
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	errFactory := errors.New()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := pid.Write(cfg.PIDFile); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(cfg.PIDFile); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove PID file")
		}
	}()

	a := newApp(cfg, logger.Default())
	defer a.close()

	if err := a.registerCollectors(ctx); err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}

	sink, err := a.openDisplay()
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}
	a.closers = append(a.closers, sink)

	scheduler, err := status.NewScheduler(status.Config{
		Interval:  cfg.Interval,
		Separator: cfg.Separator,
	}, a.registry.Slots(), sink, a.log)
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}

	wake := make(chan os.Signal, 1)
	signal.Notify(wake, syscall.SIGUSR1)
	defer signal.Stop(wake)

	logger.Info().
		Int("collectors", a.registry.Len()).
		Dur("interval", cfg.Interval).
		Bool("console", cfg.Console).
		Msg("Starting")

	if err := scheduler.Run(ctx, wake); err != nil {
		return errFactory.Wrap(errors.ErrMainLoop, err)
	}

	logger.Info().Msg("Exiting...")

	return nil
}

// registerCollectors builds the enabled collectors in display order. Only an
// unreachable audio server is fatal, and only when it is not optional. The
// caller aborts the process with the returned error.
func (a *app) registerCollectors(ctx context.Context) error {
	for _, name := range a.cfg.Collectors {
		switch name {
		case config.CollectorNews:
			a.register(name, func() (collector.Collector, error) {
				return news.New(a.cfg.Home)
			})
		case config.CollectorMailbox:
			a.register(name, func() (collector.Collector, error) {
				return collector.NewMailbox(a.cfg.Home)
			})
		case config.CollectorWeather:
			a.registry.Register(name, weather.New(ctx, weather.Config{
				URL:     a.cfg.Weather.URL,
				Timeout: a.cfg.Weather.Timeout,
				Refresh: a.cfg.Weather.Refresh,
				Retry:   a.cfg.Weather.Retry,
			}, a.log))
		case config.CollectorWireless:
			a.registry.Register(name, collector.NewWireless(collector.DefaultProcRoot, collector.DefaultSysRoot))
		case config.CollectorBattery:
			a.registry.Register(name, collector.NewBattery(collector.DefaultPowerSupplyRoot))
		case config.CollectorGPU:
			a.register(name, func() (collector.Collector, error) {
				return gpu.New(a.log)
			})
		case config.CollectorVolume:
			if err := a.registerVolume(ctx); err != nil {
				return err
			}
		case config.CollectorClock:
			a.registry.Register(name, collector.NewClock(a.cfg.Clock.Layout))
		default:
			return errors.New().WithData(errors.ErrUnknownCollector, name)
		}
	}

	return nil
}

func (a *app) registerVolume(ctx context.Context) error {
	synchronizer, err := a.dialAudio(ctx, a.cfg.Audio.AppName, a.log)
	if err != nil {
		if !a.cfg.Audio.Optional {
			return errors.New().Wrap(errors.ErrUnavailable, err)
		}
		a.log.Warn().Err(err).Str("collector", config.CollectorVolume).Msg("Collector disabled")
		return nil
	}

	a.closers = append(a.closers, synchronizer)
	a.registry.Register(config.CollectorVolume, synchronizer)

	return nil
}

// register builds a collector whose constructor may fail and keeps it for
// cleanup when it holds resources.
func (a *app) register(name string, build func() (collector.Collector, error)) {
	a.registry.RegisterFunc(name, func() (collector.Collector, error) {
		c, err := build()
		if err != nil {
			return nil, err
		}
		if closer, ok := c.(io.Closer); ok {
			a.closers = append(a.closers, closer)
		}
		return c, nil
	})
}

func (a *app) openDisplay() (display.Sink, error) {
	if a.cfg.Console {
		return display.NewConsole(os.Stdout), nil
	}

	return display.NewX11()
}

// close releases resources in reverse order of acquisition
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn().Err(err).Msg("Failed to release resource")
		}
	}
	a.closers = nil
}
