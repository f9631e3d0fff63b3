package audio

import (
	"context"
	"sync"
	"sync/atomic"

	"codeberg.org/mutker/ministatus/internal/errors"
	"codeberg.org/mutker/ministatus/internal/logger"
)

const notificationBuffer = 64

// mirror is replaced as a whole, never mutated in place
type mirror struct {
	state State
	known bool
}

// Synchronizer keeps a State mirror of the default sink current
type Synchronizer struct {
	server Server
	log    logger.Logger

	mu     sync.RWMutex
	mirror mirror

	notifications chan Notification
	// set when a notification had to be dropped
	resync atomic.Bool

	// owned by the consumer goroutine once started
	tracked string

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func newSynchronizer(server Server, log logger.Logger) *Synchronizer {
	return &Synchronizer{
		server:        server,
		log:           log,
		notifications: make(chan Notification, notificationBuffer),
		done:          make(chan struct{}),
	}
}

// Connect opens a PulseAudio session and starts synchronizing with it
func Connect(ctx context.Context, appName string, log logger.Logger) (*Synchronizer, error) {
	server, err := DialPulse(appName)
	if err != nil {
		return nil, err
	}

	s, err := Start(ctx, server, log)
	if err != nil {
		_ = server.Close()
		return nil, err
	}

	return s, nil
}

// Start subscribes to server, seeds the state from the current default sink
// and starts the consumer goroutine. It stops when ctx is cancelled or Close
// is called.
func Start(ctx context.Context, server Server, log logger.Logger) (*Synchronizer, error) {
	s := newSynchronizer(server, log)

	if err := server.Subscribe(s.notify); err != nil {
		return nil, errors.New().Wrap(ErrSubscribeFailed, err)
	}

	if sink, err := server.SinkByName(""); err != nil {
		log.Debug().Err(err).Msg("No default sink yet")
	} else {
		s.sinkChanged(sink)
	}

	log.Info().
		Str("sink", s.tracked).
		Msg("Audio synchronizer started")

	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)

	return s, nil
}

// notify runs on the server's goroutine and only hands the notification over
func (s *Synchronizer) notify(n Notification) {
	select {
	case s.notifications <- n:
	default:
		s.resync.Store(true)
	}
}

func (s *Synchronizer) run(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-s.notifications:
			s.process(n)
		}
	}
}

// process handles n, re-reading the default sink first when a previous
// notification was dropped or a default sink query failed
func (s *Synchronizer) process(n Notification) {
	if s.resync.Swap(false) {
		s.log.Debug().Msg("Resynchronizing default sink")
		s.handle(Notification{Kind: ServerChanged})
	}
	s.handle(n)
}

func (s *Synchronizer) handle(n Notification) {
	switch n.Kind {
	case ServerChanged:
		name, err := s.server.DefaultSink()
		if err != nil {
			s.log.Debug().Err(err).Msg("Failed to query default sink")
			return
		}
		s.defaultSinkChanged(name)
	case SinkChanged:
		sink, err := s.server.SinkByIndex(n.Index)
		if err != nil {
			s.log.Debug().Err(err).Uint32("index", n.Index).Msg("Failed to query sink")
			return
		}
		s.sinkChanged(sink)
	}
}

// defaultSinkChanged switches tracking to name and re-reads that sink instead
// of waiting for a sink notification about it
func (s *Synchronizer) defaultSinkChanged(name string) {
	if name != s.tracked {
		s.log.Debug().Str("from", s.tracked).Str("to", name).Msg("Default sink changed")
	}
	s.tracked = name

	sink, err := s.server.SinkByName(name)
	if err != nil {
		s.log.Debug().Err(err).Str("sink", name).Msg("Failed to query default sink")
		s.resync.Store(true)
		return
	}

	s.sinkChanged(sink)
}

// sinkChanged stores sink if it is the tracked one. Until a default sink name
// is known the first sink reported is treated as the default.
func (s *Synchronizer) sinkChanged(sink Sink) {
	switch {
	case s.tracked == "":
		s.tracked = sink.Name
	case s.tracked != sink.Name:
		return
	}

	s.store(State{
		Volume: max(sink.Volume, 0),
		Muted:  sink.Muted,
		Sink:   sink.Name,
	})
}

func (s *Synchronizer) store(state State) {
	s.mu.Lock()
	s.mirror = mirror{state: state, known: true}
	s.mu.Unlock()
}

// Snapshot returns a copy of the mirrored state and whether any state has
// been received yet
func (s *Synchronizer) Snapshot() (State, bool) {
	s.mu.RLock()
	m := s.mirror
	s.mu.RUnlock()

	return m.state, m.known
}

// Produce formats the latest mirrored state. It never waits on the server.
func (s *Synchronizer) Produce(_ context.Context) (string, error) {
	state, ok := s.Snapshot()
	if !ok {
		return "", nil
	}

	return state.Format(), nil
}

// Close stops the consumer goroutine and releases the session. Pending
// notifications are discarded.
func (s *Synchronizer) Close() error {
	var err error

	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		if cerr := s.server.Close(); cerr != nil {
			err = errors.New().Wrap(ErrCloseFailed, cerr)
		}
		if s.cancel != nil {
			<-s.done
		}
	})

	return err
}
