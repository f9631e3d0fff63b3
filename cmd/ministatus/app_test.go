package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/ministatus/internal/audio"
	"codeberg.org/mutker/ministatus/internal/config"
	"codeberg.org/mutker/ministatus/internal/errors"
	"codeberg.org/mutker/ministatus/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, collectors ...string) *config.Config {
	t.Helper()

	return &config.Config{
		Interval:   config.DefaultInterval,
		Separator:  config.DefaultSeparator,
		Collectors: collectors,
		Home:       t.TempDir(),
		Clock:      config.ClockConfig{Layout: config.DefaultClockLayout},
	}
}

func slotNames(a *app) []string {
	var names []string
	for _, slot := range a.registry.Slots() {
		names = append(names, slot.Name)
	}
	return names
}

func TestRegisterCollectorsKeepsOrderAndSkipsDisabled(t *testing.T) {
	cfg := testConfig(t,
		config.CollectorClock,
		config.CollectorNews,
		config.CollectorMailbox,
		config.CollectorBattery,
		config.CollectorWireless,
	)
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Home, ".local", "share", "mail"), 0o755))

	a := newApp(cfg, logger.Default())
	defer a.close()

	require.NoError(t, a.registerCollectors(context.Background()))

	// no newsboat cache in the fake home
	assert.Equal(t, []string{
		config.CollectorClock,
		config.CollectorMailbox,
		config.CollectorBattery,
		config.CollectorWireless,
	}, slotNames(a))

	for i, slot := range a.registry.Slots() {
		assert.Equal(t, i, slot.Index)
	}
}

func TestRegisterCollectorsRejectsUnknown(t *testing.T) {
	a := newApp(testConfig(t, "uptime"), logger.Default())

	err := a.registerCollectors(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrUnknownCollector))
}

func unreachableAudio(context.Context, string, logger.Logger) (*audio.Synchronizer, error) {
	return nil, errors.New().Wrap(audio.ErrSessionFailed, fmt.Errorf("connection refused"))
}

func TestUnreachableAudioAborts(t *testing.T) {
	a := newApp(testConfig(t, config.CollectorClock, config.CollectorVolume), logger.Default())
	a.dialAudio = unreachableAudio
	defer a.close()

	err := a.registerCollectors(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrUnavailable))
	assert.True(t, errors.HasCode(err, audio.ErrSessionFailed))
}

func TestOptionalAudioDisablesVolume(t *testing.T) {
	cfg := testConfig(t, config.CollectorVolume, config.CollectorClock)
	cfg.Audio.Optional = true

	a := newApp(cfg, logger.Default())
	a.dialAudio = unreachableAudio
	defer a.close()

	require.NoError(t, a.registerCollectors(context.Background()))
	assert.Equal(t, []string{config.CollectorClock}, slotNames(a))
	assert.Empty(t, a.closers)
}

type recordingCloser struct {
	name  string
	order *[]string
}

func (c recordingCloser) Close() error {
	*c.order = append(*c.order, c.name)
	return nil
}

func TestCloseReleasesInReverseOrder(t *testing.T) {
	var order []string
	a := newApp(testConfig(t), logger.Default())
	a.closers = append(a.closers,
		recordingCloser{name: "news", order: &order},
		recordingCloser{name: "volume", order: &order},
		recordingCloser{name: "display", order: &order},
	)

	a.close()
	a.close()

	assert.Equal(t, []string{"display", "volume", "news"}, order)
}

func TestOpenConsoleDisplay(t *testing.T) {
	cfg := testConfig(t)
	cfg.Console = true

	sink, err := newApp(cfg, logger.Default()).openDisplay()
	require.NoError(t, err)
	assert.NoError(t, sink.Close())
}
