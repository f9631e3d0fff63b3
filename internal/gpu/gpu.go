// Package gpu reports temperature and utilization of the first NVIDIA GPU.
package gpu

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/mutker/ministatus/internal/errors"
	"codeberg.org/mutker/ministatus/internal/logger"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

type Collector struct {
	nvml   nvmlController
	device device
	log    logger.Logger
	mu     sync.Mutex
}

// New initializes NVML and opens device 0. Any failure disables the collector.
func New(log logger.Logger) (*Collector, error) {
	return newCollector(&nvmlWrapper{}, log)
}

func newCollector(ctl nvmlController, log logger.Logger) (*Collector, error) {
	if err := ctl.Initialize(); err != nil {
		return nil, err
	}

	dev, err := ctl.GetDevice(0)
	if err != nil {
		_ = ctl.Shutdown()
		return nil, err
	}

	if name, ret := dev.GetName(); IsNVMLSuccess(ret) {
		log.Info().Str("name", name).Msg("Detected GPU")
	} else {
		log.Warn().Str("error", nvml.ErrorString(ret)).Msg("Failed to get GPU name")
	}

	return &Collector{nvml: ctl, device: dev, log: log}, nil
}

func (c *Collector) Read() (Reading, error) {
	errFactory := errors.New()

	c.mu.Lock()
	defer c.mu.Unlock()

	temp, ret := c.device.GetTemperature(nvml.TEMPERATURE_GPU)
	if !IsNVMLSuccess(ret) {
		return Reading{}, errFactory.Wrap(ErrTemperatureReadFailed, newNVMLError(ret))
	}

	util, ret := c.device.GetUtilizationRates()
	if !IsNVMLSuccess(ret) {
		return Reading{}, errFactory.Wrap(ErrUtilizationReadFailed, newNVMLError(ret))
	}

	return Reading{Temperature: int(temp), Utilization: int(util.Gpu)}, nil
}

func (c *Collector) Produce(_ context.Context) (string, error) {
	r, err := c.Read()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("🎮 %d°C %d%%", r.Temperature, r.Utilization), nil
}

func (c *Collector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.nvml.Shutdown()
}
