package gpu

import "github.com/NVIDIA/go-nvml/pkg/nvml"

// device is the subset of nvml.Device the collector reads
type device interface {
	GetName() (string, nvml.Return)
	GetTemperature(sensor nvml.TemperatureSensors) (uint32, nvml.Return)
	GetUtilizationRates() (nvml.Utilization, nvml.Return)
}

// Reading is a single temperature and load sample
type Reading struct {
	Temperature int // °C
	Utilization int // percent
}
