package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"codeberg.org/mutker/ministatus/internal/errors"
)

const (
	// DefaultPowerSupplyRoot is where the kernel exposes batteries
	DefaultPowerSupplyRoot = "/sys/class/power_supply"

	lowCapacity = 25
	// current_now is in µA and voltage_now in µV
	microWattsPerWatt = 1_000_000_000_000.0
)

var batteryGlyphs = map[string]string{
	"Discharging":  "🔋",
	"Charging":     "🔌",
	"Not charging": "🔌",
	"Unknown":      "♻️",
	"Full":         "⚡",
}

// Battery reports charge, state and power draw of every BAT* power supply
type Battery struct {
	batteries []string
}

// NewBattery discovers batteries below root once; an unreadable root simply
// yields a collector with nothing to show.
func NewBattery(root string) *Battery {
	b := &Battery{}

	entries, err := os.ReadDir(root)
	if err != nil {
		return b
	}

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "BAT") {
			b.batteries = append(b.batteries, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(b.batteries)

	return b
}

func (b *Battery) Produce(_ context.Context) (string, error) {
	if len(b.batteries) == 0 {
		return "", nil
	}

	out := make([]string, 0, len(b.batteries))
	for _, bat := range b.batteries {
		segment, ok, err := readBattery(bat)
		if err != nil {
			return "", err
		}
		if ok {
			out = append(out, segment)
		}
	}

	return strings.Join(out, " | "), nil
}

func readBattery(dir string) (string, bool, error) {
	capacity, err := readInt(filepath.Join(dir, "capacity"))
	if err != nil {
		return "", false, nil
	}

	sep := " "
	if capacity < lowCapacity {
		sep = "❗"
	}

	raw, err := os.ReadFile(filepath.Join(dir, "status"))
	if err != nil {
		return "", false, errors.New().Wrap(ErrBatteryStatus, err)
	}
	state := strings.ReplaceAll(strings.TrimSpace(string(raw)), ",", "")

	glyph, known := batteryGlyphs[state]
	if !known {
		glyph = state
	}

	charging := state == "Charging" || state == "Not charging"
	if !charging {
		if watts, ok := readWatts(dir); ok {
			return fmt.Sprintf("%s%s%d%% (%.2fW)", glyph, sep, capacity, watts), true, nil
		}
	}

	return fmt.Sprintf("%s%s%d%%", glyph, sep, capacity), true, nil
}

func readWatts(dir string) (float64, bool) {
	current, err := readFloat(filepath.Join(dir, "current_now"))
	if err != nil {
		return 0, false
	}
	voltage, err := readFloat(filepath.Join(dir, "voltage_now"))
	if err != nil {
		return 0, false
	}

	return current * voltage / microWattsPerWatt, true
}

func readInt(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(string(raw)), "$", ""))
}

func readFloat(path string) (float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	return strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
}
