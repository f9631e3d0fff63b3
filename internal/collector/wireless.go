package collector

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/ministatus/internal/errors"
)

const (
	DefaultProcRoot = "/proc"
	DefaultSysRoot  = "/sys"

	// link quality reported by most drivers tops out at 70
	maxLinkQuality = 70.0
)

// Wireless reports link state and signal quality of the first wireless interface
type Wireless struct {
	procRoot string
	sysRoot  string
}

func NewWireless(procRoot, sysRoot string) *Wireless {
	return &Wireless{procRoot: procRoot, sysRoot: sysRoot}
}

func (w *Wireless) Produce(_ context.Context) (string, error) {
	errFactory := errors.New()

	raw, err := os.ReadFile(filepath.Join(w.procRoot, "net", "wireless"))
	if err != nil {
		return "", errFactory.Wrap(ErrWirelessRead, err)
	}

	iface, quality, ok := parseWireless(raw)
	if !ok {
		return "", nil
	}

	state, err := os.ReadFile(filepath.Join(w.sysRoot, "class", "net", iface, "operstate"))
	if err != nil {
		return "", errFactory.Wrap(ErrWirelessOperstate, err)
	}

	icon := "❎"
	if firstLine(state) == "up" {
		icon = "🌍"
	}

	return fmt.Sprintf("%s %d%%", icon, int(quality*100/maxLinkQuality)), nil
}

// parseWireless returns the interface name and link quality of the first
// interface line in /proc/net/wireless.
func parseWireless(raw []byte) (string, float64, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "w") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return "", 0, false
		}

		quality, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return "", 0, false
		}

		return strings.TrimSuffix(fields[0], ":"), quality, true
	}

	return "", 0, false
}

func firstLine(b []byte) string {
	line, _, _ := strings.Cut(string(b), "\n")
	return line
}
