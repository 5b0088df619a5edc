//go:build !(rp2040 || rp2350) && !(linux && (arm || arm64))

package platform

import (
	"io"
	"os"

	"ledpattern-go/services/hal/gpio"
	"ledpattern-go/types"
)

// On development hosts the board is simulated; the pin numbers in cfg are
// only validated.
func open(cfg types.BoardConfig) (gpio.Controller, error) {
	if backendOf(cfg) != BackendPins {
		return nil, errUnsupportedBackend(cfg)
	}
	return gpio.NewSim(len(cfg.LEDs.Pins), len(cfg.Switches.Pins))
}

func Console(uint32) io.Writer { return os.Stdout }
