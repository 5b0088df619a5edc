//go:build !(rp2040 || rp2350) && !(linux && (arm || arm64))

package platform

import (
	"testing"

	"ledpattern-go/errcode"
	"ledpattern-go/services/hal/gpio"
)

func TestOpen_HostSimulates(t *testing.T) {
	ctrl, err := Open(picoBoard())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sim, ok := ctrl.(*gpio.Sim)
	if !ok {
		t.Fatalf("expected *gpio.Sim, got %T", ctrl)
	}
	if len(sim.LEDs) != LEDCount || len(sim.Switches) != SwitchCount {
		t.Fatalf("sim widths %d/%d", len(sim.LEDs), len(sim.Switches))
	}

	cfg := picoBoard()
	cfg.Backend = BackendMCP23017
	_, err = Open(cfg)
	if errcode.Of(err) != errcode.InitFailed {
		t.Fatalf("expander on host: expected init_failed, got %v", err)
	}
}
