package main

import (
	"context"
	"time"

	"ledpattern-go/bus"
	"ledpattern-go/services/config"
	"ledpattern-go/services/hal/platform"
	"ledpattern-go/services/ledloop"
	"ledpattern-go/services/monitor"
	"ledpattern-go/x/fmtx"
)

// deviceID selects the embedded board config; override at link time with
// -ldflags "-X main.deviceID=pico_expander".
var deviceID = "pico"

const consoleBaud = 115200

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	fmtx.DefaultOutput = platform.Console(consoleBaud)
	fmtx.Println("[main] boot", deviceID)

	board, err := config.BoardConfig(deviceID)
	if err != nil {
		halt(err)
	}
	ctrl, err := platform.Open(board)
	if err != nil {
		halt(err)
	}

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)
	b := bus.NewBus(8)
	config.NewConfigService().Start(ctx, b.NewConnection("config"))
	(&monitor.Service{}).Start(ctx, b.NewConnection("monitor"))

	// The pattern loop owns this goroutine from here on.
	loop := ledloop.New(ctrl, ledloop.Config{})
	if err := loop.Run(ctx, b.NewConnection("pattern")); err != nil {
		halt(err)
	}
}

// halt reports a fatal initialisation failure and parks the CPU; only a
// reset recovers.
func halt(err error) {
	fmtx.Printf("[main] GPIO init failed: %v\n", err)
	for {
		time.Sleep(time.Hour)
	}
}
