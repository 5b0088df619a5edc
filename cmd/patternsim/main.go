// Command patternsim runs the LED pattern loop on a development host,
// either against simulated pins fed by a scripted switch sequence or
// against the host's real GPIO provider.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"time"

	"ledpattern-go/bus"
	"ledpattern-go/errcode"
	"ledpattern-go/pattern"
	"ledpattern-go/services/hal/gpio"
	"ledpattern-go/services/hal/platform"
	"ledpattern-go/services/ledloop"
	"ledpattern-go/types"
	"ledpattern-go/x/fmtx"
	"ledpattern-go/x/timex"
)

func main() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmtx.Printf("[patternsim] config: %v\n", err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		fmtx.Printf("[patternsim] %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg simConfig, out io.Writer) error {
	var (
		ctrl gpio.Controller
		sim  *gpio.Sim
		err  error
	)
	switch cfg.Backend {
	case "sim", "":
		sim, err = gpio.NewSim(platform.LEDCount, platform.SwitchCount)
		ctrl = sim
	case "hardware":
		ctrl, err = platform.Open(cfg.Board)
	default:
		err = &errcode.E{C: errcode.InvalidParams, Op: "patternsim", Msg: "unknown backend " + cfg.Backend}
	}
	if err != nil {
		return err
	}

	b := bus.NewBus(8)
	conn := b.NewConnection("patternsim")
	values := conn.Subscribe(ledloop.TopicValue)
	defer conn.Unsubscribe(values)

	step := 0
	feed := func() {
		if sim != nil && len(cfg.Script) > 0 {
			sim.SetSwitches(cfg.Script[step%len(cfg.Script)])
		}
	}
	feed()

	// Runs on the loop goroutine right after each value is published.
	sleep := func(ctx context.Context, d time.Duration) bool {
		for {
			select {
			case m := <-values.Channel():
				if v, ok := m.Payload.(types.PatternValue); ok {
					fmtx.Fprintf(out, "#%d sw=%02b mode=%-13s leds=%s\n",
						v.Iteration, v.Switches, v.ModeName, leds(pattern.Pattern(v.Output)))
				}
				continue
			default:
			}
			break
		}
		step++
		if cfg.Iterations > 0 && step >= cfg.Iterations {
			return false
		}
		feed()
		if cfg.Fast {
			return ctx.Err() == nil
		}
		return timex.Sleep(ctx, d)
	}

	loop := ledloop.New(ctrl, ledloop.Config{
		Interval: time.Duration(cfg.IntervalMs) * time.Millisecond,
		Sleep:    sleep,
	})
	return loop.Run(ctx, conn)
}

// leds draws LED3..LED0 left to right.
func leds(p pattern.Pattern) string {
	var s []rune
	for _, c := range p.Bits() {
		if c == '1' {
			s = append(s, '●')
		} else {
			s = append(s, '○')
		}
	}
	return string(s)
}
