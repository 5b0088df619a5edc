// Package ledloop runs the sense→compute→emit→delay cycle: it samples the
// switches, derives the LED pattern for the current mode, drives the LEDs,
// advances the mode and waits one interval.
package ledloop

import (
	"context"
	"errors"
	"time"

	"ledpattern-go/bus"
	"ledpattern-go/errcode"
	"ledpattern-go/pattern"
	"ledpattern-go/services/hal/gpio"
	"ledpattern-go/types"
	"ledpattern-go/x/fmtx"
	"ledpattern-go/x/mathx"
	"ledpattern-go/x/timex"
)

const (
	DefaultInterval = time.Second
	MinInterval     = 10 * time.Millisecond
	MaxInterval     = time.Hour

	// Direction masks: a set bit is an input.
	LEDDirection    = 0x0
	SwitchDirection = pattern.SwitchMask
)

var (
	TopicValue  = bus.T("pattern", "value")
	TopicState  = bus.T("pattern", "state")
	TopicStatus = bus.T("pattern", "status")
	TopicConfig = bus.T("config", "pattern")
)

func topicInfo(ch gpio.Channel) bus.Topic { return bus.T("pattern", "info", ch.String()) }

// Sleeper waits d or until ctx is done, reporting whether d elapsed.
type Sleeper func(ctx context.Context, d time.Duration) bool

type Config struct {
	Interval time.Duration // zero means DefaultInterval
	Sleep    Sleeper       // nil means timex.Sleep
}

type Service struct {
	ctrl     gpio.Controller
	interval time.Duration
	sleep    Sleeper

	mode     pattern.Mode
	iter     uint64
	degraded bool
}

func New(ctrl gpio.Controller, cfg Config) *Service {
	s := &Service{ctrl: ctrl, interval: DefaultInterval, sleep: cfg.Sleep}
	if cfg.Interval > 0 {
		s.interval = mathx.Clamp(cfg.Interval, MinInterval, MaxInterval)
	}
	if s.sleep == nil {
		s.sleep = timex.Sleep
	}
	return s
}

// Mode is the transform mode the next Step will apply.
func (s *Service) Mode() pattern.Mode { return s.mode }

func (s *Service) Interval() time.Duration { return s.interval }

// Init sets the LED channel to outputs and the switch channel to inputs.
// Any failure is an InitFailed error and the loop must not run.
func (s *Service) Init() error {
	if err := s.ctrl.ConfigureDirection(gpio.ChannelLED, LEDDirection); err != nil {
		return &errcode.E{C: errcode.InitFailed, Op: "ledloop.init", Msg: gpio.ChannelLED.String(), Err: err}
	}
	if err := s.ctrl.ConfigureDirection(gpio.ChannelSwitch, SwitchDirection); err != nil {
		return &errcode.E{C: errcode.InitFailed, Op: "ledloop.init", Msg: gpio.ChannelSwitch.String(), Err: err}
	}
	return nil
}

// Step performs one iteration. A failed read is treated as all switches
// off; I/O errors are returned for reporting but the mode still advances.
func (s *Service) Step() (types.PatternValue, error) {
	raw, rerr := s.ctrl.ReadBits(gpio.ChannelSwitch)
	if rerr != nil {
		raw = 0
	}
	sw := pattern.Switches(raw & pattern.SwitchMask)
	base, out := pattern.Compute(sw, s.mode)
	werr := s.ctrl.WriteBits(gpio.ChannelLED, uint32(out))

	v := types.PatternValue{
		Iteration: s.iter,
		Switches:  uint8(sw),
		Mode:      uint8(s.mode),
		ModeName:  s.mode.String(),
		Base:      uint8(base),
		Output:    uint8(out),
		TS:        timex.NowMs(),
	}
	s.mode = s.mode.Next()
	s.iter++
	return v, errors.Join(rerr, werr)
}

// Run initialises the channels and loops until ctx is done. It returns the
// init error without entering the loop, or nil once ctx is cancelled.
func (s *Service) Run(ctx context.Context, conn *bus.Connection) error {
	if err := s.Init(); err != nil {
		fmtx.Printf("[pattern] GPIO init failed: %v\n", err)
		s.pubState(conn, types.StateFailed, string(errcode.Of(err)))
		return err
	}
	cfgSub := conn.Subscribe(TopicConfig)
	defer conn.Unsubscribe(cfgSub)

	s.pubInfo(conn)
	s.pubState(conn, types.StateRunning, "")
	conn.Publish(conn.NewMessage(TopicStatus, types.ChannelStatus{Link: types.LinkUp, TS: timex.NowMs()}, true))

	for {
		s.applyPendingConfig(cfgSub)

		v, err := s.Step()
		conn.Publish(conn.NewMessage(TopicValue, v, true))
		s.pubStatus(conn, err)

		if !s.sleep(ctx, s.interval) {
			s.pubState(conn, types.StateStopped, "context_cancelled")
			return nil
		}
	}
}

// Start runs the service in its own goroutine.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go func() { _ = s.Run(ctx, conn) }()
}

func (s *Service) applyPendingConfig(sub *bus.Subscription) {
	for {
		select {
		case msg := <-sub.Channel():
			if d, ok := intervalFrom(msg.Payload); ok {
				s.interval = mathx.Clamp(d, MinInterval, MaxInterval)
				fmtx.Printf("[pattern] interval set to %d ms\n", s.interval.Milliseconds())
			}
		default:
			return
		}
	}
}

// intervalFrom accepts a types.PatternConfig or a decoded JSON object with
// an "interval_ms" number.
func intervalFrom(p any) (time.Duration, bool) {
	var ms float64
	switch v := p.(type) {
	case types.PatternConfig:
		ms = float64(v.IntervalMs)
	case *types.PatternConfig:
		if v == nil {
			return 0, false
		}
		ms = float64(v.IntervalMs)
	case map[string]any:
		switch n := v["interval_ms"].(type) {
		case float64:
			ms = n
		case int:
			ms = float64(n)
		case int64:
			ms = float64(n)
		default:
			return 0, false
		}
	default:
		return 0, false
	}
	if ms <= 0 {
		return 0, false
	}
	return time.Duration(ms * float64(time.Millisecond)), true
}

func (s *Service) pubStatus(conn *bus.Connection, err error) {
	if err != nil {
		fmtx.Printf("[pattern] gpio error: %v\n", err)
		s.degraded = true
		conn.Publish(conn.NewMessage(TopicStatus, types.ChannelStatus{
			Link: types.LinkDegraded, TS: timex.NowMs(), Error: string(errcode.Of(err)),
		}, true))
		return
	}
	if s.degraded {
		s.degraded = false
		conn.Publish(conn.NewMessage(TopicStatus, types.ChannelStatus{Link: types.LinkUp, TS: timex.NowMs()}, true))
	}
}

func (s *Service) pubState(conn *bus.Connection, level types.State, status string) {
	conn.Publish(conn.NewMessage(TopicState, types.ServiceState{Level: level, Status: status, TS: timex.NowMs()}, true))
}

func (s *Service) pubInfo(conn *bus.Connection) {
	for _, ci := range []types.ChannelInfo{
		{Channel: uint8(gpio.ChannelLED), Width: 4, InputMask: LEDDirection},
		{Channel: uint8(gpio.ChannelSwitch), Width: 2, InputMask: SwitchDirection},
	} {
		conn.Publish(conn.NewMessage(topicInfo(gpio.Channel(ci.Channel)),
			types.Info{SchemaVersion: 1, Driver: "ledloop", Detail: ci}, true))
	}
}
