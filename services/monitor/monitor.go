// Package monitor reports the pattern loop on the console: one line per
// published value, state changes, GPIO status, and a periodic heartbeat.
package monitor

import (
	"context"
	"io"
	"time"

	"ledpattern-go/bus"
	"ledpattern-go/pattern"
	"ledpattern-go/types"
	"ledpattern-go/x/fmtx"
)

const DefaultHeartbeat = 10 * time.Second

var (
	topicPattern = bus.T("pattern", "#")
	topicConfig  = bus.T("config", "monitor")
)

type Service struct {
	Out       io.Writer     // nil means fmtx.DefaultOutput
	Heartbeat time.Duration // zero means DefaultHeartbeat
}

func (s *Service) out() io.Writer {
	if s.Out != nil {
		return s.Out
	}
	return fmtx.DefaultOutput
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	patSub := conn.Subscribe(topicPattern)
	defer conn.Unsubscribe(patSub)
	cfgSub := conn.Subscribe(topicConfig)
	defer conn.Unsubscribe(cfgSub)

	every := s.Heartbeat
	if every <= 0 {
		every = DefaultHeartbeat
	}
	tick := time.NewTicker(every)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			fmtx.Fprintf(s.out(), "[monitor] stopping\n")
			return
		case t := <-tick.C:
			fmtx.Fprintf(s.out(), "[monitor] %s heartbeat\n", t.Format("15:04:05"))
		case msg := <-patSub.Channel():
			s.report(msg)
		case msg := <-cfgSub.Channel():
			// {"interval": seconds}
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := m["interval"].(float64); ok && iv > 0 {
					tick.Reset(time.Duration(iv * float64(time.Second)))
					fmtx.Fprintf(s.out(), "[monitor] heartbeat every %d s\n", int(iv))
				}
			}
		}
	}
}

func (s *Service) report(msg *bus.Message) {
	w := s.out()
	switch v := msg.Payload.(type) {
	case types.PatternValue:
		fmtx.Fprintf(w, "[pattern] #%d mode=%s sw=%d base=%s out=%s\n",
			v.Iteration, v.ModeName, v.Switches, pattern.Pattern(v.Base).Bits(), pattern.Pattern(v.Output).Bits())
	case types.ServiceState:
		if v.Status != "" {
			fmtx.Fprintf(w, "[pattern] state=%s (%s)\n", string(v.Level), v.Status)
		} else {
			fmtx.Fprintf(w, "[pattern] state=%s\n", string(v.Level))
		}
	case types.ChannelStatus:
		if v.Link == types.LinkDegraded {
			fmtx.Fprintf(w, "[pattern] gpio degraded: %s\n", v.Error)
		}
	}
}

// Start the monitor service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) {
	go s.serviceLoop(ctx, conn)
}
