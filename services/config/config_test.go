// config/config_test.go
package config

import (
	"context"
	"testing"
	"time"

	"ledpattern-go/bus"
	"ledpattern-go/errcode"
	"ledpattern-go/types"
)

func TestConfig_PublishEmbedded_RetainedPerKey(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) {
		if device != "pico" {
			return nil, false
		}
		return []byte(`{
			"board": {"leds": {"pins": [2, 3, 4, 5], "active_low": true}, "switches": {"pins": [6, 7]}},
			"pattern": {"interval_ms": 500},
			"monitor": {"interval": 2}
		}`), true
	}
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "pico")
	svc.Start(ctx, conn)

	sub := conn.Subscribe(bus.T(configPrefix, "#"))

	wantCount := 3
	got := map[string]any{}
	deadline := time.Now().Add(600 * time.Millisecond)
	for len(got) < wantCount && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			if m.Topic.Len() != 2 {
				t.Fatalf("unexpected topic: %#v", m.Topic)
			}
			if prefix, ok := m.Topic.At(0).(string); !ok || prefix != configPrefix {
				t.Fatalf("unexpected prefix: %#v", m.Topic.At(0))
			}
			key, ok := m.Topic.At(1).(string)
			if !ok {
				t.Fatalf("topic[1] type %T, want string", m.Topic.At(1))
			}
			got[key] = m.Payload
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(got) != wantCount {
		t.Fatalf("expected %d retained messages, got %d (%v)", wantCount, len(got), got)
	}

	board, ok := got["board"].(types.BoardConfig)
	if !ok {
		t.Fatalf("board payload type = %T", got["board"])
	}
	if len(board.LEDs.Pins) != 4 || !board.LEDs.ActiveLow || board.Switches.Pins[1] != 7 {
		t.Fatalf("board = %+v", board)
	}
	if p, ok := got["pattern"].(types.PatternConfig); !ok || p.IntervalMs != 500 {
		t.Fatalf("pattern payload = %#v", got["pattern"])
	}
	if m, ok := got["monitor"].(map[string]any); !ok || m["interval"] != float64(2) {
		t.Fatalf("monitor payload = %#v", got["monitor"])
	}
}

func TestConfig_PublishConfig_MissingDevice(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-missing-device")
	svc := NewConfigService()

	if err := svc.publishConfig(context.Background(), conn); err == nil {
		t.Fatal("expected error for missing device ID, got nil")
	}
}

func TestConfig_PublishConfig_NoConfigFound(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(device string) ([]byte, bool) { return nil, false }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	b := bus.NewBus(4)
	conn := b.NewConnection("test-no-config")
	svc := NewConfigService()

	ctx := context.WithValue(context.Background(), CtxDeviceKey, "unknown-device")
	if err := svc.publishConfig(ctx, conn); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("expected invalid_params for missing embedded config, got %v", err)
	}
}

func TestConfig_BadJSON(t *testing.T) {
	oldLookup := EmbeddedConfigLookup
	EmbeddedConfigLookup = func(string) ([]byte, bool) { return []byte(`[1, 2]`), true }
	t.Cleanup(func() { EmbeddedConfigLookup = oldLookup })

	if _, err := BoardConfig("pico"); errcode.Of(err) != errcode.InvalidPayload {
		t.Fatalf("expected invalid_payload, got %v", err)
	}
}

func TestBoardConfig_Embedded(t *testing.T) {
	b, err := BoardConfig("pico")
	if err != nil {
		t.Fatalf("BoardConfig(pico): %v", err)
	}
	if b.Backend != "pins" || len(b.LEDs.Pins) != 4 || len(b.Switches.Pins) != 2 || b.Switches.Pull != "down" {
		t.Fatalf("pico board = %+v", b)
	}
	x, err := BoardConfig("pico_expander")
	if err != nil {
		t.Fatalf("BoardConfig(pico_expander): %v", err)
	}
	if x.Backend != "mcp23017" || x.I2CAddress != 0x20 || x.I2CHz != 400000 {
		t.Fatalf("expander board = %+v", x)
	}
}
