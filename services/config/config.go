package config

import (
	"context"
	"encoding/json"

	"ledpattern-go/bus"
	"ledpattern-go/errcode"
	"ledpattern-go/types"
	"ledpattern-go/x/fmtx"
)

const (
	serviceName  = "config"
	configPrefix = "config"

	keyBoard   = "board"
	keyPattern = "pattern"
)

type ctxKey string

// CtxDeviceKey is the context key holding the device ID.
const CtxDeviceKey ctxKey = "device"

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// load returns the top-level sections of the embedded config for device.
func load(device string) (map[string]json.RawMessage, error) {
	if device == "" {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "config.load", Msg: "missing device ID"}
	}
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "config.load", Msg: "no embedded config for device: " + device}
	}
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, &errcode.E{C: errcode.InvalidPayload, Op: "config.load", Msg: "embedded config is not a JSON object", Err: err}
	}
	return sections, nil
}

// decode turns a section into its typed payload when the key is known,
// otherwise into generic JSON values.
func decode(key string, raw json.RawMessage) (any, error) {
	var v any
	switch key {
	case keyBoard:
		var b types.BoardConfig
		err := json.Unmarshal(raw, &b)
		v = b
		if err != nil {
			return nil, err
		}
	case keyPattern:
		var p types.PatternConfig
		err := json.Unmarshal(raw, &p)
		v = p
		if err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// BoardConfig decodes the board section for device. The bootstrap needs it
// before any service is running.
func BoardConfig(device string) (types.BoardConfig, error) {
	sections, err := load(device)
	if err != nil {
		return types.BoardConfig{}, err
	}
	raw, ok := sections[keyBoard]
	if !ok {
		return types.BoardConfig{}, &errcode.E{C: errcode.InvalidParams, Op: "config.board", Msg: "no board section for device: " + device}
	}
	v, err := decode(keyBoard, raw)
	if err != nil {
		return types.BoardConfig{}, &errcode.E{C: errcode.InvalidPayload, Op: "config.board", Err: err}
	}
	return v.(types.BoardConfig), nil
}

// publishConfig publishes each top-level section of the device config as a
// retained message on config/<key>.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	sections, err := load(device)
	if err != nil {
		return err
	}
	for k, raw := range sections {
		v, err := decode(k, raw)
		if err != nil {
			return &errcode.E{C: errcode.InvalidPayload, Op: "config.publish", Msg: k, Err: err}
		}
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), v, true))
	}
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			fmtx.Printf("[config] %v\n", err)
		}
	}()
}
