//go:build rp2040 || rp2350

package fmtx

import (
	"io"
)

// DefaultOutput is used by Printf/Println on MCU builds.
// Set this from the platform bootstrap (e.g. a UART writer).
var DefaultOutput io.Writer = discard{}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// --- Public API (signatures match fmt) ---

func Sprintf(format string, a ...any) string {
	var b builder
	b.format(format, a...)
	return string(b.buf)
}

func Printf(format string, a ...any) (int, error) {
	return Fprintf(DefaultOutput, format, a...)
}

func Println(a ...any) (int, error) {
	var b builder
	for i, v := range a {
		if i > 0 {
			b.byte(' ')
		}
		b.any(v)
	}
	b.byte('\n')
	return DefaultOutput.Write(b.buf)
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	var b builder
	b.format(format, a...)
	return w.Write(b.buf)
}

func Errorf(format string, a ...any) error {
	return &stringError{Sprintf(format, a...)}
}

// --- Internals: tiny formatter subset ---
// Supports: %s %d %x %X %b %v %t %% with an optional width; a leading 0 in
// the width pads numbers with zeros. Error values print via Error().

type stringError struct{ s string }

func (e *stringError) Error() string { return e.s }

type builder struct{ buf []byte }

func (b *builder) byte(c byte)  { b.buf = append(b.buf, c) }
func (b *builder) str(s string) { b.buf = append(b.buf, s...) }

func (b *builder) any(v any) {
	switch x := v.(type) {
	case string:
		b.str(x)
	case []byte:
		b.buf = append(b.buf, x...)
	case bool:
		if x {
			b.str("true")
		} else {
			b.str("false")
		}
	case error:
		b.str(x.Error())
	case interface{ String() string }:
		b.str(x.String())
	default:
		if u, neg, ok := toU64(v); ok {
			if neg {
				b.byte('-')
			}
			b.str(formatUint(u, 10, false))
			return
		}
		b.str("<unk>")
	}
}

func (b *builder) pad(s string, width int, zero bool) {
	c := byte(' ')
	if zero {
		c = '0'
	}
	for n := len(s); n < width; n++ {
		b.byte(c)
	}
	b.str(s)
}

func (b *builder) format(format string, args ...any) {
	ai := 0
	for i := 0; i < len(format); {
		if format[i] != '%' {
			b.byte(format[i])
			i++
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			b.byte('%')
			i += 2
			continue
		}
		i++
		zero := i < len(format) && format[i] == '0'
		width := 0
		for i < len(format) && '0' <= format[i] && format[i] <= '9' {
			width = width*10 + int(format[i]-'0')
			i++
		}
		if i >= len(format) || ai >= len(args) {
			return
		}
		verb := format[i]
		arg := args[ai]
		ai++
		i++

		switch verb {
		case 'd', 'x', 'X', 'b':
			u, neg, ok := toU64(arg)
			if !ok {
				b.any(arg)
				continue
			}
			base := uint64(10)
			switch verb {
			case 'x', 'X':
				base = 16
			case 'b':
				base = 2
			}
			s := formatUint(u, base, verb == 'X')
			if neg {
				s = "-" + s
			}
			b.pad(s, width, zero)
		case 't', 's', 'v':
			var tmp builder
			tmp.any(arg)
			b.pad(string(tmp.buf), width, false)
		default:
			b.byte('%')
			b.byte(verb)
		}
	}
}

func formatUint(u uint64, base uint64, upper bool) string {
	digits := "0123456789abcdef"
	if upper {
		digits = "0123456789ABCDEF"
	}
	var buf [64]byte
	i := len(buf)
	for {
		i--
		buf[i] = digits[u%base]
		u /= base
		if u == 0 {
			break
		}
	}
	return string(buf[i:])
}

func toU64(v any) (u uint64, neg bool, ok bool) {
	var s int64
	switch t := v.(type) {
	case uint:
		return uint64(t), false, true
	case uint8:
		return uint64(t), false, true
	case uint16:
		return uint64(t), false, true
	case uint32:
		return uint64(t), false, true
	case uint64:
		return t, false, true
	case int:
		s = int64(t)
	case int8:
		s = int64(t)
	case int16:
		s = int64(t)
	case int32:
		s = int64(t)
	case int64:
		s = t
	default:
		return 0, false, false
	}
	if s < 0 {
		return uint64(-s), true, true
	}
	return uint64(s), false, true
}
