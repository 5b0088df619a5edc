package fmtx

import (
	"bytes"
	"errors"
	"testing"
)

func TestSprintfVerbs(t *testing.T) {
	type C struct {
		fmt  string
		args []any
		want string
	}
	for _, c := range []C{
		{"hello %s", []any{"world"}, "hello world"},
		{"num %d hex %x HEX %X", []any{255, 255, 255}, "num 255 hex ff HEX FF"},
		{"bits %04b", []any{uint8(5)}, "bits 0101"},
		{"neg %d", []any{-42}, "neg -42"},
		{"bool %t %t", []any{true, false}, "bool true false"},
		{"literal %%", nil, "literal %"},
		{"v=%v", []any{123}, "v=123"},
		{"err=%v", []any{errors.New("init_failed")}, "err=init_failed"},
	} {
		got := Sprintf(c.fmt, c.args...)
		if got != c.want {
			t.Fatalf("Sprintf(%q, ...) = %q, want %q", c.fmt, got, c.want)
		}
	}
}

func TestPrintToDefaultOutput(t *testing.T) {
	var buf bytes.Buffer
	old := DefaultOutput
	DefaultOutput = &buf
	t.Cleanup(func() { DefaultOutput = old })

	Printf("[%s] mode=%d\n", "pattern", 2)
	Println("[main]", "boot")
	if got, want := buf.String(), "[pattern] mode=2\n[main] boot\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}

	var w bytes.Buffer
	Fprintf(&w, "%02d", 7)
	if w.String() != "07" {
		t.Fatalf("Fprintf = %q", w.String())
	}
	if Errorf("x=%d", 1).Error() != "x=1" {
		t.Fatal("Errorf")
	}
}
