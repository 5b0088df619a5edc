//go:build !(rp2040 || rp2350)

package fmtx

import (
	"fmt"
	"io"
	"os"
)

// DefaultOutput receives Printf/Println output.
var DefaultOutput io.Writer = os.Stdout

func Sprintf(format string, a ...any) string                    { return fmt.Sprintf(format, a...) }
func Printf(format string, a ...any) (int, error)               { return fmt.Fprintf(DefaultOutput, format, a...) }
func Println(a ...any) (int, error)                             { return fmt.Fprintln(DefaultOutput, a...) }
func Fprintf(w io.Writer, format string, a ...any) (int, error) { return fmt.Fprintf(w, format, a...) }
func Errorf(format string, a ...any) error                      { return fmt.Errorf(format, a...) }
