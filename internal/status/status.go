// Package status writes the ✓/✗ lines printed by the genicons commands.
package status

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	okMark   = color.New(color.FgGreen, color.Bold)
	failMark = color.New(color.FgRed, color.Bold)
)

// Configure enables color only when f is a terminal and NO_COLOR is unset.
func Configure(f *os.File) {
	color.NoColor = os.Getenv("NO_COLOR") != "" || !term.IsTerminal(int(f.Fd()))
}

// OK prints a success line: "✓ <message>".
func OK(w io.Writer, format string, args ...any) {
	okMark.Fprint(w, "✓")
	fmt.Fprintf(w, " "+format+"\n", args...)
}

// Fail prints a failure line: "✗ <message>".
func Fail(w io.Writer, format string, args ...any) {
	failMark.Fprint(w, "✗")
	fmt.Fprintf(w, " "+format+"\n", args...)
}
