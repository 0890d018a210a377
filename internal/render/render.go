// Package render provides the backends that turn an SVG file into a
// fixed-size PNG: an in-process rasterizer and wrappers around external
// converter binaries.
package render

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Mavwarf/genicons/internal/icons"
)

const (
	NameBuiltin  = "builtin"
	NameRSVG     = "rsvg-convert"
	NameInkscape = "inkscape"
)

// ErrUnavailable is wrapped by every Acquire error.
var ErrUnavailable = errors.New("renderer unavailable")

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Names lists the renderer names Acquire accepts.
func Names() []string {
	return []string{NameBuiltin, NameRSVG, NameInkscape}
}

// Acquire returns the renderer registered under name. External tools must
// be on PATH; the builtin renderer is always available.
func Acquire(name string) (icons.Renderer, error) {
	switch name {
	case NameBuiltin:
		return Builtin{}, nil
	case NameRSVG, NameInkscape:
		p, err := lookPath(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s not found on PATH: %v", ErrUnavailable, name, err)
		}
		return Tool{Name: name, Path: p}, nil
	}
	return nil, fmt.Errorf("%w: unknown renderer %q (want one of %s)",
		ErrUnavailable, name, strings.Join(Names(), ", "))
}

// InstallHint returns how to get the named renderer onto this machine.
func InstallHint(name string) string {
	switch name {
	case NameBuiltin:
		return ""
	case NameRSVG:
		return "Debian/Ubuntu: sudo apt install librsvg2-bin\n" +
			"macOS:         brew install librsvg\n" +
			"Windows:       choco install rsvg-convert"
	case NameInkscape:
		return "Debian/Ubuntu: sudo apt install inkscape\n" +
			"macOS:         brew install --cask inkscape\n" +
			"Windows:       winget install Inkscape.Inkscape"
	}
	return fmt.Sprintf("Set GENICONS_RENDERER to one of: %s", strings.Join(Names(), ", "))
}
