// Package icons renders the front end's fixed set of SVG icon sources to
// PNG files at their favicon/logo sizes.
package icons

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Mavwarf/genicons/internal/paths"
	"github.com/Mavwarf/genicons/internal/status"
)

// FaviconGeneratorURL is the manual tool used for favicon.ico, which this
// package never produces.
const FaviconGeneratorURL = "https://www.favicon-generator.org/"

// FaviconSource is the file to upload to FaviconGeneratorURL.
const FaviconSource = "favicon.svg"

// Spec describes one conversion: an SVG source rendered to a square PNG.
type Spec struct {
	Input  string
	Output string
	Size   int
}

// Specs returns the fixed conversion list in processing order.
func Specs() []Spec {
	return []Spec{
		{Input: "apple-touch-icon.png.svg", Output: "apple-touch-icon.png", Size: 180},
		{Input: "logo192.png.svg", Output: "logo192.png", Size: 192},
		{Input: "logo512.png.svg", Output: "logo512.png", Size: 512},
	}
}

// Renderer writes a width×height raster of the SVG at inputPath to outputPath.
type Renderer interface {
	Render(inputPath, outputPath string, width, height int) error
}

// Status is the result of one conversion.
type Status int

const (
	StatusGenerated Status = iota
	StatusMissing
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusGenerated:
		return "generated"
	case StatusMissing:
		return "missing"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Outcome pairs a spec with what happened to it. Err is nil for
// StatusGenerated.
type Outcome struct {
	Spec   Spec
	Status Status
	Err    error
}

// Report collects the outcomes of one Convert call in spec order.
type Report struct {
	Outcomes []Outcome
}

// Generated returns the number of PNG files written.
func (r Report) Generated() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusGenerated {
			n++
		}
	}
	return n
}

// Failed returns the number of specs that were skipped or failed to render.
func (r Report) Failed() int {
	return len(r.Outcomes) - r.Generated()
}

// Convert renders every spec from dir into dir, printing one status line
// per spec to w. A missing input or a render error is reported and the
// loop moves on; Convert itself never fails.
func Convert(dir string, r Renderer, w io.Writer) Report {
	var rep Report
	for _, spec := range Specs() {
		rep.Outcomes = append(rep.Outcomes, convertOne(dir, spec, r, w))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "PNG generation complete!")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Note: You still need to generate favicon.ico manually.")
	fmt.Fprintf(w, "Visit: %s\n", FaviconGeneratorURL)
	fmt.Fprintf(w, "Upload: %s\n", filepath.ToSlash(filepath.Join(filepath.Base(dir), FaviconSource)))
	fmt.Fprintln(w)
	return rep
}

func convertOne(dir string, spec Spec, r Renderer, w io.Writer) Outcome {
	in := filepath.Join(dir, spec.Input)
	out := filepath.Join(dir, spec.Output)

	if !paths.Exists(in) {
		status.Fail(w, "Input file not found: %s", spec.Input)
		return Outcome{Spec: spec, Status: StatusMissing, Err: fmt.Errorf("input file not found: %s", spec.Input)}
	}

	if err := r.Render(in, out, spec.Size, spec.Size); err != nil {
		status.Fail(w, "Failed to generate %s: %v", spec.Output, err)
		return Outcome{Spec: spec, Status: StatusFailed, Err: err}
	}

	status.OK(w, "Generated: %s (%dx%d)", spec.Output, spec.Size, spec.Size)
	return Outcome{Spec: spec, Status: StatusGenerated}
}

// PrintHeader prints the banner shown at the top of every run.
func PrintHeader(w io.Writer) {
	fmt.Fprintln(w, "Icon Generation Script")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w)
}

// PrintAvailable reports that the named renderer was acquired.
func PrintAvailable(w io.Writer, renderer string) {
	status.OK(w, "%s is available", renderer)
	fmt.Fprintln(w)
}

// PrintUnavailable prints installation guidance, the manual conversion
// workflow and the list of files the run would have produced from dir. It
// touches nothing on disk.
func PrintUnavailable(w io.Writer, dir, renderer, installHint string, reason error) {
	fmt.Fprintf(w, "%s is not available.\n", renderer)
	if reason != nil {
		fmt.Fprintf(w, "Reason: %v\n", reason)
	}
	fmt.Fprintln(w)
	if installHint != "" {
		fmt.Fprintf(w, "To install %s:\n", renderer)
		for _, line := range strings.Split(installHint, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "Or use online converters:")
	fmt.Fprintln(w, "  1. Visit: https://cloudconvert.com/svg-to-png")
	fmt.Fprintf(w, "  2. Upload SVG files from %s/ directory\n", filepath.Base(dir))
	fmt.Fprintln(w, "  3. Download and rename as needed")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Required files:")
	for _, s := range Specs() {
		fmt.Fprintf(w, "  - %s → %s (%dx%d)\n", s.Input, s.Output, s.Size, s.Size)
	}
	fmt.Fprintln(w)
}
