package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mavwarf/genicons/internal/config"
	"github.com/Mavwarf/genicons/internal/history"
	"github.com/Mavwarf/genicons/internal/icons"
	"github.com/Mavwarf/genicons/internal/render"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func iconSVG(fill string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64">
<circle cx="32" cy="32" r="30" fill="%s"/>
</svg>`, fill)
}

// setup creates a public dir holding the named inputs and returns a config
// pointing at it.
func setup(t *testing.T, inputs map[string]string) config.Config {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "public")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range inputs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := config.Default()
	cfg.Dir = dir
	cfg.HistoryDB = filepath.Join(root, "data", "genicons.db")
	return cfg
}

func allInputs() map[string]string {
	return map[string]string{
		"apple-touch-icon.png.svg": iconSVG("#1e88e5"),
		"logo192.png.svg":          iconSVG("#43a047"),
		"logo512.png.svg":          iconSVG("#e53935"),
	}
}

func pngSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	return cfg.Width, cfg.Height
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func unavailable(name string) (icons.Renderer, error) {
	return nil, fmt.Errorf("%w: %s not found on PATH", render.ErrUnavailable, name)
}

func TestRunUnavailableExitsOneWithoutWrites(t *testing.T) {
	cfg := setup(t, allInputs())
	cfg.Renderer = render.NameRSVG
	cfg.Log = true
	before := listDir(t, cfg.Dir)
	var stdout, stderr bytes.Buffer

	code := run(cfg, unavailable, &stdout, &stderr)

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	out := stdout.String()
	for _, want := range []string{
		"rsvg-convert is not available.",
		"To install rsvg-convert:",
		"apple-touch-icon.png.svg → apple-touch-icon.png (180x180)",
		"logo192.png.svg → logo192.png (192x192)",
		"logo512.png.svg → logo512.png (512x512)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Generating PNG files") {
		t.Error("no conversion should be attempted")
	}
	if after := listDir(t, cfg.Dir); len(after) != len(before) {
		t.Errorf("public dir changed: %v -> %v", before, after)
	}
	if _, err := os.Stat(cfg.HistoryDB); !os.IsNotExist(err) {
		t.Error("history must not be written when the renderer is unavailable")
	}
}

func TestRunUnknownRendererIsUnavailable(t *testing.T) {
	cfg := setup(t, allInputs())
	cfg.Renderer = "cairosvg"
	var stdout, stderr bytes.Buffer

	if code := run(cfg, render.Acquire, &stdout, &stderr); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout.String(), "GENICONS_RENDERER") {
		t.Errorf("guidance should name the setting:\n%s", stdout.String())
	}
}

func TestRunAllInputsBuiltin(t *testing.T) {
	cfg := setup(t, allInputs())
	var stdout, stderr bytes.Buffer

	if code := run(cfg, render.Acquire, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0\n%s%s", code, stdout.String(), stderr.String())
	}
	for _, s := range icons.Specs() {
		w, h := pngSize(t, filepath.Join(cfg.Dir, s.Output))
		if w != s.Size || h != s.Size {
			t.Errorf("%s = %dx%d, want %dx%d", s.Output, w, h, s.Size, s.Size)
		}
	}
	if !strings.Contains(stdout.String(), "✓ builtin is available") {
		t.Errorf("missing availability line:\n%s", stdout.String())
	}
}

func TestRunRerunOverwrites(t *testing.T) {
	cfg := setup(t, allInputs())
	for i := 0; i < 2; i++ {
		var stdout, stderr bytes.Buffer
		if code := run(cfg, render.Acquire, &stdout, &stderr); code != 0 {
			t.Fatalf("run %d: exit code = %d", i+1, code)
		}
		if w, h := pngSize(t, filepath.Join(cfg.Dir, "logo512.png")); w != 512 || h != 512 {
			t.Errorf("run %d: logo512.png = %dx%d", i+1, w, h)
		}
	}
}

func TestRunMissingInputStillExitsZero(t *testing.T) {
	inputs := allInputs()
	delete(inputs, "logo192.png.svg")
	cfg := setup(t, inputs)
	var stdout, stderr bytes.Buffer

	if code := run(cfg, render.Acquire, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "✗ Input file not found: logo192.png.svg") {
		t.Errorf("missing failure notice:\n%s", stdout.String())
	}
	for _, name := range []string{"apple-touch-icon.png", "logo512.png"} {
		if _, err := os.Stat(filepath.Join(cfg.Dir, name)); err != nil {
			t.Errorf("%s should be generated: %v", name, err)
		}
	}
}

func TestRunCorruptSVGStillExitsZero(t *testing.T) {
	inputs := allInputs()
	inputs["apple-touch-icon.png.svg"] = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64"><circle`
	cfg := setup(t, inputs)
	var stdout, stderr bytes.Buffer

	if code := run(cfg, render.Acquire, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "✗ Failed to generate apple-touch-icon.png: parse svg") {
		t.Errorf("failure description missing:\n%s", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(cfg.Dir, "logo512.png")); err != nil {
		t.Errorf("remaining specs should still run: %v", err)
	}
}

func TestRunUnsupportedSVGReportsFailure(t *testing.T) {
	inputs := allInputs()
	inputs["logo192.png.svg"] = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 64"><text x="8" y="48">R</text></svg>`
	cfg := setup(t, inputs)
	var stdout, stderr bytes.Buffer

	if code := run(cfg, render.Acquire, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "✗ Failed to generate logo192.png: parse svg") {
		t.Errorf("unsupported content should be reported as a failure:\n%s", stdout.String())
	}
	if strings.Contains(stdout.String(), "✓ Generated: logo192.png") {
		t.Error("logo192.png must not be reported as generated")
	}
}

func TestRunStrictModeFailsOnPartial(t *testing.T) {
	inputs := allInputs()
	delete(inputs, "logo512.png.svg")
	cfg := setup(t, inputs)
	cfg.Strict = true
	var stdout, stderr bytes.Buffer

	if code := run(cfg, render.Acquire, &stdout, &stderr); code != 1 {
		t.Errorf("exit code = %d, want 1 in strict mode", code)
	}
}

func TestRunStrictModeAllGood(t *testing.T) {
	cfg := setup(t, allInputs())
	cfg.Strict = true
	var stdout, stderr bytes.Buffer

	if code := run(cfg, render.Acquire, &stdout, &stderr); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	inputs := allInputs()
	delete(inputs, "logo192.png.svg")
	cfg := setup(t, inputs)
	cfg.Log = true
	var stdout, stderr bytes.Buffer

	if code := run(cfg, render.Acquire, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code = %d", code)
	}

	store, err := history.NewSQLiteStore(cfg.HistoryDB)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	runs, err := store.Runs(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].Generated() != 2 || runs[0].Conversions[1].Status != "missing" {
		t.Errorf("run = %+v", runs[0])
	}
}

func TestRunHistoryErrorDoesNotChangeExitCode(t *testing.T) {
	cfg := setup(t, allInputs())
	cfg.Log = true
	// A regular file where the database directory should be.
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg.HistoryDB = filepath.Join(blocker, "genicons.db")
	var stdout, stderr bytes.Buffer

	if code := run(cfg, render.Acquire, &stdout, &stderr); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stderr.String(), "history:") {
		t.Errorf("stderr should report the history error, got %q", stderr.String())
	}
}

func TestRunMQTTErrorDoesNotChangeExitCode(t *testing.T) {
	cfg := setup(t, allInputs())
	cfg.MQTT.Broker = "tcp://127.0.0.1:19999"
	var stdout, stderr bytes.Buffer

	if code := run(cfg, render.Acquire, &stdout, &stderr); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stderr.String(), "mqtt:") {
		t.Errorf("stderr should report the mqtt error, got %q", stderr.String())
	}
}

func TestExitCode(t *testing.T) {
	failed := icons.Report{Outcomes: []icons.Outcome{{Status: icons.StatusFailed, Err: errors.New("x")}}}
	ok := icons.Report{Outcomes: []icons.Outcome{{Status: icons.StatusGenerated}}}

	if got := exitCode(config.Config{}, failed); got != 0 {
		t.Errorf("default policy: exitCode = %d, want 0", got)
	}
	if got := exitCode(config.Config{Strict: true}, failed); got != 1 {
		t.Errorf("strict: exitCode = %d, want 1", got)
	}
	if got := exitCode(config.Config{Strict: true}, ok); got != 0 {
		t.Errorf("strict, all ok: exitCode = %d, want 0", got)
	}
}
