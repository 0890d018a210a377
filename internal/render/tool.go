package render

import (
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// Tool renders through an external converter binary.
type Tool struct {
	Name string // NameRSVG or NameInkscape
	Path string // resolved executable
}

func (t Tool) args(inputPath, outputPath string, width, height int) []string {
	w, h := strconv.Itoa(width), strconv.Itoa(height)
	switch t.Name {
	case NameInkscape:
		return []string{"--export-type=png", "--export-filename=" + outputPath, "-w", w, "-h", h, inputPath}
	default:
		return []string{"-w", w, "-h", h, "-o", outputPath, inputPath}
	}
}

// Render runs the tool into a temporary file next to outputPath and moves
// it into place only once it is a PNG of the requested size.
func (t Tool) Render(inputPath, outputPath string, width, height int) error {
	tmp := tempPath(outputPath)
	defer os.Remove(tmp)

	cmd := exec.Command(t.Path, t.args(inputPath, tmp, width, height)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s convert: %w\n%s", t.Name, err, out)
	}
	if err := checkPNG(tmp, width, height); err != nil {
		return err
	}
	if err := os.Rename(tmp, outputPath); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	return nil
}

// tempPath keeps the .png extension so tools that infer the format from
// the file name still write PNG.
func tempPath(outputPath string) string {
	return filepath.Join(filepath.Dir(outputPath), ".genicons-"+filepath.Base(outputPath))
}

func checkPNG(path string, width, height int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read output: %w", err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("read output: %w", err)
	}
	if cfg.Width != width || cfg.Height != height {
		return fmt.Errorf("output is %dx%d, want %dx%d", cfg.Width, cfg.Height, width, height)
	}
	return nil
}
