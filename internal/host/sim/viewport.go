package sim

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/remoteforge/scenebridge/internal/host"
)

// nativeWidth/nativeHeight model the "full" viewport render before
// get_viewport_screenshot's max_size constraint is applied.
const (
	nativeWidth  = 1920
	nativeHeight = 1080
	maxSizeCap   = 4096
)

// ViewportRenderer is the default in-process viewport capture. With
// headless set, Render always fails with host.ErrHeadless, matching a
// background-mode host with no GUI. Otherwise it writes a flat-color
// placeholder image — there is no real scene rasterizer to call into
// here, only the file/dimension contract spec.md §4.5 describes.
type ViewportRenderer struct {
	mu       sync.Mutex
	headless bool
	tempDir  string
}

// NewViewportRenderer creates a renderer. tempDir is where
// auto-generated filenames are placed when the caller omits filepath.
func NewViewportRenderer(tempDir string, headless bool) *ViewportRenderer {
	return &ViewportRenderer{tempDir: tempDir, headless: headless}
}

// SetHeadless toggles whether Render fails with host.ErrHeadless.
func (r *ViewportRenderer) SetHeadless(headless bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headless = headless
}

// Render implements host.ViewportRenderer.
func (r *ViewportRenderer) Render(req host.RenderRequest) (host.RenderResult, error) {
	r.mu.Lock()
	headless := r.headless
	r.mu.Unlock()

	if headless {
		return host.RenderResult{}, host.ErrHeadless
	}

	format := req.Format
	if format == "" {
		format = "png"
	}
	if format != "png" && format != "jpg" {
		return host.RenderResult{}, fmt.Errorf("unsupported format %q", format)
	}

	maxSize := req.MaxSize
	if maxSize <= 0 {
		maxSize = 800
	}
	if maxSize > maxSizeCap {
		maxSize = maxSizeCap
	}

	width, height := scaleToMax(nativeWidth, nativeHeight, maxSize)

	filepath_ := req.Filepath
	if filepath_ == "" {
		name := fmt.Sprintf("scenebridge-viewport-%s.%s", uuid.NewString(), format)
		filepath_ = filepath.Join(r.tempDir, name)
	}

	if err := writePlaceholderImage(filepath_, width, height, format); err != nil {
		return host.RenderResult{}, err
	}

	return host.RenderResult{Filepath: filepath_, Width: width, Height: height, Format: format}, nil
}

func scaleToMax(w, h, maxSize int) (int, int) {
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxSize {
		return w, h
	}
	scale := float64(maxSize) / float64(longest)
	return int(float64(w) * scale), int(float64(h) * scale)
}

func writePlaceholderImage(path string, width, height int, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil && filepath.Dir(path) != "." {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := color.RGBA{R: 46, G: 52, B: 64, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, bg)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "jpg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	default:
		return png.Encode(f, img)
	}
}
