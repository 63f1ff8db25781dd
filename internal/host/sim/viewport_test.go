package sim_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/remoteforge/scenebridge/internal/host"
	"github.com/remoteforge/scenebridge/internal/host/sim"
	"github.com/stretchr/testify/assert"
)

func TestViewportRenderer_HeadlessFails(t *testing.T) {
	r := sim.NewViewportRenderer(t.TempDir(), true)

	_, err := r.Render(host.RenderRequest{})

	assert.True(t, errors.Is(err, host.ErrHeadless))
}

func TestViewportRenderer_WritesPlaceholderFile(t *testing.T) {
	dir := t.TempDir()
	r := sim.NewViewportRenderer(dir, false)

	result, err := r.Render(host.RenderRequest{MaxSize: 200})

	assert.NoError(t, err)
	assert.Equal(t, "png", result.Format)
	assert.LessOrEqual(t, result.Width, 200)
	assert.LessOrEqual(t, result.Height, 200)

	_, statErr := os.Stat(result.Filepath)
	assert.NoError(t, statErr)
	assert.Equal(t, dir, filepath.Dir(result.Filepath))
}

func TestViewportRenderer_RejectsUnknownFormat(t *testing.T) {
	r := sim.NewViewportRenderer(t.TempDir(), false)

	_, err := r.Render(host.RenderRequest{Format: "bmp"})

	assert.Error(t, err)
}

func TestViewportRenderer_ClampsMaxSizeToCap(t *testing.T) {
	r := sim.NewViewportRenderer(t.TempDir(), false)

	result, err := r.Render(host.RenderRequest{MaxSize: 999999})

	assert.NoError(t, err)
	assert.LessOrEqual(t, result.Width, 4096)
	assert.LessOrEqual(t, result.Height, 4096)
}

func TestScaleToMax_PreservesAspectRatio(t *testing.T) {
	r := sim.NewViewportRenderer(t.TempDir(), false)
	result, err := r.Render(host.RenderRequest{MaxSize: 960})
	assert.NoError(t, err)
	assert.Equal(t, 960, result.Width)
	assert.Equal(t, 540, result.Height)
}
