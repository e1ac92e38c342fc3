package game

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/perlinflow/renderer"
	"github.com/pthm-cable/perlinflow/systems"
)

// FrameDisplay renders offscreen into an image for a fixed number of frames.
// With a file pattern set on the surface every frame is saved as a PNG.
type FrameDisplay struct {
	viewport systems.Viewport
	surface  *renderer.ImageSurface
	limit    int
	frames   int

	// OnFrame, if set, runs after each frame with its index.
	OnFrame func(frame int)
}

// ErrFrameLimit is returned for offscreen displays asked to render no frames.
var ErrFrameLimit = errors.New("frame limit must be at least 1")

// NewFrameDisplay creates a display sized for vp that closes after limit frames.
func NewFrameDisplay(vp systems.Viewport, limit int) (*FrameDisplay, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrFrameLimit, limit)
	}
	dpr := vp.DPR
	if dpr <= 0 {
		dpr = 1
	}
	w := int(math.Ceil(vp.Width * dpr))
	h := int(math.Ceil(vp.Height * dpr))
	return &FrameDisplay{
		viewport: vp,
		surface:  renderer.NewImageSurface(max(w, 1), max(h, 1)),
		limit:    limit,
	}, nil
}

// ImageSurface returns the backing surface so callers can set an output pattern.
func (d *FrameDisplay) ImageSurface() *renderer.ImageSurface {
	return d.surface
}

func (d *FrameDisplay) Viewport() systems.Viewport { return d.viewport }

func (d *FrameDisplay) Surface() renderer.Surface { return d.surface }

// Frames returns how many frames have been presented.
func (d *FrameDisplay) Frames() int { return d.frames }

func (d *FrameDisplay) Refresh(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, nil
	}
	if d.OnFrame != nil {
		d.OnFrame(d.frames)
	}
	d.frames++
	return d.frames < d.limit, nil
}
