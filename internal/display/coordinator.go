// Package display keeps the window, the logical game screen and the user's
// display scale consistent with each other.
//
// Raw window sizes arrive from the platform. The logical screen the game
// draws into is the window size divided by the display scale factor. Size
// changes are coalesced into at most one pending record which the frame loop
// consumes at a safe point.
package display

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
)

// Scales lists the supported display scale percentages in ascending order.
var Scales = []int{100, 125, 150, 200, 250, 300, 400, 500}

// Default minimum logical screen size.
const (
	MinScreenWidth  = 640
	MinScreenHeight = 480
)

var (
	// ErrExceedsBounds means the requested window does not fit the screen.
	ErrExceedsBounds = errors.New("display: window larger than usable screen bounds")
	// ErrBelowMinimum means no display scale fits the requested window.
	ErrBelowMinimum = errors.New("display: window smaller than the minimum at 100% scale")
	// ErrResizeRejected means the platform did not apply the requested size.
	ErrResizeRejected = errors.New("display: window size change was not applied")
)

// Size is a width and height pair.
type Size struct {
	W, H int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.W, s.H)
}

// Resize describes a logical screen size change. Old is the size before the
// first change of the frame, New the size after the last one.
type Resize struct {
	Old, New Size
}

// Geometry is a snapshot of the coordinator state.
type Geometry struct {
	Screen Size
	Window Size
	Scale  int
}

// Window is the platform window the coordinator drives.
type Window interface {
	// Size returns the window size in window units.
	Size() (w, h int)
	// SetSize asks the platform to resize the window. The platform may
	// refuse; callers check Size afterwards.
	SetSize(w, h int)
	// SetMinimumSize constrains user resizing.
	SetMinimumSize(w, h int)
	// DrawableSize returns the renderer size in pixels. Differs from Size
	// on high-DPI displays.
	DrawableSize() (w, h int)
	// UsableBounds returns the largest window the screen can hold.
	UsableBounds() (w, h int, err error)
}

// PointerMapper receives the new scale factor so it can reproject the last
// known pointer position.
type PointerMapper interface {
	SetDisplayScaleFactor(f float32)
}

// Config holds the initial state of a Coordinator.
type Config struct {
	WindowWidth     int
	WindowHeight    int
	Scale           int
	MinScreenWidth  int
	MinScreenHeight int
}

// Coordinator owns screen geometry. It is driven from the main loop only.
type Coordinator struct {
	win     Window
	pointer PointerMapper
	logger  *log.Logger

	minScreen Size
	window    Size
	screen    Size
	scale     int
	factor    float32

	pending *Resize
}

// New creates a coordinator. A configured scale that does not fit the
// window is lowered to the largest one that does.
func New(win Window, pointer PointerMapper, cfg Config, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Coordinator{
		win:       win,
		pointer:   pointer,
		logger:    logger,
		minScreen: Size{W: cfg.MinScreenWidth, H: cfg.MinScreenHeight},
		window:    Size{W: cfg.WindowWidth, H: cfg.WindowHeight},
	}
	if c.minScreen.W <= 0 || c.minScreen.H <= 0 {
		c.minScreen = Size{W: MinScreenWidth, H: MinScreenHeight}
	}

	scale := cfg.Scale
	if scale <= 0 {
		scale = 100
	}
	if c.WindowTooSmall(c.window.W, c.window.H, scale) {
		if fit := c.MaxDisplayScaleFor(c.window.W, c.window.H); fit > 0 {
			logger.Warn("display scale too large for window, reducing", "scale", scale, "reduced", fit, "window", c.window)
			scale = fit
		} else {
			scale = 100
		}
	}
	c.setScale(scale)
	c.screen = c.logical(c.window)

	if win != nil {
		minSize := c.MinimumWindowSize(scale)
		win.SetMinimumSize(minSize.W, minSize.H)
	}
	return c
}

func factorFor(percent int) float32 {
	return float32(percent) / 100
}

func (c *Coordinator) setScale(percent int) {
	c.scale = percent
	c.factor = factorFor(percent)
	if c.pointer != nil {
		c.pointer.SetDisplayScaleFactor(c.factor)
	}
}

// logical converts a window size to a logical screen size, truncating.
func (c *Coordinator) logical(win Size) Size {
	return Size{
		W: int(float32(win.W) / c.factor),
		H: int(float32(win.H) / c.factor),
	}
}

// MinimumWindowSize returns the smallest window that holds the minimum
// logical screen at the given scale.
func (c *Coordinator) MinimumWindowSize(percent int) Size {
	f := factorFor(percent)
	return Size{
		W: int(math.Ceil(float64(float32(c.minScreen.W) * f))),
		H: int(math.Ceil(float64(float32(c.minScreen.H) * f))),
	}
}

// WindowTooSmall reports whether a window is below the minimum for a scale.
func (c *Coordinator) WindowTooSmall(w, h, percent int) bool {
	m := c.MinimumWindowSize(percent)
	return w < m.W || h < m.H
}

// MaxDisplayScaleFor returns the largest supported scale whose minimum
// window fits w x h, or 0 when even 100% does not fit.
func (c *Coordinator) MaxDisplayScaleFor(w, h int) int {
	best := 0
	for _, s := range Scales {
		if c.WindowTooSmall(w, h, s) {
			break
		}
		best = s
	}
	return best
}

// OnWindowResized records a new window size reported by the platform. A
// window shrunk below the minimum for the current scale lowers the scale to
// the largest one that still fits; below the minimum at 100% the scale is
// kept.
func (c *Coordinator) OnWindowResized(w, h int) {
	c.logger.Debug("window resized", "from", c.window, "to", Size{W: w, H: h})
	c.window = Size{W: w, H: h}
	if c.WindowTooSmall(w, h, c.scale) {
		if fit := c.MaxDisplayScaleFor(w, h); fit > 0 && fit < c.scale {
			c.logger.Info("window too small for display scale, reducing", "scale", c.scale, "reduced", fit)
			c.forceScale(fit)
			return
		}
	}
	c.screenSizeChanged(c.logical(c.window))
}

// screenSizeChanged applies a new logical size and coalesces the
// notification into the pending record.
func (c *Coordinator) screenSizeChanged(size Size) {
	old := c.screen
	c.screen = size
	if c.pending == nil {
		c.pending = &Resize{Old: old, New: size}
		return
	}
	c.pending.New = size
}

// SetDisplayScale switches to a new scale. It fails without touching any
// state when the current window is too small for it.
func (c *Coordinator) SetDisplayScale(percent int) bool {
	if percent <= 0 || c.WindowTooSmall(c.window.W, c.window.H, percent) {
		c.logger.Debug("display scale rejected", "scale", percent, "window", c.window)
		return false
	}

	c.setScale(percent)
	minSize := c.MinimumWindowSize(percent)
	if c.win != nil {
		c.win.SetMinimumSize(minSize.W, minSize.H)
	}
	c.screenSizeChanged(c.logical(c.window))
	c.logger.Info("display scale changed", "scale", percent, "screen", c.screen)
	return true
}

// ChangeWindowResolution resizes the window, lowering the display scale
// first when the new size is too small for it. On failure the previous size
// and scale are restored.
func (c *Coordinator) ChangeWindowResolution(w, h int) error {
	if c.win == nil {
		return ErrResizeRejected
	}
	bw, bh, err := c.win.UsableBounds()
	if err != nil {
		return fmt.Errorf("display: cannot query screen bounds: %w", err)
	}
	if w > bw || h > bh {
		return ErrExceedsBounds
	}

	prevW, prevH := c.win.Size()
	prevScale := c.scale
	if c.WindowTooSmall(w, h, c.scale) {
		fit := c.MaxDisplayScaleFor(w, h)
		if fit < 100 {
			return ErrBelowMinimum
		}
		c.logger.Info("display scale too high for window size, reducing", "scale", c.scale, "reduced", fit)
		c.forceScale(fit)
	}

	c.win.SetSize(w, h)
	if gotW, gotH := c.win.Size(); gotW != w || gotH != h {
		c.logger.Warn("window resize failed", "want", Size{W: w, H: h}, "got", Size{W: gotW, H: gotH})
		c.win.SetSize(prevW, prevH)
		if c.scale != prevScale {
			c.forceScale(prevScale)
		}
		return ErrResizeRejected
	}
	c.OnWindowResized(w, h)
	return nil
}

// forceScale changes scale regardless of the current window size. It is
// used while the window itself is about to change.
func (c *Coordinator) forceScale(percent int) {
	c.setScale(percent)
	if c.win != nil {
		minSize := c.MinimumWindowSize(percent)
		c.win.SetMinimumSize(minSize.W, minSize.H)
	}
	c.screenSizeChanged(c.logical(c.window))
}

// TakePendingResize returns and clears the coalesced size change.
func (c *Coordinator) TakePendingResize() (Resize, bool) {
	if c.pending == nil {
		return Resize{}, false
	}
	r := *c.pending
	c.pending = nil
	return r, true
}

// ProcessPendingResize hands the coalesced size change to fn, if any, and
// reports whether there was one.
func (c *Coordinator) ProcessPendingResize(fn func(Resize)) bool {
	r, ok := c.TakePendingResize()
	if ok && fn != nil {
		fn(r)
	}
	return ok
}

// HasPendingResize reports whether a size change awaits consumption.
func (c *Coordinator) HasPendingResize() bool {
	return c.pending != nil
}

// LogicalScreenSize returns the size the game draws into.
func (c *Coordinator) LogicalScreenSize() Size {
	return c.screen
}

// DisplayScale returns the current scale percentage.
func (c *Coordinator) DisplayScale() int {
	return c.scale
}

// Geometry returns a snapshot of the current state.
func (c *Coordinator) Geometry() Geometry {
	return Geometry{Screen: c.screen, Window: c.window, Scale: c.scale}
}

// WindowToRendererScale returns the ratio of drawable pixels to window
// units, excluding the display scale.
func (c *Coordinator) WindowToRendererScale() (h, v float32) {
	if c.win == nil {
		return 1, 1
	}
	ww, wh := c.win.Size()
	dw, dh := c.win.DrawableSize()
	if ww <= 0 || wh <= 0 {
		return 1, 1
	}
	return float32(dw) / float32(ww), float32(dh) / float32(wh)
}

// GameToRendererScale returns the ratio of drawable pixels to logical
// screen units, including the display scale.
func (c *Coordinator) GameToRendererScale() (h, v float32) {
	h, v = c.WindowToRendererScale()
	return h * c.factor, v * c.factor
}
