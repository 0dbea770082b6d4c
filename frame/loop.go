// Package frame drives the acquire, submit, present cycle of a swapchain and
// recovers from stale or resized surfaces.
//
// The loop is serialized: after every successful present it
// waits for the queue to drain, so the CPU never records while the GPU still
// reads the previous frame. MaxFramesInFlight is exported for drivers that
// size per-frame resources, the base cycle does not overlap frames.
package frame

import (
	"github.com/cockroachdb/errors"

	"github.com/celer/vkbase/internal/logging"
)

// MaxFramesInFlight bounds how far the CPU may run ahead of the GPU.
const MaxFramesInFlight = 2

// Window is the part of a platform window the loop needs while resizing.
type Window interface {
	// FramebufferSize returns the drawable size in pixels, (0, 0) while
	// minimized.
	FramebufferSize() (width, height int)
	// WaitEvents blocks until the platform delivers at least one event.
	WaitEvents()
}

// Driver performs the graphics work of each step. Every method is called
// from the loop's goroutine.
type Driver interface {
	// AcquireNextImage requests the next presentable image, signaling the
	// present-complete semaphore when it is ready.
	AcquireNextImage() (image uint32, status Status, err error)
	// PrepareImage runs per-frame updates for image (uniform data) before
	// its draw buffer is submitted.
	PrepareImage(image uint32) error
	// Submit queues the prerecorded draw buffer of image.
	Submit(image uint32) error
	// Present queues image for presentation once rendering completes.
	Present(image uint32) (Status, error)
	WaitQueueIdle() error
	WaitDeviceIdle() error
	// RecreateSwapchain rebuilds the swapchain at the given framebuffer size.
	RecreateSwapchain(width, height int) error
	// RecreateRenderTargets rebuilds the depth/stencil attachment and one
	// framebuffer per swapchain image.
	RecreateRenderTargets() error
	// ReallocateDrawBuffers frees and allocates one draw buffer per
	// swapchain image.
	ReallocateDrawBuffers() error
	// RecordDrawBuffers records every draw buffer.
	RecordDrawBuffers() error
	// ViewChanged tells the application the view size changed.
	ViewChanged() error
}

// Stats counts what the loop did so far.
type Stats struct {
	Frames  uint64 // frames presented
	Skipped uint64 // frames dropped because acquisition reported a stale swapchain
	Resizes uint64
}

// Loop runs frames against a Driver.
type Loop struct {
	driver Driver
	window Window
	latch  *ResizeLatch

	state State
	stats Stats
}

// NewLoop creates a loop. A nil latch gets a private one, reachable
// through RequestResize.
func NewLoop(driver Driver, window Window, latch *ResizeLatch) *Loop {
	if latch == nil {
		latch = &ResizeLatch{}
	}
	return &Loop{driver: driver, window: window, latch: latch}
}

// State returns the current state, Idle between frames.
func (l *Loop) State() State {
	return l.state
}

// Stats returns the loop counters.
func (l *Loop) Stats() Stats {
	return l.stats
}

// RequestResize asks for a resize at the end of the next presented frame.
func (l *Loop) RequestResize() {
	l.latch.Set()
}

// Frame runs one acquire, submit, present cycle. A stale swapchain triggers a
// resize instead of an error. Every returned error is fatal.
func (l *Loop) Frame() error {
	log := logging.Logger()

	l.state = Acquiring
	image, status, err := l.driver.AcquireNextImage()
	if err != nil {
		return l.fail(err, "acquire next image")
	}
	if status.Stale() {
		log.Debug("swapchain stale on acquire, skipping frame", "status", status)
		l.stats.Skipped++
		return l.Resize()
	}

	l.state = Recording
	if err := l.driver.PrepareImage(image); err != nil {
		return l.fail(err, "prepare image %d", image)
	}

	l.state = Submitting
	if err := l.driver.Submit(image); err != nil {
		return l.fail(err, "submit image %d", image)
	}

	l.state = Presenting
	status, err = l.driver.Present(image)
	if err != nil {
		return l.fail(err, "present image %d", image)
	}
	l.stats.Frames++

	if status.Stale() || l.latch.IsSet() {
		log.Debug("resize after present", "status", status, "requested", l.latch.IsSet())
		return l.Resize()
	}

	if err := l.driver.WaitQueueIdle(); err != nil {
		return l.fail(err, "wait queue idle")
	}
	l.state = Idle
	return nil
}

// Resize rebuilds everything derived from the swapchain. It blocks while the
// window reports a zero-sized framebuffer.
func (l *Loop) Resize() error {
	l.state = Resizing
	l.latch.Clear()

	width, height := l.window.FramebufferSize()
	for width == 0 || height == 0 {
		l.window.WaitEvents()
		width, height = l.window.FramebufferSize()
	}

	if err := l.driver.WaitDeviceIdle(); err != nil {
		return l.fail(err, "wait device idle before resize")
	}
	if err := l.driver.RecreateSwapchain(width, height); err != nil {
		return l.fail(err, "recreate swapchain %dx%d", width, height)
	}
	if err := l.driver.RecreateRenderTargets(); err != nil {
		return l.fail(err, "recreate render targets")
	}
	if err := l.driver.ReallocateDrawBuffers(); err != nil {
		return l.fail(err, "reallocate draw buffers")
	}
	if err := l.driver.RecordDrawBuffers(); err != nil {
		return l.fail(err, "record draw buffers")
	}
	if err := l.driver.WaitDeviceIdle(); err != nil {
		return l.fail(err, "wait device idle after resize")
	}
	if err := l.driver.ViewChanged(); err != nil {
		return l.fail(err, "view changed")
	}

	l.stats.Resizes++
	logging.Logger().Info("swapchain resized", "width", width, "height", height)
	l.state = Idle
	return nil
}

func (l *Loop) fail(err error, format string, args ...interface{}) error {
	l.state = Idle
	return Fatal(errors.Wrapf(err, format, args...))
}
