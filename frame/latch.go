package frame

import "sync/atomic"

// ResizeLatch is the "framebuffer resized" flag. It is set from a window
// callback and consumed by the loop once per frame.
type ResizeLatch struct {
	set atomic.Bool
}

// Set records a resize request.
func (l *ResizeLatch) Set() {
	l.set.Store(true)
}

// IsSet reports whether a resize was requested and not yet consumed.
func (l *ResizeLatch) IsSet() bool {
	return l.set.Load()
}

// Clear drops any pending request.
func (l *ResizeLatch) Clear() {
	l.set.Store(false)
}

// Take clears the latch and reports whether it was set.
func (l *ResizeLatch) Take() bool {
	return l.set.Swap(false)
}
