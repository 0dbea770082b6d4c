package frame

import "fmt"

// State is the position of the frame loop within one frame.
type State int

const (
	Idle State = iota
	Acquiring
	Recording
	Submitting
	Presenting
	Resizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Acquiring:
		return "acquiring"
	case Recording:
		return "recording"
	case Submitting:
		return "submitting"
	case Presenting:
		return "presenting"
	case Resizing:
		return "resizing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Status is the outcome of acquiring or presenting a swapchain image.
type Status int

const (
	// StatusOK means the frame can proceed.
	StatusOK Status = iota
	// StatusSuboptimal means the swapchain still works but no longer matches
	// the surface exactly.
	StatusSuboptimal
	// StatusOutOfDate means the swapchain can no longer be used.
	StatusOutOfDate
)

// Stale reports whether the swapchain must be recreated.
func (s Status) Stale() bool {
	return s == StatusSuboptimal || s == StatusOutOfDate
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSuboptimal:
		return "suboptimal"
	case StatusOutOfDate:
		return "out of date"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}
