package vkbase

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

// vkResult converts a Vulkan result into an error. Every failing Vulkan call
// is unrecoverable here, so the error is marked fatal.
func vkResult(res vk.Result, op string) error {
	err := vk.Error(res)
	if err == nil {
		return nil
	}
	return frame.Fatal(errors.Wrap(err, op))
}

// swapchainStatus maps acquire and present results onto the frame loop's
// tri-state status. Anything but success or staleness is fatal.
func swapchainStatus(res vk.Result, op string) (frame.Status, error) {
	switch res {
	case vk.Success:
		return frame.StatusOK, nil
	case vk.Suboptimal:
		return frame.StatusSuboptimal, nil
	case vk.ErrorOutOfDate:
		return frame.StatusOutOfDate, nil
	}
	if err := vkResult(res, op); err != nil {
		return frame.StatusOK, err
	}
	return frame.StatusOK, frame.Fatalf("%s: unexpected result %d", op, res)
}
