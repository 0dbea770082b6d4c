package vkbase

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

func TestSwapchainStatus(t *testing.T) {
	tests := []struct {
		res   vk.Result
		want  frame.Status
		fatal bool
	}{
		{res: vk.Success, want: frame.StatusOK},
		{res: vk.Suboptimal, want: frame.StatusSuboptimal},
		{res: vk.ErrorOutOfDate, want: frame.StatusOutOfDate},
		{res: vk.ErrorDeviceLost, fatal: true},
		{res: vk.ErrorSurfaceLost, fatal: true},
		{res: vk.ErrorOutOfDeviceMemory, fatal: true},
	}
	for _, tt := range tests {
		status, err := swapchainStatus(tt.res, "present")
		if tt.fatal {
			if err == nil {
				t.Errorf("swapchainStatus(%d) returned no error", tt.res)
				continue
			}
			if !frame.IsFatal(err) {
				t.Errorf("swapchainStatus(%d) error %v is not fatal", tt.res, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("swapchainStatus(%d) = %v", tt.res, err)
		}
		if status != tt.want {
			t.Errorf("swapchainStatus(%d) = %v, want %v", tt.res, status, tt.want)
		}
	}
}

func TestVKResult(t *testing.T) {
	if err := vkResult(vk.Success, "create fence"); err != nil {
		t.Errorf("vkResult(Success) = %v", err)
	}
	err := vkResult(vk.ErrorInitializationFailed, "create instance")
	if err == nil || !frame.IsFatal(err) {
		t.Fatalf("vkResult(ErrorInitializationFailed) = %v, want fatal error", err)
	}
}
