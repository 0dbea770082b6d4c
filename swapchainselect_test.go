package vkbase

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

func TestChooseSurfaceFormat(t *testing.T) {
	srgb := vk.ColorSpaceSrgbNonlinear
	tests := []struct {
		name    string
		formats []vk.SurfaceFormat
		want    vk.Format
	}{
		{"undefined", []vk.SurfaceFormat{{Format: vk.FormatUndefined, ColorSpace: srgb}}, vk.FormatB8g8r8a8Unorm},
		{"srgb preferred", []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: srgb},
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: srgb},
		}, vk.FormatB8g8r8a8Srgb},
		{"unorm", []vk.SurfaceFormat{
			{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: srgb},
			{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: srgb},
		}, vk.FormatB8g8r8a8Unorm},
		{"fallback to first", []vk.SurfaceFormat{
			{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: srgb},
			{Format: vk.FormatR16g16b16a16Sfloat, ColorSpace: srgb},
		}, vk.FormatR8g8b8a8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chooseSurfaceFormat(tt.formats)
			if err != nil {
				t.Fatal(err)
			}
			if got.Format != tt.want {
				t.Errorf("format = %v, want %v", got.Format, tt.want)
			}
			if got.ColorSpace != srgb {
				t.Errorf("color space = %v", got.ColorSpace)
			}
		})
	}

	if _, err := chooseSurfaceFormat(nil); !frame.IsFatal(err) {
		t.Errorf("no formats: expected fatal error, got %v", err)
	}
}

func TestChoosePresentMode(t *testing.T) {
	tests := []struct {
		name  string
		modes []vk.PresentMode
		want  vk.PresentMode
	}{
		{"mailbox", []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox}, vk.PresentModeMailbox},
		{"fifo", []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo}, vk.PresentModeFifo},
		{"single immediate", []vk.PresentMode{vk.PresentModeImmediate}, vk.PresentModeImmediate},
		{"single fifo", []vk.PresentMode{vk.PresentModeFifo}, vk.PresentModeFifo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := choosePresentMode(tt.modes)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := choosePresentMode(nil); !frame.IsFatal(err) {
		t.Errorf("no present modes: expected fatal error, got %v", err)
	}
}

func surfaceCaps(minCount, maxCount uint32) *vk.SurfaceCapabilities {
	return &vk.SurfaceCapabilities{
		MinImageCount:  minCount,
		MaxImageCount:  maxCount,
		CurrentExtent:  vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
	}
}

func TestChooseExtent(t *testing.T) {
	caps := surfaceCaps(2, 0)

	if got := chooseExtent(caps, 1024, 768); got.Width != 1024 || got.Height != 768 {
		t.Errorf("got %dx%d", got.Width, got.Height)
	}
	if got := chooseExtent(caps, 8000, 0); got.Width != 4096 || got.Height != 1 {
		t.Errorf("clamped extent %dx%d", got.Width, got.Height)
	}

	caps.CurrentExtent = vk.Extent2D{Width: 800, Height: 600}
	if got := chooseExtent(caps, 1024, 768); got.Width != 800 || got.Height != 600 {
		t.Errorf("current extent ignored: %dx%d", got.Width, got.Height)
	}
}

func TestChooseExtentIdempotent(t *testing.T) {
	caps := surfaceCaps(2, 3)
	a := chooseExtent(caps, 1024, 768)
	b := chooseExtent(caps, 1024, 768)
	if a != b {
		t.Errorf("%v != %v", a, b)
	}
	if chooseImageCount(caps) != chooseImageCount(caps) {
		t.Error("image count differs between identical requests")
	}
}

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		name          string
		minCount, max uint32
		want          uint32
	}{
		{"unbounded", 2, 0, 3},
		{"room above min", 2, 8, 3},
		{"capped at max", 3, 3, 3},
		{"single image", 1, 1, 1},
		// Some drivers report a max below the min; the min wins.
		{"max below min", 4, 2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chooseImageCount(surfaceCaps(tt.minCount, tt.max)); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestChooseCompositeAlpha(t *testing.T) {
	if got := chooseCompositeAlpha(vk.CompositeAlphaFlags(vk.CompositeAlphaOpaqueBit | vk.CompositeAlphaInheritBit)); got != vk.CompositeAlphaOpaqueBit {
		t.Errorf("got %v", got)
	}
	if got := chooseCompositeAlpha(vk.CompositeAlphaFlags(vk.CompositeAlphaInheritBit)); got != vk.CompositeAlphaInheritBit {
		t.Errorf("got %v", got)
	}
}
