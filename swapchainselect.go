package vkbase

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

// preferredSurfaceFormats are tried in order, all in the sRGB nonlinear
// color space.
var preferredSurfaceFormats = []vk.Format{
	vk.FormatB8g8r8a8Srgb,
	vk.FormatB8g8r8a8Unorm,
}

// chooseSurfaceFormat picks the swapchain format. A lone UNDEFINED entry
// means the surface takes anything.
func chooseSurfaceFormat(formats []vk.SurfaceFormat) (vk.SurfaceFormat, error) {
	if len(formats) == 0 {
		return vk.SurfaceFormat{}, frame.Fatalf("surface reports no formats")
	}
	if len(formats) == 1 && formats[0].Format == vk.FormatUndefined {
		return vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}, nil
	}
	for _, want := range preferredSurfaceFormats {
		for _, f := range formats {
			if f.Format == want && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
				return f, nil
			}
		}
	}
	return formats[0], nil
}

// choosePresentMode prefers MAILBOX and falls back to FIFO, which every
// driver must support. A single offered mode is taken as is.
func choosePresentMode(modes []vk.PresentMode) (vk.PresentMode, error) {
	switch len(modes) {
	case 0:
		return vk.PresentModeFifo, frame.Fatalf("surface reports no present modes")
	case 1:
		return modes[0], nil
	}
	for _, m := range modes {
		if m == vk.PresentModeMailbox {
			return m, nil
		}
	}
	return vk.PresentModeFifo, nil
}

func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// chooseExtent uses the surface's current extent when it is defined and
// otherwise clamps the framebuffer size to the surface limits.
func chooseExtent(caps *vk.SurfaceCapabilities, width, height int) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampUint32(uint32(width), caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampUint32(uint32(height), caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// chooseImageCount asks for one image more than the minimum, capped at the
// maximum when the surface has one (0 means unbounded).
func chooseImageCount(caps *vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	if count < caps.MinImageCount {
		count = caps.MinImageCount
	}
	return count
}

// chooseCompositeAlpha returns the first supported mode, opaque preferred.
func chooseCompositeAlpha(supported vk.CompositeAlphaFlags) vk.CompositeAlphaFlagBits {
	for _, a := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if supported&vk.CompositeAlphaFlags(a) != 0 {
			return a
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

// choosePreTransform keeps the surface untransformed when it can.
func choosePreTransform(caps *vk.SurfaceCapabilities) vk.SurfaceTransformFlagBits {
	if caps.SupportedTransforms&vk.SurfaceTransformFlags(vk.SurfaceTransformIdentityBit) != 0 {
		return vk.SurfaceTransformIdentityBit
	}
	return caps.CurrentTransform
}
