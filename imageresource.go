package vkbase

import (
	vk "github.com/vulkan-go/vulkan"
)

// ImageResource is an image bound to its own block of device memory.
type ImageResource struct {
	Image
	Memory *DeviceMemory
}

func (r *ImageResource) String() string {
	return "image"
}

// Destroy frees the image and then its memory.
func (r *ImageResource) Destroy() {
	r.Image.Destroy()
	if r.Memory != nil {
		r.Memory.Destroy()
		r.Memory = nil
	}
}

// DepthStencil is the depth attachment shared by every framebuffer.
type DepthStencil struct {
	Image *ImageResource
	View  *ImageView
}

// CreateDepthStencil creates a device local depth attachment of extent.
func (r *ResourceManager) CreateDepthStencil(extent vk.Extent2D, format vk.Format) (*DepthStencil, error) {
	img, err := r.NewImageResource(extent, format, vk.ImageUsageDepthStencilAttachmentBit, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		return nil, err
	}
	view, err := img.CreateImageViewWithAspectMask(depthAspect(format))
	if err != nil {
		img.Destroy()
		return nil, err
	}
	return &DepthStencil{Image: img, View: view}, nil
}

func (d *DepthStencil) Destroy() {
	if d == nil {
		return
	}
	d.View.Destroy()
	d.Image.Destroy()
}
