package vkbase

import (
	vk "github.com/vulkan-go/vulkan"
)

// Image is a 2D image. Swapchain images share the type but are owned by
// the swapchain and never destroyed through it.
type Image struct {
	Device   *Device
	VKImage  vk.Image
	VKFormat vk.Format
	Extent   vk.Extent2D
}

func (i *Image) VKMemoryRequirements() vk.MemoryRequirements {
	var mr vk.MemoryRequirements
	vk.GetImageMemoryRequirements(i.Device.VKDevice, i.VKImage, &mr)
	mr.Deref()
	return mr
}

func (d *Device) CreateImage(extent vk.Extent2D, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlagBits) (*Image, error) {
	info := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    format,
		Extent: vk.Extent3D{
			Width:  extent.Width,
			Height: extent.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        tiling,
		Usage:         vk.ImageUsageFlags(usage),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}

	var image vk.Image
	if err := vkResult(vk.CreateImage(d.VKDevice, &info, nil, &image), "create image"); err != nil {
		return nil, err
	}
	return &Image{Device: d, VKImage: image, VKFormat: format, Extent: extent}, nil
}

func (i *Image) Destroy() {
	if i.VKImage != vk.NullImage {
		vk.DestroyImage(i.Device.VKDevice, i.VKImage, nil)
		i.VKImage = vk.NullImage
	}
}
