package vkbase

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

// Device is a logical device and the physical device it was created on.
type Device struct {
	PhysicalDevice *PhysicalDevice
	VKDevice       vk.Device
}

func (d *Device) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s }", d.PhysicalDevice)
}

// WaitIdle blocks until every queue of the device is idle.
func (d *Device) WaitIdle() error {
	return vkResult(vk.DeviceWaitIdle(d.VKDevice), "device wait idle")
}

// GetQueue returns queue 0 of the family.
func (d *Device) GetQueue(qf *QueueFamily) *Queue {
	var vkq vk.Queue
	vk.GetDeviceQueue(d.VKDevice, uint32(qf.Index), 0, &vkq)
	return &Queue{Device: d, QueueFamily: qf, VKQueue: vkq}
}

// FindMemoryType is a shortcut for the physical device query.
func (d *Device) FindMemoryType(memoryTypeBits uint32, properties vk.MemoryPropertyFlagBits) (uint32, error) {
	return d.PhysicalDevice.FindMemoryType(memoryTypeBits, properties)
}

// depthFormatCandidates are tried in order by FindSupportedDepthFormat.
var depthFormatCandidates = []vk.Format{
	vk.FormatD32SfloatS8Uint,
	vk.FormatD32Sfloat,
	vk.FormatD24UnormS8Uint,
	vk.FormatD16UnormS8Uint,
	vk.FormatD16Unorm,
}

// FindSupportedDepthFormat returns the first depth format usable as an
// optimally tiled depth/stencil attachment.
func (d *Device) FindSupportedDepthFormat() (vk.Format, error) {
	return chooseDepthFormat(depthFormatCandidates, func(f vk.Format) bool {
		props := d.PhysicalDevice.FormatProperties(f)
		return props.OptimalTilingFeatures&vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit) != 0
	})
}

func chooseDepthFormat(candidates []vk.Format, supported func(vk.Format) bool) (vk.Format, error) {
	for _, f := range candidates {
		if supported(f) {
			return f, nil
		}
	}
	return vk.FormatUndefined, frame.Fatalf("no supported depth format among %d candidates", len(candidates))
}

// hasStencil reports whether a depth format carries a stencil component.
func hasStencil(format vk.Format) bool {
	switch format {
	case vk.FormatD32SfloatS8Uint, vk.FormatD24UnormS8Uint, vk.FormatD16UnormS8Uint, vk.FormatS8Uint:
		return true
	}
	return false
}

// depthAspect returns the aspect mask of a depth attachment view.
func depthAspect(format vk.Format) vk.ImageAspectFlags {
	aspect := vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	if hasStencil(format) {
		aspect |= vk.ImageAspectFlags(vk.ImageAspectStencilBit)
	}
	return aspect
}

// Allocate allocates a dedicated block of device memory.
func (d *Device) Allocate(sizeInBytes uint64, memoryTypeBits uint32, memoryProperties vk.MemoryPropertyFlagBits) (*DeviceMemory, error) {
	typeIndex, err := d.FindMemoryType(memoryTypeBits, memoryProperties)
	if err != nil {
		return nil, err
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(sizeInBytes),
		MemoryTypeIndex: typeIndex,
	}

	var deviceMemory vk.DeviceMemory
	if err := vkResult(vk.AllocateMemory(d.VKDevice, &allocateInfo, nil, &deviceMemory), "allocate memory"); err != nil {
		return nil, err
	}
	return &DeviceMemory{Device: d, VKDeviceMemory: deviceMemory, Size: sizeInBytes}, nil
}
