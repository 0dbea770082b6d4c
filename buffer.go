package vkbase

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Buffer are used to map hunks of data that are then bound to resources used by the pipeline
// and command buffers to render data.
type Buffer struct {
	Device   *Device
	VKBuffer vk.Buffer
	Size     uint64
	Usage    vk.BufferUsageFlagBits
}

func (d *Device) CreateBuffer(sizeInBytes uint64, usage vk.BufferUsageFlagBits, sharing vk.SharingMode) (*Buffer, error) {
	info := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(sizeInBytes),
		Usage:       vk.BufferUsageFlags(usage),
		SharingMode: sharing,
	}

	var buffer vk.Buffer
	if err := vkResult(vk.CreateBuffer(d.VKDevice, &info, nil, &buffer), "create buffer"); err != nil {
		return nil, err
	}
	return &Buffer{Device: d, VKBuffer: buffer, Size: sizeInBytes, Usage: usage}, nil
}

func (b *Buffer) VKMemoryRequirements() vk.MemoryRequirements {
	var mr vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(b.Device.VKDevice, b.VKBuffer, &mr)
	mr.Deref()
	return mr
}

// DescriptorInfo describes the whole buffer for a descriptor write.
func (b *Buffer) DescriptorInfo() vk.DescriptorBufferInfo {
	return vk.DescriptorBufferInfo{
		Buffer: b.VKBuffer,
		Offset: 0,
		Range:  vk.DeviceSize(b.Size),
	}
}

func (b *Buffer) Bind(memory *DeviceMemory, offset uint64) error {
	return vkResult(vk.BindBufferMemory(b.Device.VKDevice, b.VKBuffer, memory.VKDeviceMemory, vk.DeviceSize(offset)), "bind buffer memory")
}

func (b *Buffer) Destroy() {
	if b.VKBuffer != vk.NullBuffer {
		vk.DestroyBuffer(b.Device.VKDevice, b.VKBuffer, nil)
		b.VKBuffer = vk.NullBuffer
	}
}

func (b *Buffer) String() string {
	return fmt.Sprintf("{Size: %d Usage: %s}", b.Size, usageToString(b.Usage))
}

var usageNames = []struct {
	bit  vk.BufferUsageFlagBits
	name string
}{
	{vk.BufferUsageTransferSrcBit, "transfer-src"},
	{vk.BufferUsageTransferDstBit, "transfer-dst"},
	{vk.BufferUsageUniformBufferBit, "uniform"},
	{vk.BufferUsageStorageBufferBit, "storage"},
	{vk.BufferUsageIndexBufferBit, "index"},
	{vk.BufferUsageVertexBufferBit, "vertex"},
}

func usageToString(usage vk.BufferUsageFlagBits) string {
	s := ""
	for _, u := range usageNames {
		if usage&u.bit == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += u.name
	}
	if s == "" {
		return "none"
	}
	return s
}
