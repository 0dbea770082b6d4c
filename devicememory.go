package vkbase

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DeviceMemory maps to Vulkan DeviceMemory and can either be memory on the host or on the device
type DeviceMemory struct {
	Device         *Device
	VKDeviceMemory vk.DeviceMemory
	Size           uint64
	// Ptr is the host address of the whole block while it is mapped.
	Ptr unsafe.Pointer
}

// IsMapped returns true if the device memory is currently mapped
func (d *DeviceMemory) IsMapped() bool {
	return d.Ptr != nil
}

// Destroy unmaps and frees this memory
func (d *DeviceMemory) Destroy() {
	if d.IsMapped() {
		d.Unmap()
	}
	vk.FreeMemory(d.Device.VKDevice, d.VKDeviceMemory, nil)
}

// Map maps the whole block and keeps it mapped until Unmap.
func (d *DeviceMemory) Map() (unsafe.Pointer, error) {
	if d.Ptr != nil {
		return d.Ptr, nil
	}
	var res unsafe.Pointer
	if err := vkResult(vk.MapMemory(d.Device.VKDevice, d.VKDeviceMemory, 0, vk.DeviceSize(d.Size), 0, &res), "map memory"); err != nil {
		return nil, err
	}
	d.Ptr = res
	return res, nil
}

// Unmap this memory
func (d *DeviceMemory) Unmap() {
	vk.UnmapMemory(d.Device.VKDevice, d.VKDeviceMemory)
	d.Ptr = nil
}

// Range returns the mapped bytes [offset, offset+size).
func (d *DeviceMemory) Range(offset, size uint64) ([]byte, error) {
	if d.Ptr == nil {
		return nil, errors.New("device memory is not mapped")
	}
	if offset+size > d.Size {
		return nil, errors.Newf("range [%d, %d) exceeds memory size %d", offset, offset+size, d.Size)
	}
	return ToBytes(d.Ptr, int(d.Size))[offset : offset+size], nil
}

// MapCopyUnmap maps the memory, copies data to its start and unmaps it
// again. Memory that was already mapped stays mapped.
func (d *DeviceMemory) MapCopyUnmap(data []byte) error {
	wasMapped := d.IsMapped()
	if _, err := d.Map(); err != nil {
		return err
	}
	out, err := d.Range(0, uint64(len(data)))
	if err != nil {
		return err
	}
	copy(out, data)
	if !wasMapped {
		d.Unmap()
	}
	return nil
}
