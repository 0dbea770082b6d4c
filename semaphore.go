package vkbase

import (
	vk "github.com/vulkan-go/vulkan"
)

// CreateSemaphore creates a native vulkan semaphore object
func (d *Device) CreateSemaphore() (vk.Semaphore, error) {
	info := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	var sema vk.Semaphore
	err := vkResult(vk.CreateSemaphore(d.VKDevice, &info, nil, &sema), "create semaphore")
	return sema, err
}

func (d *Device) DestroySemaphore(s vk.Semaphore) {
	if s != vk.NullSemaphore {
		vk.DestroySemaphore(d.VKDevice, s, nil)
	}
}
