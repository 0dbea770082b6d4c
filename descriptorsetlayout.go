package vkbase

import (
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSetLayout describes the layout of a descriptorset
type DescriptorSetLayout struct {
	Device                        *Device
	VKDescriptorSetLayout         vk.DescriptorSetLayout
	VKDescriptorSetLayoutBindings []vk.DescriptorSetLayoutBinding
}

func (d *Device) NewDescriptorSetLayout() *DescriptorSetLayout {
	return &DescriptorSetLayout{Device: d}
}

// AddBinding adds a single descriptor binding visible to stages.
func (d *DescriptorSetLayout) AddBinding(binding int, dtype vk.DescriptorType, stages vk.ShaderStageFlagBits) *DescriptorSetLayout {
	d.VKDescriptorSetLayoutBindings = append(d.VKDescriptorSetLayoutBindings, vk.DescriptorSetLayoutBinding{
		Binding:         uint32(binding),
		DescriptorType:  dtype,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(stages),
	})
	return d
}

// Create creates the layout from the added bindings.
func (d *DescriptorSetLayout) Create() error {
	info := &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(d.VKDescriptorSetLayoutBindings)),
		PBindings:    d.VKDescriptorSetLayoutBindings,
	}
	return vkResult(vk.CreateDescriptorSetLayout(d.Device.VKDevice, info, nil, &d.VKDescriptorSetLayout), "create descriptor set layout")
}

// Destroy destroys this descriptor set layout
func (d *DescriptorSetLayout) Destroy() {
	vk.DestroyDescriptorSetLayout(d.Device.VKDevice, d.VKDescriptorSetLayout, nil)
}
