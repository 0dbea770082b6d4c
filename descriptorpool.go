package vkbase

import (
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorPool is a resource manager for descriptor sets.
type DescriptorPool struct {
	Device               *Device
	VKDescriptorPool     vk.DescriptorPool
	VKDescriptorPoolSize []vk.DescriptorPoolSize
}

func (d *Device) NewDescriptorPool() *DescriptorPool {
	return &DescriptorPool{Device: d}
}

// AddPoolSize informs the descriptor pool how many of a certain descriptor type it will contain
func (d *DescriptorPool) AddPoolSize(dtype vk.DescriptorType, count int) *DescriptorPool {
	d.VKDescriptorPoolSize = append(d.VKDescriptorPoolSize, vk.DescriptorPoolSize{
		Type:            dtype,
		DescriptorCount: uint32(count),
	})
	return d
}

// Create creates the pool for up to maxSets sets; sets may be freed one by one.
func (d *DescriptorPool) Create(maxSets int) error {
	info := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       uint32(maxSets),
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		PoolSizeCount: uint32(len(d.VKDescriptorPoolSize)),
		PPoolSizes:    d.VKDescriptorPoolSize,
	}
	return vkResult(vk.CreateDescriptorPool(d.Device.VKDevice, &info, nil, &d.VKDescriptorPool), "create descriptor pool")
}

// Allocate allocates one descriptor set per layout.
func (d *DescriptorPool) Allocate(layouts ...*DescriptorSetLayout) ([]*DescriptorSet, error) {
	if len(layouts) == 0 {
		return nil, nil
	}
	dsl := make([]vk.DescriptorSetLayout, len(layouts))
	for i, l := range layouts {
		dsl[i] = l.VKDescriptorSetLayout
	}
	info := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     d.VKDescriptorPool,
		DescriptorSetCount: uint32(len(dsl)),
		PSetLayouts:        dsl,
	}

	sets := make([]vk.DescriptorSet, len(dsl))
	if err := vkResult(vk.AllocateDescriptorSets(d.Device.VKDevice, &info, &sets[0]), "allocate descriptor sets"); err != nil {
		return nil, err
	}

	ret := make([]*DescriptorSet, len(sets))
	for i, s := range sets {
		ret[i] = &DescriptorSet{Device: d.Device, DescriptorPool: d, VKDescriptorSet: s}
	}
	return ret, nil
}

func (d *DescriptorPool) Reset() error {
	return vkResult(vk.ResetDescriptorPool(d.Device.VKDevice, d.VKDescriptorPool, 0), "reset descriptor pool")
}

func (d *DescriptorPool) Destroy() {
	vk.DestroyDescriptorPool(d.Device.VKDevice, d.VKDescriptorPool, nil)
}
