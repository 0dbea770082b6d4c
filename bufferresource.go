package vkbase

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// BufferResource is a buffer based resource, for example
// vertex buffer, index buffer, UBO,  which have been allocated
// from a larger pool of device memory. A BufferResource is a buffer
// which has been managed by the ResourceManager.
type BufferResource struct {
	Buffer
	ResourcePool    *BufferResourcePool
	Allocation      *Allocation
	StagingResource *BufferResource
}

// RequiresStaging indicates that the buffer lives in device memory the
// host cannot write.
func (r *BufferResource) RequiresStaging() bool {
	return r.ResourcePool.NeedsStaging
}

// VKMappedMemoryRange covers this buffer's range of the pool memory.
func (r *BufferResource) VKMappedMemoryRange() vk.MappedMemoryRange {
	return vk.MappedMemoryRange{
		SType:  vk.StructureTypeMappedMemoryRange,
		Memory: r.ResourcePool.Memory.VKDeviceMemory,
		Offset: vk.DeviceSize(r.Allocation.Offset),
		Size:   vk.DeviceSize(r.Allocation.Size),
	}
}

// AllocateStagingResource allocates a host visible twin of this buffer from
// the 'staging' pool. It is freed by FreeStagingResource or Free.
func (r *BufferResource) AllocateStagingResource() error {
	if !r.RequiresStaging() {
		return errors.New("resource does not require staging")
	}
	stagingPool := r.ResourcePool.ResourceManager.GetStagingPool()
	if stagingPool == nil {
		return errors.Newf("no %q pool to stage %s from", StagingPoolName, r.String())
	}
	var err error
	r.StagingResource, err = stagingPool.AllocateBuffer(r.Size, vk.BufferUsageTransferSrcBit)
	return err
}

// FreeStagingResource will free the staged resource associated with this resource
func (r *BufferResource) FreeStagingResource() {
	if r.StagingResource != nil {
		r.StagingResource.Free()
		r.StagingResource = nil
	}
}

// CmdCopyFromStagingResource records the copy from the staging twin.
func (c *CommandBuffer) CmdCopyFromStagingResource(resource *BufferResource) {
	c.CmdCopyBuffer(&resource.StagingResource.Buffer, &resource.Buffer, resource.Size)
}

// Bytes returns the mapped memory of a host visible buffer.
func (r *BufferResource) Bytes() ([]byte, error) {
	if r.RequiresStaging() {
		return nil, errors.Newf("%s is not host visible", r.String())
	}
	return r.ResourcePool.Memory.Range(r.Allocation.Offset, r.Size)
}

// Write copies data to the start of a host visible buffer.
func (r *BufferResource) Write(data []byte) error {
	if uint64(len(data)) > r.Size {
		return errors.Newf("%d bytes do not fit buffer of %d", len(data), r.Size)
	}
	out, err := r.Bytes()
	if err != nil {
		return err
	}
	copy(out, data)
	return nil
}

func (r *BufferResource) Destroy() {
	r.Free()
}

// Free this resource and it's associated resources
func (r *BufferResource) Free() {
	r.FreeStagingResource()
	if r.Allocation != nil {
		if r.ResourcePool.Allocator != nil {
			r.ResourcePool.Allocator.Free(r.Allocation)
		}
		r.Allocation = nil
	}
	r.Buffer.Destroy()
}
