package vkbase

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// BoundBuffer is a BufferResource created for a specific BufferObject.
type BoundBuffer struct {
	*BufferResource
	Source BufferObject
}

// boundBufferUsage derives the buffer usage from what the source describes.
// Sources that are neither vertex nor index data are uniform data.
func boundBufferUsage(bo BufferObject) vk.BufferUsageFlagBits {
	var usage vk.BufferUsageFlagBits
	if _, ok := bo.(VertexSource); ok {
		usage |= vk.BufferUsageVertexBufferBit
	}
	if _, ok := bo.(IndexSource); ok {
		usage |= vk.BufferUsageIndexBufferBit
	}
	if usage == 0 {
		usage = vk.BufferUsageUniformBufferBit
	}
	return usage
}

// CreateHostBoundBuffer allocates a buffer for bo from the host visible pool
// and copies bo into it. Call Update after bo changes.
func (p *GraphicsApp) CreateHostBoundBuffer(bo BufferObject) (*BoundBuffer, error) {
	pool := p.ResourceManager.BufferPool(HostPoolName)
	if pool == nil {
		return nil, errors.Newf("no %q pool", HostPoolName)
	}
	res, err := pool.AllocateBuffer(uint64(len(bo.Bytes())), boundBufferUsage(bo))
	if err != nil {
		return nil, err
	}
	b := &BoundBuffer{BufferResource: res, Source: bo}
	if err := b.Update(); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

// CreateStagedBoundBuffer allocates a buffer for bo from the device local
// pool and uploads bo through a staging buffer, waiting for the copy to
// complete. The staging buffer is released afterwards.
func (p *GraphicsApp) CreateStagedBoundBuffer(bo BufferObject) (*BoundBuffer, error) {
	pool := p.ResourceManager.BufferPool(DevicePoolName)
	if pool == nil {
		return nil, errors.Newf("no %q pool", DevicePoolName)
	}
	data := bo.Bytes()
	res, err := pool.AllocateBuffer(uint64(len(data)), boundBufferUsage(bo))
	if err != nil {
		return nil, err
	}
	b := &BoundBuffer{BufferResource: res, Source: bo}

	if err := p.upload(res, data); err != nil {
		b.Destroy()
		return nil, errors.Wrapf(err, "upload %s", res.String())
	}
	return b, nil
}

func (p *GraphicsApp) upload(res *BufferResource, data []byte) error {
	if !res.RequiresStaging() {
		return res.Write(data)
	}
	if err := res.AllocateStagingResource(); err != nil {
		return err
	}
	defer res.FreeStagingResource()
	if err := res.StagingResource.Write(data); err != nil {
		return err
	}
	return p.PushCommands(func(cmd *CommandBuffer) error {
		cmd.CmdCopyFromStagingResource(res)
		return nil
	})
}

// Update copies the current contents of Source into a host visible buffer.
func (b *BoundBuffer) Update() error {
	return b.Write(b.Source.Bytes())
}

// Destroy returns the buffer to its pool.
func (b *BoundBuffer) Destroy() {
	if b.BufferResource != nil {
		b.BufferResource.Destroy()
		b.BufferResource = nil
	}
}
