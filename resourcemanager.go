package vkbase

import (
	"github.com/cockroachdb/errors"
	units "github.com/docker/go-units"
	vk "github.com/vulkan-go/vulkan"
)

// Names of the pools GraphicsApp creates at startup.
const (
	StagingPoolName = "staging"
	DevicePoolName  = "device"
	HostPoolName    = "host"
)

// ErrPoolFull is returned when a pool has no room left for an allocation.
var ErrPoolFull = errors.New("insufficient storage space in resource pool")

// BufferResourcePool is one block of device memory that buffers are
// suballocated from. Host visible pools stay mapped for their lifetime.
type BufferResourcePool struct {
	Device           *Device
	Name             string
	Usage            vk.BufferUsageFlagBits
	Sharing          vk.SharingMode
	MemoryProperties vk.MemoryPropertyFlagBits
	Size             uint64
	Allocator        Allocator
	Memory           *DeviceMemory
	NeedsStaging     bool
	ResourceManager  *ResourceManager
}

// AllocateBuffer creates a buffer of size bytes bound inside the pool.
func (p *BufferResourcePool) AllocateBuffer(size uint64, usage vk.BufferUsageFlagBits) (*BufferResource, error) {
	if p.NeedsStaging {
		usage |= vk.BufferUsageTransferDstBit
	}
	buffer, err := p.Device.CreateBuffer(size, usage, p.Sharing)
	if err != nil {
		return nil, err
	}

	mr := buffer.VKMemoryRequirements()
	allocation := p.Allocator.Allocate(uint64(mr.Size), uint64(mr.Alignment))
	if allocation == nil {
		buffer.Destroy()
		return nil, errors.Wrapf(ErrPoolFull, "pool %q: %d bytes", p.Name, uint64(mr.Size))
	}

	if err := buffer.Bind(p.Memory, allocation.Offset); err != nil {
		p.Allocator.Free(allocation)
		buffer.Destroy()
		return nil, err
	}

	ret := &BufferResource{
		Buffer:       *buffer,
		Allocation:   allocation,
		ResourcePool: p,
	}
	allocation.Object = ret
	return ret, nil
}

func (p *BufferResourcePool) LogDetails() {
	Logger().Debug("buffer pool",
		"name", p.Name,
		"size", units.BytesSize(float64(p.Size)),
		"used", units.BytesSize(float64(p.Allocator.Used())),
		"usage", usageToString(p.Usage),
		"staged", p.NeedsStaging)
}

// Destroy frees every buffer of the pool and its memory.
func (p *BufferResourcePool) Destroy() {
	if p.Allocator != nil {
		p.Allocator.DestroyContents()
		p.Allocator = nil
	}
	if p.Memory != nil {
		p.Memory.Destroy()
		p.Memory = nil
	}
	if p.ResourceManager != nil {
		delete(p.ResourceManager.bufferPools, p.Name)
	}
}

// ResourceManager owns the memory pools of a device. Vulkan limits the
// number of memory allocations, so buffers are suballocated from a few
// large blocks.
type ResourceManager struct {
	Device      *Device
	bufferPools map[string]*BufferResourcePool
}

func (d *Device) CreateResourceManager() *ResourceManager {
	return &ResourceManager{Device: d, bufferPools: make(map[string]*BufferResourcePool)}
}

func (r *ResourceManager) GetStagingPool() *BufferResourcePool {
	return r.bufferPools[StagingPoolName]
}

func (r *ResourceManager) HasStagingPool() bool {
	return r.bufferPools[StagingPoolName] != nil
}

func (r *ResourceManager) BufferPool(name string) *BufferResourcePool {
	return r.bufferPools[name]
}

// AllocateStagingPool creates the host visible pool staging copies come from.
func (r *ResourceManager) AllocateStagingPool(size uint64) (*BufferResourcePool, error) {
	return r.AllocateBufferPoolWithOptions(StagingPoolName, size, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit, vk.BufferUsageTransferSrcBit, vk.SharingModeExclusive)
}

// AllocateDeviceBufferPool creates a device local pool for vertex and index
// data, filled through the staging pool.
func (r *ResourceManager) AllocateDeviceBufferPool(name string, size uint64) (*BufferResourcePool, error) {
	return r.AllocateBufferPoolWithOptions(name, size, vk.MemoryPropertyDeviceLocalBit, vk.BufferUsageVertexBufferBit|vk.BufferUsageIndexBufferBit, vk.SharingModeExclusive)
}

// AllocateHostBufferPool creates a host visible pool for data the CPU
// rewrites, uniform buffers in particular.
func (r *ResourceManager) AllocateHostBufferPool(name string, size uint64) (*BufferResourcePool, error) {
	return r.AllocateBufferPoolWithOptions(name, size, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit, vk.BufferUsageVertexBufferBit|vk.BufferUsageIndexBufferBit|vk.BufferUsageUniformBufferBit, vk.SharingModeExclusive)
}

func (r *ResourceManager) AllocateBufferPoolWithOptions(name string, size uint64, mprops vk.MemoryPropertyFlagBits, usage vk.BufferUsageFlagBits, sharing vk.SharingMode) (*BufferResourcePool, error) {
	if _, ok := r.bufferPools[name]; ok {
		return nil, errors.Newf("buffer pool %q already exists", name)
	}

	needsStaging := mprops&vk.MemoryPropertyDeviceLocalBit != 0 && mprops&vk.MemoryPropertyHostVisibleBit == 0
	if needsStaging {
		usage |= vk.BufferUsageTransferDstBit
	}

	// A throwaway buffer with the pool's usage tells us which memory types fit.
	probe, err := r.Device.CreateBuffer(size, usage, sharing)
	if err != nil {
		return nil, err
	}
	mr := probe.VKMemoryRequirements()
	probe.Destroy()

	memory, err := r.Device.Allocate(uint64(mr.Size), mr.MemoryTypeBits, mprops)
	if err != nil {
		return nil, errors.Wrapf(err, "allocate pool %q", name)
	}
	if mprops&vk.MemoryPropertyHostVisibleBit != 0 {
		if _, err := memory.Map(); err != nil {
			memory.Destroy()
			return nil, err
		}
	}

	p := &BufferResourcePool{
		Device:           r.Device,
		Name:             name,
		Usage:            usage,
		Sharing:          sharing,
		MemoryProperties: mprops,
		Size:             uint64(mr.Size),
		Allocator:        &LinearAllocator{Size: uint64(mr.Size)},
		Memory:           memory,
		NeedsStaging:     needsStaging,
		ResourceManager:  r,
	}
	r.bufferPools[name] = p
	p.LogDetails()
	return p, nil
}

// NewImageResource creates an image with its own dedicated memory block.
func (r *ResourceManager) NewImageResource(extent vk.Extent2D, format vk.Format, usage vk.ImageUsageFlagBits, mprops vk.MemoryPropertyFlagBits) (*ImageResource, error) {
	img, err := r.Device.CreateImage(extent, format, vk.ImageTilingOptimal, usage)
	if err != nil {
		return nil, err
	}

	mr := img.VKMemoryRequirements()
	memory, err := r.Device.Allocate(uint64(mr.Size), mr.MemoryTypeBits, mprops)
	if err != nil {
		img.Destroy()
		return nil, err
	}
	if err := vkResult(vk.BindImageMemory(r.Device.VKDevice, img.VKImage, memory.VKDeviceMemory, 0), "bind image memory"); err != nil {
		memory.Destroy()
		img.Destroy()
		return nil, err
	}
	return &ImageResource{Image: *img, Memory: memory}, nil
}

func (r *ResourceManager) LogDetails() {
	for _, pool := range r.bufferPools {
		pool.LogDetails()
	}
}

func (r *ResourceManager) Destroy() {
	for _, p := range r.bufferPools {
		p.Destroy()
	}
}
