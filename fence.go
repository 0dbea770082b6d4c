package vkbase

import (
	"time"

	vk "github.com/vulkan-go/vulkan"
)

type Fence struct {
	Device  *Device
	VKFence vk.Fence
}

// CreateFence creates a fence, optionally in the signaled state so the first
// wait on it returns immediately.
func (d *Device) CreateFence(signaled bool) (*Fence, error) {
	info := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	if signaled {
		info.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	if err := vkResult(vk.CreateFence(d.VKDevice, &info, nil, &fence), "create fence"); err != nil {
		return nil, err
	}
	return &Fence{Device: d, VKFence: fence}, nil
}

// CreateFences creates count fences.
func (d *Device) CreateFences(count int, signaled bool) ([]*Fence, error) {
	ret := make([]*Fence, 0, count)
	for i := 0; i < count; i++ {
		f, err := d.CreateFence(signaled)
		if err != nil {
			destroyFences(ret)
			return nil, err
		}
		ret = append(ret, f)
	}
	return ret, nil
}

func destroyFences(fences []*Fence) {
	for _, f := range fences {
		f.Destroy()
	}
}

// WaitForFences blocks until all (or any) fences are signaled or the
// timeout expires. A negative timeout waits forever.
func (d *Device) WaitForFences(waitForAll bool, timeout time.Duration, fences ...*Fence) error {
	f := make([]vk.Fence, len(fences))
	for i := range fences {
		f[i] = fences[i].VKFence
	}

	wait := vk.Bool32(vk.False)
	if waitForAll {
		wait = vk.Bool32(vk.True)
	}
	ns := uint64(vk.MaxUint64)
	if timeout >= 0 {
		ns = uint64(timeout.Nanoseconds())
	}
	return vkResult(vk.WaitForFences(d.VKDevice, uint32(len(f)), f, wait, ns), "wait for fences")
}

// Wait blocks until the fence is signaled.
func (f *Fence) Wait() error {
	return f.Device.WaitForFences(true, -1, f)
}

// Reset puts the fence back in the unsignaled state.
func (f *Fence) Reset() error {
	return vkResult(vk.ResetFences(f.Device.VKDevice, 1, []vk.Fence{f.VKFence}), "reset fence")
}

func (f *Fence) Destroy() {
	vk.DestroyFence(f.Device.VKDevice, f.VKFence, nil)
}
