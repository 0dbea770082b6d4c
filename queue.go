package vkbase

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Queue is a device queue.
type Queue struct {
	Device      *Device
	QueueFamily *QueueFamily
	VKQueue     vk.Queue
}

func (q *Queue) WaitIdle() error {
	return vkResult(vk.QueueWaitIdle(q.VKQueue), "queue wait idle")
}

func commandBufferHandles(buffers []*CommandBuffer) []vk.CommandBuffer {
	b := make([]vk.CommandBuffer, len(buffers))
	for i := range buffers {
		b[i] = buffers[i].VKCommandBuffer
	}
	return b
}

// SubmitWaitIdle submits buffers without synchronization and waits for the
// queue to drain.
func (q *Queue) SubmitWaitIdle(buffers ...*CommandBuffer) error {
	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(buffers)),
		PCommandBuffers:    commandBufferHandles(buffers),
	}
	if err := vkResult(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, vk.NullFence), "queue submit"); err != nil {
		return err
	}
	return q.WaitIdle()
}

// Submit submits a fully formed submit info, signaling fence when done.
func (q *Queue) Submit(info vk.SubmitInfo, fence *Fence) error {
	vkFence := vk.NullFence
	if fence != nil {
		vkFence = fence.VKFence
	}
	return vkResult(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{info}, vkFence), "queue submit")
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %s}", q.Device.String(), q.QueueFamily.String())
}
