package vkbase

import (
	vk "github.com/vulkan-go/vulkan"
)

// frameSync holds the semaphores shared by every frame, the submit info
// template built from them and one fence per draw buffer.
type frameSync struct {
	device *Device

	presentComplete vk.Semaphore
	renderComplete  vk.Semaphore
	waitStages      []vk.PipelineStageFlags
	submitInfo      vk.SubmitInfo

	fences []*Fence
}

func newFrameSync(d *Device) (*frameSync, error) {
	s := &frameSync{
		device:          d,
		presentComplete: vk.NullSemaphore,
		renderComplete:  vk.NullSemaphore,
	}
	if err := s.createSemaphores(); err != nil {
		s.destroy()
		return nil, err
	}
	return s, nil
}

func (s *frameSync) createSemaphores() error {
	var err error
	if s.presentComplete, err = s.device.CreateSemaphore(); err != nil {
		return err
	}
	if s.renderComplete, err = s.device.CreateSemaphore(); err != nil {
		return err
	}

	s.waitStages = []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)}
	s.submitInfo = vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{s.presentComplete},
		PWaitDstStageMask:    s.waitStages,
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{s.renderComplete},
		CommandBufferCount:   1,
	}
	return nil
}

// resetSemaphores replaces both semaphores. A suboptimal acquire signals
// present-complete without a submit consuming it, so the pair is renewed
// while the device is idle during a resize.
func (s *frameSync) resetSemaphores() error {
	s.destroySemaphores()
	return s.createSemaphores()
}

// fencesNeedRebuild reports whether the fence set no longer matches the
// number of draw buffers.
func fencesNeedRebuild(have, want int) bool {
	return have != want
}

// ensureFences makes one signaled fence per draw buffer. Existing fences are
// kept when the count is unchanged.
func (s *frameSync) ensureFences(count int) error {
	if !fencesNeedRebuild(len(s.fences), count) {
		return nil
	}
	destroyFences(s.fences)
	s.fences = nil
	fences, err := s.device.CreateFences(count, true)
	if err != nil {
		return err
	}
	s.fences = fences
	Logger().Debug("draw buffer fences created", "count", count)
	return nil
}

// submit returns a copy of the template submitting cmd.
func (s *frameSync) submit(cmd *CommandBuffer) vk.SubmitInfo {
	info := s.submitInfo
	info.PCommandBuffers = []vk.CommandBuffer{cmd.VKCommandBuffer}
	return info
}

func (s *frameSync) destroy() {
	destroyFences(s.fences)
	s.fences = nil
	s.destroySemaphores()
}

func (s *frameSync) destroySemaphores() {
	s.device.DestroySemaphore(s.presentComplete)
	s.device.DestroySemaphore(s.renderComplete)
	s.presentComplete = vk.NullSemaphore
	s.renderComplete = vk.NullSemaphore
}
