package vkbase

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

// driver performs the Vulkan side of each frame loop step for a GraphicsApp.
type driver struct {
	app *GraphicsApp
}

var _ frame.Driver = (*driver)(nil)

func (d *driver) AcquireNextImage() (uint32, frame.Status, error) {
	return d.app.Swapchain.AcquireNextImage(d.app.sync.presentComplete)
}

func (d *driver) PrepareImage(image uint32) error {
	if u, ok := d.app.renderer.(UniformUpdater); ok {
		return u.UpdateUniformBuffers(d.app, int(image))
	}
	return nil
}

// Submit waits for the previous use of the image's draw buffer to finish
// before queueing it again.
func (d *driver) Submit(image uint32) error {
	p := d.app
	fence := p.sync.fences[image]
	if err := fence.Wait(); err != nil {
		return err
	}
	if err := fence.Reset(); err != nil {
		return err
	}
	return p.Queue.Submit(p.sync.submit(p.DrawBuffers[image]), fence)
}

func (d *driver) Present(image uint32) (frame.Status, error) {
	return d.app.Swapchain.QueuePresent(d.app.Queue, image, d.app.sync.renderComplete)
}

func (d *driver) WaitQueueIdle() error {
	return d.app.Queue.WaitIdle()
}

func (d *driver) WaitDeviceIdle() error {
	return d.app.Device.WaitIdle()
}

func (d *driver) RecreateSwapchain(width, height int) error {
	if err := d.app.sync.resetSemaphores(); err != nil {
		return err
	}
	return d.app.Swapchain.Create(width, height)
}

func (d *driver) RecreateRenderTargets() error {
	return d.app.rebuildTargets()
}

// ReallocateDrawBuffers frees the draw buffers and allocates one per
// swapchain image. Fences and descriptors follow only when the image count
// changed.
func (d *driver) ReallocateDrawBuffers() error {
	p := d.app
	p.CommandPool.FreeBuffers(p.DrawBuffers)
	p.DrawBuffers = nil

	count := p.ImageCount()
	buffers, err := p.CommandPool.AllocateBuffers(count)
	if err != nil {
		return err
	}
	p.DrawBuffers = buffers
	if err := p.sync.ensureFences(count); err != nil {
		return err
	}

	if _, ok := p.renderer.(DescriptorCreator); ok && p.descriptorImages != count {
		Logger().Debug("swapchain image count changed, recreating descriptors", "from", p.descriptorImages, "to", count)
		p.destroyDescriptors()
		return p.createDescriptors()
	}
	return nil
}

func (d *driver) RecordDrawBuffers() error {
	for i := range d.app.DrawBuffers {
		if err := d.recordDrawBuffer(i); err != nil {
			return err
		}
	}
	return nil
}

func (d *driver) clearValues() []vk.ClearValue {
	if len(d.app.ClearValues) > 0 {
		return d.app.ClearValues
	}
	values := make([]vk.ClearValue, 2)
	values[0].SetColor(d.app.ClearColor[:])
	values[1].SetDepthStencil(1, 0)
	return values
}

func (d *driver) recordDrawBuffer(i int) error {
	p := d.app
	cmd := p.DrawBuffers[i]
	extent := p.Swapchain.Extent

	if err := cmd.Begin(); err != nil {
		return err
	}
	cmd.CmdBeginRenderPass(p.Targets.RenderPass, p.Targets.Framebuffers[i], extent, d.clearValues())
	cmd.CmdSetViewportAndScissor(extent)
	err := p.renderer.RecordDrawCommands(p, cmd, i)
	cmd.CmdEndRenderPass()
	if err != nil {
		return errors.Wrapf(err, "record draw commands for image %d", i)
	}
	return cmd.End()
}

func (d *driver) ViewChanged() error {
	if v, ok := d.app.renderer.(ViewChanger); ok {
		return v.ViewChanged(d.app)
	}
	return nil
}
