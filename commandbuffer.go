package vkbase

import (
	vk "github.com/vulkan-go/vulkan"
)

// CommandBuffer describes a sequence of commands that will be executed
// upon being sent to a device queue. Not all available vulkan commands
// are wrapped by this package; renderers call the native API through VK()
// for the rest.
type CommandBuffer struct {
	VKCommandBuffer vk.CommandBuffer
}

// VK is a utility function for accessing the native vulkan command buffer
func (c *CommandBuffer) VK() vk.CommandBuffer {
	return c.VKCommandBuffer
}

// Reset this command buffer
func (c *CommandBuffer) Reset() error {
	return vkResult(vk.ResetCommandBuffer(c.VKCommandBuffer, 0), "reset command buffer")
}

// Begin capturing work for a buffer that may be submitted many times.
func (c *CommandBuffer) Begin() error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	return vkResult(vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo), "begin command buffer")
}

// BeginOneTime begins capturing work for a buffer submitted exactly once.
func (c *CommandBuffer) BeginOneTime() error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	return vkResult(vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo), "begin one time command buffer")
}

// End describing work for this command buffer
func (c *CommandBuffer) End() error {
	return vkResult(vk.EndCommandBuffer(c.VKCommandBuffer), "end command buffer")
}

// CmdBeginRenderPass starts the render pass on framebuffer, clearing the
// attachments with clearValues.
func (c *CommandBuffer) CmdBeginRenderPass(renderPass *RenderPass, framebuffer *Framebuffer, extent vk.Extent2D, clearValues []vk.ClearValue) {
	info := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  renderPass.VKRenderPass,
		Framebuffer: framebuffer.VKFramebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(c.VKCommandBuffer, &info, vk.SubpassContentsInline)
}

func (c *CommandBuffer) CmdEndRenderPass() {
	vk.CmdEndRenderPass(c.VKCommandBuffer)
}

// CmdSetViewportAndScissor covers the whole extent, for pipelines with
// dynamic viewport and scissor state.
func (c *CommandBuffer) CmdSetViewportAndScissor(extent vk.Extent2D) {
	vk.CmdSetViewport(c.VKCommandBuffer, 0, 1, []vk.Viewport{{
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}})
	vk.CmdSetScissor(c.VKCommandBuffer, 0, 1, []vk.Rect2D{{
		Extent: extent,
	}})
}

func (c *CommandBuffer) CmdBindGraphicsPipeline(p *GraphicsPipeline) {
	vk.CmdBindPipeline(c.VKCommandBuffer, vk.PipelineBindPointGraphics, p.VKPipeline)
}

func (c *CommandBuffer) CmdBindDescriptorSets(bindPoint vk.PipelineBindPoint, layout *PipelineLayout, firstSet int, descriptorSets ...*DescriptorSet) {
	sets := make([]vk.DescriptorSet, len(descriptorSets))
	for i := range descriptorSets {
		sets[i] = descriptorSets[i].VKDescriptorSet
	}
	vk.CmdBindDescriptorSets(c.VKCommandBuffer, bindPoint,
		layout.VKPipelineLayout, uint32(firstSet), uint32(len(sets)), sets, 0, nil)
}

// CmdBindVertexBuffers binds buffers to consecutive bindings starting at 0.
func (c *CommandBuffer) CmdBindVertexBuffers(buffers ...*BufferResource) {
	vkb := make([]vk.Buffer, len(buffers))
	offsets := make([]vk.DeviceSize, len(buffers))
	for i, b := range buffers {
		vkb[i] = b.VKBuffer
	}
	vk.CmdBindVertexBuffers(c.VKCommandBuffer, 0, uint32(len(vkb)), vkb, offsets)
}

func (c *CommandBuffer) CmdBindIndexBuffer(b *BufferResource, indexType vk.IndexType) {
	vk.CmdBindIndexBuffer(c.VKCommandBuffer, b.VKBuffer, 0, indexType)
}

func (c *CommandBuffer) CmdDrawIndexed(indexCount int) {
	vk.CmdDrawIndexed(c.VKCommandBuffer, uint32(indexCount), 1, 0, 0, 0)
}

// CmdCopyBuffer copies size bytes between two buffers.
func (c *CommandBuffer) CmdCopyBuffer(src, dst *Buffer, size uint64) {
	vk.CmdCopyBuffer(c.VKCommandBuffer, src.VKBuffer, dst.VKBuffer, 1, []vk.BufferCopy{{
		Size: vk.DeviceSize(size),
	}})
}
