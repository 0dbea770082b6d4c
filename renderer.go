package vkbase

import (
	vk "github.com/vulkan-go/vulkan"
)

// Renderer is what an application plugs into a GraphicsApp. Pipelines are
// created once after the render pass exists and destroyed at shutdown.
// RecordDrawCommands is called inside the render pass of swapchain image
// image, with viewport and scissor already set to the swapchain extent.
//
// Every Destroy hook is called even when the matching Create hook failed
// part way, and must skip what was never created.
type Renderer interface {
	CreatePipelines(app *GraphicsApp) error
	DestroyPipelines(app *GraphicsApp)
	RecordDrawCommands(app *GraphicsApp, cmd *CommandBuffer, image int) error
}

// The interfaces below are optional. A Renderer implementing one of them is
// called at the matching point of the app lifecycle.

// RenderPassConfigurer may modify the render pass before it is created.
type RenderPassConfigurer interface {
	ConfigureRenderPass(app *GraphicsApp, info *vk.RenderPassCreateInfo)
}

// FramebufferAttacher chooses the attachments of each framebuffer. The
// result must match the render pass attachments.
type FramebufferAttacher interface {
	FramebufferAttachments(app *GraphicsApp, image int, color, depth *ImageView) []*ImageView
}

// BufferCreator owns vertex, index and uniform buffers.
type BufferCreator interface {
	CreateBuffers(app *GraphicsApp) error
	DestroyBuffers(app *GraphicsApp)
}

// DescriptorCreator owns descriptor pools and sets. Descriptors are
// recreated whenever the number of swapchain images changes.
type DescriptorCreator interface {
	CreateDescriptors(app *GraphicsApp) error
	DestroyDescriptors(app *GraphicsApp)
}

// Updater is called once per loop iteration with the seconds elapsed since
// the previous one.
type Updater interface {
	OnUpdate(app *GraphicsApp, dt float32) error
}

// UniformUpdater refreshes per-image data right before image is submitted.
type UniformUpdater interface {
	UpdateUniformBuffers(app *GraphicsApp, image int) error
}

// ViewChanger is told when the swapchain extent changed.
type ViewChanger interface {
	ViewChanged(app *GraphicsApp) error
}

// FeatureRequester asks for device features and extensions beyond the
// swapchain extension.
type FeatureRequester interface {
	EnabledFeatures(available vk.PhysicalDeviceFeatures) vk.PhysicalDeviceFeatures
	EnabledDeviceExtensions() []string
}
