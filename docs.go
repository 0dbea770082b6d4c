/*
Package vkbase is a small harness for Vulkan applications in Go. It performs the
setup every Vulkan program repeats (instance, device, swapchain, render pass,
framebuffers, command buffers and synchronization) and runs the per-frame cycle of
acquiring a swapchain image, submitting prerecorded work and presenting it,
including recovery when the window is resized or the swapchain goes stale.

It is not a renderer. Applications supply pipelines, buffers and draw commands by
implementing Renderer, plus any of the optional hook interfaces (BufferCreator,
DescriptorCreator, Updater, UniformUpdater, ViewChanger, RenderPassConfigurer,
FramebufferAttacher, FeatureRequester).

Native Vulkan terms

	Instance	the vulkan runtime instance
	PhysicalDevice	the physical hardware device
	Device		the logical device most of the vulkan apis target
	Queue		a queue which command buffers are submitted to
	Swapchain	the images presented to a window surface
	RenderPass	the attachments and subpasses a frame renders into
	Framebuffer	the image views bound to a render pass for one swapchain image
	Pipeline	a description of how to process data on the GPU
	DeviceMemory	an allocation of memory on the host or device
	Buffer		a description of some bit of data (vertex, index, uniform)
	DescriptorSet	a mapping of data for use by shaders

Lifecycle

GraphicsApp.Init creates, in order: the instance (with the window's extensions
and, unless built with the release tag, the validation layer), the surface, the
best scoring physical device and a logical device with one graphics and present
queue, the swapchain, command buffers, the staging, device and host buffer pools,
the depth attachment, render pass and framebuffers, and a pipeline cache. It then
calls the renderer's hooks and records one draw buffer per swapchain image.

Each frame (see package frame) acquires an image, submits its draw buffer and
presents it, then waits for the queue, so frames never overlap. A stale swapchain
or a window resize rebuilds the swapchain, depth attachment, framebuffers and draw
buffers and tells the renderer through ViewChanged.

Errors

Every Vulkan failure is returned as an error marked with frame.ErrFatal; nothing
in the package panics or exits. Main logs the error and exits with status 1.

Logging

Nothing is logged until SetLogger installs a log/slog logger.
*/
package vkbase
