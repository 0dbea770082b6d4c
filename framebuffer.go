package vkbase

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

// Framebuffer wraps a vk.Framebuffer.
type Framebuffer struct {
	Device        *Device
	VKFramebuffer vk.Framebuffer
	Extent        vk.Extent2D
}

// CreateFramebuffer binds attachments, in render pass order, into a
// framebuffer of extent.
func (d *Device) CreateFramebuffer(renderPass *RenderPass, extent vk.Extent2D, attachments ...*ImageView) (*Framebuffer, error) {
	views := make([]vk.ImageView, len(attachments))
	for i, a := range attachments {
		views[i] = a.VKImageView
	}
	info := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderPass.VKRenderPass,
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           extent.Width,
		Height:          extent.Height,
		Layers:          1,
	}
	var fb vk.Framebuffer
	if err := vkResult(vk.CreateFramebuffer(d.VKDevice, &info, nil, &fb), "create framebuffer"); err != nil {
		return nil, err
	}
	return &Framebuffer{Device: d, VKFramebuffer: fb, Extent: extent}, nil
}

func (f *Framebuffer) Destroy() {
	if f.VKFramebuffer != vk.NullFramebuffer {
		vk.DestroyFramebuffer(f.Device.VKDevice, f.VKFramebuffer, nil)
		f.VKFramebuffer = vk.NullFramebuffer
	}
}

// AttachmentFunc returns the attachments of the framebuffer for swapchain
// image i, color view first.
type AttachmentFunc func(i int, color, depth *ImageView) []*ImageView

func defaultAttachments(_ int, color, depth *ImageView) []*ImageView {
	return []*ImageView{color, depth}
}

// RenderTargets is the render pass plus one framebuffer per swapchain image,
// all sharing a depth/stencil attachment.
type RenderTargets struct {
	RenderPass   *RenderPass
	DepthFormat  vk.Format
	DepthStencil *DepthStencil
	Framebuffers []*Framebuffer
}

// Rebuild replaces the depth/stencil attachment and the framebuffers to
// match the swapchain. The render pass is kept.
func (t *RenderTargets) Rebuild(resources *ResourceManager, sc *Swapchain, attach AttachmentFunc) error {
	t.destroyFramebuffers()
	t.DepthStencil.Destroy()
	t.DepthStencil = nil

	ds, err := resources.CreateDepthStencil(sc.Extent, t.DepthFormat)
	if err != nil {
		return err
	}
	t.DepthStencil = ds

	if attach == nil {
		attach = defaultAttachments
	}
	t.Framebuffers = make([]*Framebuffer, 0, len(sc.Views))
	for i, view := range sc.Views {
		fb, err := sc.Device.CreateFramebuffer(t.RenderPass, sc.Extent, attach(i, view, ds.View)...)
		if err != nil {
			return err
		}
		t.Framebuffers = append(t.Framebuffers, fb)
	}
	return checkTargetCounts(len(sc.Images), len(sc.Views), len(t.Framebuffers))
}

// checkTargetCounts holds after every (re)creation: one view and one
// framebuffer per swapchain image.
func checkTargetCounts(images, views, framebuffers int) error {
	if images != views || views != framebuffers {
		return frame.Fatalf("render targets out of sync: %d images, %d views, %d framebuffers", images, views, framebuffers)
	}
	return nil
}

func (t *RenderTargets) destroyFramebuffers() {
	for _, fb := range t.Framebuffers {
		fb.Destroy()
	}
	t.Framebuffers = nil
}

// Destroy releases framebuffers, the depth attachment and the render pass.
func (t *RenderTargets) Destroy() {
	t.destroyFramebuffers()
	t.DepthStencil.Destroy()
	t.DepthStencil = nil
	t.RenderPass.Destroy()
	t.RenderPass = nil
}
