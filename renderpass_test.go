package vkbase

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestDefaultRenderPassCreateInfo(t *testing.T) {
	info := DefaultRenderPassCreateInfo(vk.FormatB8g8r8a8Srgb, vk.FormatD32Sfloat)

	if info.AttachmentCount != 2 || len(info.PAttachments) != 2 {
		t.Fatalf("attachments = %d", info.AttachmentCount)
	}
	color, depth := info.PAttachments[0], info.PAttachments[1]
	if color.Format != vk.FormatB8g8r8a8Srgb || color.FinalLayout != vk.ImageLayoutPresentSrc {
		t.Errorf("color attachment: %+v", color)
	}
	if color.LoadOp != vk.AttachmentLoadOpClear || color.StoreOp != vk.AttachmentStoreOpStore {
		t.Errorf("color ops: load %v store %v", color.LoadOp, color.StoreOp)
	}
	if depth.Format != vk.FormatD32Sfloat || depth.FinalLayout != vk.ImageLayoutDepthStencilAttachmentOptimal {
		t.Errorf("depth attachment: %+v", depth)
	}
	if depth.StoreOp != vk.AttachmentStoreOpDontCare {
		t.Errorf("depth store op = %v", depth.StoreOp)
	}

	if info.SubpassCount != 1 {
		t.Fatalf("subpasses = %d", info.SubpassCount)
	}
	sp := info.PSubpasses[0]
	if sp.PDepthStencilAttachment == nil || sp.PDepthStencilAttachment.Attachment != 1 {
		t.Error("subpass does not reference the depth attachment")
	}

	if info.DependencyCount != 2 {
		t.Fatalf("dependencies = %d", info.DependencyCount)
	}
	in, out := info.PDependencies[0], info.PDependencies[1]
	if in.SrcSubpass != vk.SubpassExternal || in.DstSubpass != 0 {
		t.Errorf("incoming dependency %d -> %d", in.SrcSubpass, in.DstSubpass)
	}
	if out.SrcSubpass != 0 || out.DstSubpass != vk.SubpassExternal {
		t.Errorf("outgoing dependency %d -> %d", out.SrcSubpass, out.DstSubpass)
	}
	if in.SrcStageMask != out.DstStageMask || in.DstStageMask != out.SrcStageMask {
		t.Error("outgoing dependency does not mirror the incoming one")
	}
	if in.SrcAccessMask != out.DstAccessMask || in.DstAccessMask != out.SrcAccessMask {
		t.Error("access masks do not mirror")
	}
	for i, d := range info.PDependencies {
		if d.DependencyFlags&vk.DependencyFlags(vk.DependencyByRegionBit) == 0 {
			t.Errorf("dependency %d is not by region", i)
		}
	}
}
