package vkbase

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestFencesNeedRebuild(t *testing.T) {
	tests := []struct {
		have, want int
		rebuild    bool
	}{
		{0, 3, true},
		{3, 3, false},
		{3, 2, true},
		{2, 3, true},
	}
	for _, tt := range tests {
		if got := fencesNeedRebuild(tt.have, tt.want); got != tt.rebuild {
			t.Errorf("fencesNeedRebuild(%d, %d) = %v", tt.have, tt.want, got)
		}
	}
}

func TestSubmitTemplateCopy(t *testing.T) {
	s := &frameSync{
		submitInfo: vk.SubmitInfo{
			SType:              vk.StructureTypeSubmitInfo,
			WaitSemaphoreCount: 1,
			CommandBufferCount: 1,
		},
	}
	a := s.submit(&CommandBuffer{})
	if len(a.PCommandBuffers) != 1 {
		t.Fatalf("command buffers = %d", len(a.PCommandBuffers))
	}
	if s.submitInfo.PCommandBuffers != nil {
		t.Error("template modified by submit")
	}
	if a.WaitSemaphoreCount != 1 || a.SType != vk.StructureTypeSubmitInfo {
		t.Errorf("template fields not copied: %+v", a)
	}
}
