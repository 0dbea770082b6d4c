package vkbase

import (
	"testing"

	"github.com/celer/vkbase/frame"
)

func TestCheckTargetCounts(t *testing.T) {
	tests := []struct {
		images, views, framebuffers int
		ok                          bool
	}{
		{3, 3, 3, true},
		{0, 0, 0, true},
		{3, 3, 2, false},
		{3, 2, 3, false},
		{2, 3, 3, false},
	}
	for _, tt := range tests {
		err := checkTargetCounts(tt.images, tt.views, tt.framebuffers)
		if tt.ok && err != nil {
			t.Errorf("%d/%d/%d: unexpected error %v", tt.images, tt.views, tt.framebuffers, err)
		}
		if !tt.ok && !frame.IsFatal(err) {
			t.Errorf("%d/%d/%d: expected fatal error, got %v", tt.images, tt.views, tt.framebuffers, err)
		}
	}
}

func TestDefaultAttachments(t *testing.T) {
	color, depth := &ImageView{}, &ImageView{}
	got := defaultAttachments(0, color, depth)
	if len(got) != 2 || got[0] != color || got[1] != depth {
		t.Errorf("got %v", got)
	}
}
