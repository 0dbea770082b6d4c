package vkbase

import (
	"testing"
	"unsafe"
)

func TestSafeString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "\x00"},
		{"main", "main\x00"},
		{"main\x00", "main\x00"},
	}
	for _, tt := range tests {
		if got := safeString(tt.in); got != tt.want {
			t.Errorf("safeString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafeStringsLeavesInput(t *testing.T) {
	in := []string{"VK_KHR_swapchain"}
	out := safeStrings(in)
	if in[0] != "VK_KHR_swapchain" {
		t.Errorf("input modified: %q", in[0])
	}
	if out[0] != "VK_KHR_swapchain\x00" {
		t.Errorf("got %q", out[0])
	}
}

func TestContains(t *testing.T) {
	list := []string{"VK_KHR_surface\x00", "VK_EXT_debug_report"}
	if !contains(list, "VK_KHR_surface") {
		t.Error("expected VK_KHR_surface")
	}
	if !contains(list, "VK_EXT_debug_report\x00") {
		t.Error("expected VK_EXT_debug_report")
	}
	if contains(list, "VK_EXT_debug_utils") {
		t.Error("unexpected VK_EXT_debug_utils")
	}
	if contains(nil, "x") {
		t.Error("nil list contains nothing")
	}
}

func TestToBytes(t *testing.T) {
	v := [2]uint32{0x01020304, 0x05060708}
	b := ToBytes(unsafe.Pointer(&v[0]), 8)
	if len(b) != 8 {
		t.Fatalf("len = %d", len(b))
	}
	b[0] = 0xff
	if v[0]&0xff != 0xff && v[0]>>24 != 0xff {
		t.Error("ToBytes does not alias the source memory")
	}
}
