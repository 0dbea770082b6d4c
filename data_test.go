package vkbase

import (
	"encoding/binary"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestIndexSlices(t *testing.T) {
	i16 := IndexSliceUint16{0, 1, 2}
	if got := len(i16.Bytes()); got != 6 {
		t.Errorf("uint16 bytes = %d", got)
	}
	if i16.IndexType() != vk.IndexTypeUint16 || i16.Count() != 3 {
		t.Error("uint16 index type or count")
	}

	i32 := IndexSliceUint32{0, 1, 0x01020304}
	b := i32.Bytes()
	if len(b) != 12 {
		t.Fatalf("uint32 bytes = %d", len(b))
	}
	if binary.LittleEndian.Uint32(b[8:]) != 0x01020304 && binary.BigEndian.Uint32(b[8:]) != 0x01020304 {
		t.Error("uint32 index bytes do not hold the value")
	}
	if i32.IndexType() != vk.IndexTypeUint32 || i32.Count() != 3 {
		t.Error("uint32 index type or count")
	}
}

func TestSliceBytesEmpty(t *testing.T) {
	if b := SliceBytes([]float32(nil)); b != nil {
		t.Errorf("got %v", b)
	}
}

func TestValueBytes(t *testing.T) {
	v := struct {
		A, B float32
		C    [4]uint32
	}{}
	if got := len(ValueBytes(&v)); got != 24 {
		t.Errorf("len = %d, want 24", got)
	}
}
