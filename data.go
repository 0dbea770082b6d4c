package vkbase

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// SliceBytes views the backing array of s as bytes.
func SliceBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return ToBytes(unsafe.Pointer(&s[0]), len(s)*int(unsafe.Sizeof(zero)))
}

// ValueBytes views a single value as bytes, for uniform data.
func ValueBytes[T any](v *T) []byte {
	return ToBytes(unsafe.Pointer(v), int(unsafe.Sizeof(*v)))
}

type IndexSliceUint16 []uint16

func (i IndexSliceUint16) Bytes() []byte {
	return SliceBytes(i)
}

func (i IndexSliceUint16) IndexType() vk.IndexType {
	return vk.IndexTypeUint16
}

func (i IndexSliceUint16) Count() int {
	return len(i)
}

type IndexSliceUint32 []uint32

func (i IndexSliceUint32) Bytes() []byte {
	return SliceBytes(i)
}

func (i IndexSliceUint32) IndexType() vk.IndexType {
	return vk.IndexTypeUint32
}

func (i IndexSliceUint32) Count() int {
	return len(i)
}
