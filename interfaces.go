package vkbase

import (
	vk "github.com/vulkan-go/vulkan"
)

// IDestructable is anything owning Vulkan objects.
type IDestructable interface {
	Destroy()
}

// BufferObject is data that can be copied into a buffer.
type BufferObject interface {
	Bytes() []byte
}

// IndexSource is index data for indexed draws.
type IndexSource interface {
	BufferObject
	IndexType() vk.IndexType
	Count() int
}

// VertexDescriptor describes how a vertex buffer is read.
type VertexDescriptor interface {
	BindingDescription() vk.VertexInputBindingDescription
	AttributeDescriptions() []vk.VertexInputAttributeDescription
}

// VertexSource is vertex data that also describes its layout.
type VertexSource interface {
	BufferObject
	VertexDescriptor
}
