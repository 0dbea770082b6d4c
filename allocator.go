package vkbase

import (
	"fmt"
)

// Allocation is a range inside a memory pool.
type Allocation struct {
	Offset uint64
	Size   uint64
	// Object is the resource living in this range, if any.
	Object IDestructable
}

func (a *Allocation) String() string {
	return fmt.Sprintf("[%d %d]", a.Offset, a.Size)
}

func (a *Allocation) end() uint64 {
	return a.Offset + a.Size
}

// Allocator hands out ranges of a fixed size block.
type Allocator interface {
	Allocate(size uint64, align uint64) *Allocation
	Free(a *Allocation)
	// DestroyContents destroys the object of every live allocation.
	DestroyContents()
	Used() uint64
}

// LinearAllocator is a first-fit allocator over a block of Size bytes. Live
// allocations are kept sorted by offset.
type LinearAllocator struct {
	Size   uint64
	allocs []*Allocation
}

func alignUp(a uint64, align uint64) uint64 {
	if align <= 1 {
		return a
	}
	m := a % align
	if m == 0 {
		return a
	}
	return a - m + align
}

// Allocate returns the lowest aligned range of size bytes that fits, or nil
// when the block is full.
func (p *LinearAllocator) Allocate(size uint64, align uint64) *Allocation {
	if size == 0 || size > p.Size {
		return nil
	}

	var start uint64
	for i, a := range p.allocs {
		if start+size <= a.Offset {
			na := &Allocation{Offset: start, Size: size}
			p.allocs = append(p.allocs[:i], append([]*Allocation{na}, p.allocs[i:]...)...)
			return na
		}
		start = alignUp(a.end(), align)
	}
	if start > p.Size || p.Size-start < size {
		Logger().Debug("allocator full", "size", size, "align", align, "used", p.Used(), "capacity", p.Size)
		return nil
	}
	na := &Allocation{Offset: start, Size: size}
	p.allocs = append(p.allocs, na)
	return na
}

// Free releases a range. Unknown allocations are ignored.
func (p *LinearAllocator) Free(fa *Allocation) {
	for i, a := range p.allocs {
		if a == fa {
			p.allocs = append(p.allocs[:i], p.allocs[i+1:]...)
			return
		}
	}
}

func (p *LinearAllocator) DestroyContents() {
	allocs := p.allocs
	p.allocs = nil
	for _, a := range allocs {
		if a.Object != nil {
			a.Object.Destroy()
		}
	}
}

// Used returns the bytes held by live allocations.
func (p *LinearAllocator) Used() uint64 {
	var used uint64
	for _, a := range p.allocs {
		used += a.Size
	}
	return used
}

func (p *LinearAllocator) String() string {
	return fmt.Sprintf("%v", p.allocs)
}
