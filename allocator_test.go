package vkbase

import (
	"testing"
)

func TestAlign(t *testing.T) {
	tests := []struct {
		a, align, want uint64
	}{
		{12, 3, 12},
		{10, 3, 12},
		{0, 256, 0},
		{1, 256, 256},
		{7, 0, 7},
		{7, 1, 7},
	}
	for _, tt := range tests {
		if got := alignUp(tt.a, tt.align); got != tt.want {
			t.Errorf("alignUp(%d, %d) = %d, want %d", tt.a, tt.align, got, tt.want)
		}
	}
}

func TestAllocator(t *testing.T) {
	a := LinearAllocator{Size: 1024}

	if ra := a.Allocate(2048, 1); ra != nil {
		t.Error("allocation larger than the pool succeeded")
	}

	first := a.Allocate(512, 1)
	if first == nil || first.Offset != 0 {
		t.Fatalf("first allocation: %v", first)
	}

	if ra := a.Allocate(768, 1); ra != nil {
		t.Error("allocation past the end succeeded")
	}

	second := a.Allocate(500, 1)
	if second == nil || second.Offset != 512 {
		t.Fatalf("second allocation: %v", second)
	}

	if ra := a.Allocate(50, 1); ra != nil {
		t.Error("allocation into a 12 byte tail succeeded")
	}

	tail := a.Allocate(5, 1)
	if tail == nil || tail.Offset != 1012 {
		t.Fatalf("tail allocation: %v", tail)
	}

	a.Free(second)
	if ra := a.Allocate(500, 1); ra == nil || ra.Offset != 512 {
		t.Errorf("reuse of freed range: %v", ra)
	}

	a.Free(first)
	for _, size := range []uint64{20, 40, 12} {
		if ra := a.Allocate(size, 1); ra == nil {
			t.Errorf("allocation of %d into freed head failed", size)
		}
	}
	if ra := a.Allocate(500, 1); ra != nil {
		t.Error("allocation larger than any gap succeeded")
	}
	if used := a.Used(); used != 20+40+12+500+5 {
		t.Errorf("used = %d", used)
	}
}

func TestAllocatorAlignment(t *testing.T) {
	a := LinearAllocator{Size: 1024}
	a.Allocate(10, 256)
	b := a.Allocate(10, 256)
	if b == nil || b.Offset != 256 {
		t.Fatalf("aligned allocation: %v", b)
	}
	c := a.Allocate(700, 256)
	if c != nil {
		t.Errorf("allocation crossing the end succeeded: %v", c)
	}
	d := a.Allocate(512, 256)
	if d == nil || d.Offset != 512 {
		t.Errorf("aligned tail allocation: %v", d)
	}
}

type countingObject struct{ destroyed *int }

func (c countingObject) Destroy() { *c.destroyed++ }

func TestAllocatorDestroyContents(t *testing.T) {
	var n int
	a := LinearAllocator{Size: 64}
	for i := 0; i < 3; i++ {
		al := a.Allocate(8, 1)
		al.Object = countingObject{&n}
	}
	a.Allocate(8, 1)

	a.DestroyContents()
	if n != 3 {
		t.Errorf("destroyed %d objects, want 3", n)
	}
	if a.Used() != 0 {
		t.Errorf("used = %d after DestroyContents", a.Used())
	}
}
