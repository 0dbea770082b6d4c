package vkbase

import (
	"testing"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

func candidate(name string, t vk.PhysicalDeviceType, mib uint64, queue int, exts ...string) *DeviceCandidate {
	return &DeviceCandidate{
		Name:             name,
		Type:             t,
		DeviceLocalBytes: mib << 20,
		Extensions:       exts,
		QueueFamily:      queue,
	}
}

func TestDefaultDeviceScore(t *testing.T) {
	required := []string{swapchainExtension}
	tests := []struct {
		name string
		c    *DeviceCandidate
		want float64
	}{
		{"discrete", candidate("a", vk.PhysicalDeviceTypeDiscreteGpu, 0, 0, swapchainExtension), 1000},
		{"integrated", candidate("b", vk.PhysicalDeviceTypeIntegratedGpu, 0, 0, swapchainExtension), 500},
		{"virtual", candidate("c", vk.PhysicalDeviceTypeVirtualGpu, 0, 0, swapchainExtension), 200},
		{"cpu", candidate("d", vk.PhysicalDeviceTypeCpu, 0, 0, swapchainExtension), 100},
		{"other", candidate("e", vk.PhysicalDeviceTypeOther, 0, 0, swapchainExtension), 10},
		{"heap", candidate("f", vk.PhysicalDeviceTypeCpu, 2000, 0, swapchainExtension), 102},
		{"missing extension", candidate("g", vk.PhysicalDeviceTypeDiscreteGpu, 8192, 0), 0},
		{"no queue", candidate("h", vk.PhysicalDeviceTypeDiscreteGpu, 8192, -1, swapchainExtension), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultDeviceScore(tt.c, required)
			if d := got - tt.want; d > 1e-9 || d < -1e-9 {
				t.Errorf("score = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestPickDevicePrefersDiscrete(t *testing.T) {
	candidates := []*DeviceCandidate{
		candidate("igpu", vk.PhysicalDeviceTypeIntegratedGpu, 16384, 0),
		candidate("dgpu", vk.PhysicalDeviceTypeDiscreteGpu, 4096, 1),
	}
	best, score, err := pickDevice(candidates, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if best.Name != "dgpu" {
		t.Errorf("picked %s", best.Name)
	}
	if score < 1000 {
		t.Errorf("score = %g", score)
	}
}

func TestPickDeviceHeapBreaksTie(t *testing.T) {
	candidates := []*DeviceCandidate{
		candidate("small", vk.PhysicalDeviceTypeDiscreteGpu, 4096, 0),
		candidate("large", vk.PhysicalDeviceTypeDiscreteGpu, 8192, 0),
	}
	best, _, err := pickDevice(candidates, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if best.Name != "large" {
		t.Errorf("picked %s", best.Name)
	}
}

func TestPickDeviceNoDevices(t *testing.T) {
	called := false
	score := func(*DeviceCandidate, []string) float64 {
		called = true
		return 1
	}
	_, _, err := pickDevice(nil, nil, score)
	if !frame.IsFatal(err) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice, got %v", err)
	}
	if called {
		t.Error("scorer called without devices")
	}
}

func TestPickDeviceBelowThreshold(t *testing.T) {
	candidates := []*DeviceCandidate{
		candidate("a", vk.PhysicalDeviceTypeDiscreteGpu, 0, -1),
		candidate("b", vk.PhysicalDeviceTypeDiscreteGpu, 0, 0),
	}
	_, _, err := pickDevice(candidates, []string{swapchainExtension}, nil)
	if !frame.IsFatal(err) || !errors.Is(err, ErrNoDevice) {
		t.Fatalf("expected fatal ErrNoDevice, got %v", err)
	}
}

func TestPickDeviceCustomScorer(t *testing.T) {
	candidates := []*DeviceCandidate{
		candidate("dgpu", vk.PhysicalDeviceTypeDiscreteGpu, 0, 0),
		candidate("cpu", vk.PhysicalDeviceTypeCpu, 0, 0),
	}
	preferCPU := func(c *DeviceCandidate, _ []string) float64 {
		if c.Type == vk.PhysicalDeviceTypeCpu {
			return 1
		}
		return 0.5
	}
	best, _, err := pickDevice(candidates, nil, preferCPU)
	if err != nil {
		t.Fatal(err)
	}
	if best.Name != "cpu" {
		t.Errorf("picked %s", best.Name)
	}
}

type emptyEnumerator struct{}

func (emptyEnumerator) PhysicalDevices() ([]*PhysicalDevice, error) { return nil, nil }

func TestSelectPhysicalDeviceNoDevices(t *testing.T) {
	_, err := SelectPhysicalDevice(emptyEnumerator{}, vk.NullSurface, nil, nil)
	if !frame.IsFatal(err) {
		t.Fatalf("expected fatal error, got %v", err)
	}
}

func TestFindMemoryType(t *testing.T) {
	types := []vk.MemoryPropertyFlags{
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit),
	}
	hostVisible := vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit

	idx, err := findMemoryType(types, 0b111, hostVisible)
	if err != nil || idx != 2 {
		t.Errorf("got %d, %v", idx, err)
	}
	idx, err = findMemoryType(types, 0b111, vk.MemoryPropertyDeviceLocalBit)
	if err != nil || idx != 0 {
		t.Errorf("got %d, %v", idx, err)
	}
	if _, err := findMemoryType(types, 0b011, hostVisible); !frame.IsFatal(err) {
		t.Errorf("expected fatal error, got %v", err)
	}
}
