package vkbase

import (
	"github.com/cockroachdb/errors"
	units "github.com/docker/go-units"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

// minDeviceScore is the lowest score a device may have and still be picked.
const minDeviceScore = 1e-7

// ErrNoDevice is the cause of a fatal error when no physical device can run
// the application.
var ErrNoDevice = errors.New("no suitable physical device")

// DeviceCandidate is what a DeviceScorer knows about a physical device.
type DeviceCandidate struct {
	Device *PhysicalDevice
	Name   string
	Type   vk.PhysicalDeviceType
	// DeviceLocalBytes is the total size of the device-local heaps.
	DeviceLocalBytes uint64
	Extensions       []string
	// QueueFamily is the index of a family supporting graphics and present
	// to the target surface, -1 when there is none.
	QueueFamily int
}

// HasExtensions reports whether every extension in required is supported.
func (c *DeviceCandidate) HasExtensions(required []string) bool {
	for _, ext := range required {
		if !contains(c.Extensions, ext) {
			return false
		}
	}
	return true
}

// DeviceScorer rates a candidate; higher wins, a score below 1e-7 rejects it.
type DeviceScorer func(c *DeviceCandidate, requiredExtensions []string) float64

func deviceTypeWeight(t vk.PhysicalDeviceType) float64 {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return 1000
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return 500
	case vk.PhysicalDeviceTypeVirtualGpu:
		return 200
	case vk.PhysicalDeviceTypeCpu:
		return 100
	default:
		return 10
	}
}

// DefaultDeviceScore prefers discrete GPUs, then more device-local memory.
func DefaultDeviceScore(c *DeviceCandidate, requiredExtensions []string) float64 {
	if c.QueueFamily < 0 || !c.HasExtensions(requiredExtensions) {
		return 0
	}
	const mib = 1 << 20
	return deviceTypeWeight(c.Type) + 1e-3*float64(c.DeviceLocalBytes/mib)
}

// pickDevice returns the best scoring candidate. Ties keep enumeration order.
func pickDevice(candidates []*DeviceCandidate, required []string, score DeviceScorer) (*DeviceCandidate, float64, error) {
	if len(candidates) == 0 {
		return nil, 0, frame.Fatal(errors.Wrap(ErrNoDevice, "no physical devices"))
	}
	if score == nil {
		score = DefaultDeviceScore
	}

	var best *DeviceCandidate
	bestScore := 0.0
	for _, c := range candidates {
		s := score(c, required)
		Logger().Debug("physical device scored", "device", c.Name, "score", s)
		if best == nil || s > bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore < minDeviceScore {
		return nil, bestScore, frame.Fatal(errors.Wrapf(ErrNoDevice, "best device %q scored %g", best.Name, bestScore))
	}
	return best, bestScore, nil
}

// Candidate gathers what the scorer needs about p for surface. With a null
// surface presentation support is not checked.
func (p *PhysicalDevice) Candidate(surface vk.Surface) (*DeviceCandidate, error) {
	extensions, err := p.SupportedExtensions()
	if err != nil {
		return nil, err
	}
	c := &DeviceCandidate{
		Device:           p,
		Name:             p.DeviceName,
		Type:             p.Type(),
		DeviceLocalBytes: p.DeviceLocalHeapSize(),
		Extensions:       extensions,
		QueueFamily:      -1,
	}
	qfs := p.QueueFamilies()
	if surface == vk.NullSurface {
		// Headless: only graphics support can be checked.
		qfs = qfs.Filter((*QueueFamily).IsGraphics)
	} else {
		qfs = qfs.FilterGraphicsAndPresent(surface)
	}
	if len(qfs) > 0 {
		c.QueueFamily = qfs[0].Index
	}
	return c, nil
}

type deviceEnumerator interface {
	PhysicalDevices() ([]*PhysicalDevice, error)
}

// SelectPhysicalDevice scores every physical device against surface and
// returns the best one.
func SelectPhysicalDevice(instance deviceEnumerator, surface vk.Surface, required []string, score DeviceScorer) (*DeviceCandidate, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return nil, err
	}
	candidates := make([]*DeviceCandidate, 0, len(devices))
	for _, d := range devices {
		c, err := d.Candidate(surface)
		if err != nil {
			return nil, errors.Wrapf(err, "query %s", d.DeviceName)
		}
		candidates = append(candidates, c)
	}
	best, s, err := pickDevice(candidates, required, score)
	if err != nil {
		return nil, err
	}
	Logger().Info("physical device selected",
		"device", best.Name,
		"score", s,
		"deviceLocal", units.BytesSize(float64(best.DeviceLocalBytes)),
		"api", best.Device.APIVersion(),
		"pipelineCache", best.Device.PipelineCacheUUID(),
		"queueFamily", best.QueueFamily)
	return best, nil
}
