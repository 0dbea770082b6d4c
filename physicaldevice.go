package vkbase

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

// PhysicalDevice is a GPU as reported by the instance.
type PhysicalDevice struct {
	DeviceName                 string
	VKPhysicalDevice           vk.PhysicalDevice
	VKPhysicalDeviceProperties vk.PhysicalDeviceProperties
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

// Type returns the device type (discrete, integrated, ...).
func (p *PhysicalDevice) Type() vk.PhysicalDeviceType {
	return p.VKPhysicalDeviceProperties.DeviceType
}

// PipelineCacheUUID identifies pipeline caches compatible with this device.
func (p *PhysicalDevice) PipelineCacheUUID() uuid.UUID {
	return uuid.UUID(p.VKPhysicalDeviceProperties.PipelineCacheUUID)
}

// APIVersion returns the supported Vulkan version as major.minor.patch.
func (p *PhysicalDevice) APIVersion() string {
	v := p.VKPhysicalDeviceProperties.ApiVersion
	return fmt.Sprintf("%d.%d.%d", v>>22, (v>>12)&0x3ff, v&0xfff)
}

func (p *PhysicalDevice) GetSurfacePresentModes(surface vk.Surface) ([]vk.PresentMode, error) {
	var count uint32
	if err := vkResult(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, nil), "get surface present modes"); err != nil {
		return nil, err
	}
	modes := make([]vk.PresentMode, count)
	if err := vkResult(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, modes), "get surface present modes"); err != nil {
		return nil, err
	}
	return modes[:count], nil
}

func (p *PhysicalDevice) GetSurfaceFormats(surface vk.Surface) ([]vk.SurfaceFormat, error) {
	var count uint32
	if err := vkResult(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, nil), "get surface formats"); err != nil {
		return nil, err
	}
	formats := make([]vk.SurfaceFormat, count)
	if err := vkResult(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, formats), "get surface formats"); err != nil {
		return nil, err
	}
	formats = formats[:count]
	for i := range formats {
		formats[i].Deref()
	}
	return formats, nil
}

func (p *PhysicalDevice) GetSurfaceCapabilities(surface vk.Surface) (*vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	if err := vkResult(vk.GetPhysicalDeviceSurfaceCapabilities(p.VKPhysicalDevice, surface, &caps), "get surface capabilities"); err != nil {
		return nil, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return &caps, nil
}

func (p *PhysicalDevice) QueueFamilies() QueueFamilySlice {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &count, nil)
	if count == 0 {
		return nil
	}

	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &count, props)

	ret := make(QueueFamilySlice, count)
	for i, prop := range props {
		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: prop}
		ret[i].VKQueueFamilyProperties.Deref()
	}
	return ret
}

// CreateDeviceOptions tunes logical device creation.
type CreateDeviceOptions struct {
	EnabledExtensions []string
	EnabledLayers     []string
	// EnabledFeatures defaults to every feature the device supports.
	EnabledFeatures *vk.PhysicalDeviceFeatures
}

// CreateLogicalDevice creates a device with one queue from each family in qfs.
func (p *PhysicalDevice) CreateLogicalDevice(qfs QueueFamilySlice, options *CreateDeviceOptions) (*Device, error) {
	if len(qfs) == 0 {
		return nil, frame.Fatalf("create logical device on %s: no queue families", p.DeviceName)
	}
	if options == nil {
		options = &CreateDeviceOptions{}
	}

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(qfs))
	for j, q := range qfs {
		queueCreateInfos[j] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(q.Index),
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	features := p.VKPhysicalDeviceFeatures()
	if options.EnabledFeatures != nil {
		features = *options.EnabledFeatures
	}

	extensions := safeStrings(options.EnabledExtensions)
	layers := safeStrings(options.EnabledLayers)
	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueCreateInfos)),
		PQueueCreateInfos:       queueCreateInfos,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{features},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	device := &Device{PhysicalDevice: p}
	if err := vkResult(vk.CreateDevice(p.VKPhysicalDevice, &deviceCreateInfo, nil, &device.VKDevice), "create logical device"); err != nil {
		return nil, err
	}
	return device, nil
}

func (p *PhysicalDevice) VKPhysicalDeviceFeatures() vk.PhysicalDeviceFeatures {
	var deviceFeatures vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(p.VKPhysicalDevice, &deviceFeatures)
	deviceFeatures.Deref()
	return deviceFeatures
}

func (p *PhysicalDevice) VKPhysicalDeviceMemoryProperties() vk.PhysicalDeviceMemoryProperties {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(p.VKPhysicalDevice, &memoryProperties)
	memoryProperties.Deref()
	return memoryProperties
}

// DeviceLocalHeapSize sums the sizes of every device-local memory heap.
func (p *PhysicalDevice) DeviceLocalHeapSize() uint64 {
	mp := p.VKPhysicalDeviceMemoryProperties()
	var total uint64
	for i := uint32(0); i < mp.MemoryHeapCount; i++ {
		heap := mp.MemoryHeaps[i]
		heap.Deref()
		if heap.Flags&vk.MemoryHeapFlags(vk.MemoryHeapDeviceLocalBit) != 0 {
			total += uint64(heap.Size)
		}
	}
	return total
}

// FindMemoryType returns the first memory type allowed by memoryTypeBits
// that has every flag in properties.
func (p *PhysicalDevice) FindMemoryType(memoryTypeBits uint32, properties vk.MemoryPropertyFlagBits) (uint32, error) {
	mp := p.VKPhysicalDeviceMemoryProperties()
	flags := make([]vk.MemoryPropertyFlags, mp.MemoryTypeCount)
	for i := uint32(0); i < mp.MemoryTypeCount; i++ {
		mt := mp.MemoryTypes[i]
		mt.Deref()
		flags[i] = mt.PropertyFlags
	}
	return findMemoryType(flags, memoryTypeBits, properties)
}

func findMemoryType(types []vk.MemoryPropertyFlags, memoryTypeBits uint32, properties vk.MemoryPropertyFlagBits) (uint32, error) {
	for i, flags := range types {
		if memoryTypeBits&(1<<uint(i)) != 0 &&
			vk.MemoryPropertyFlagBits(flags)&properties == properties {
			return uint32(i), nil
		}
	}
	return 0, frame.Fatal(errors.Newf("no memory type matches bits %#x with properties %#x", memoryTypeBits, uint32(properties)))
}

// SupportedExtensions lists the device extension names.
func (p *PhysicalDevice) SupportedExtensions() ([]string, error) {
	var count uint32
	if err := vkResult(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, nil), "enumerate device extensions"); err != nil {
		return nil, err
	}
	ext := make([]vk.ExtensionProperties, count)
	if err := vkResult(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, ext), "enumerate device extensions"); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, e := range ext[:count] {
		e.Deref()
		names = append(names, vk.ToString(e.ExtensionName[:]))
	}
	return names, nil
}

// FormatProperties returns how format can be used on this device.
func (p *PhysicalDevice) FormatProperties(format vk.Format) vk.FormatProperties {
	var props vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(p.VKPhysicalDevice, format, &props)
	props.Deref()
	return props
}
