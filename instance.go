package vkbase

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

const (
	validationLayer      = "VK_LAYER_KHRONOS_validation"
	debugUtilsExtension  = "VK_EXT_debug_utils"
	debugReportExtension = "VK_EXT_debug_report"
	swapchainExtension   = "VK_KHR_swapchain"
)

// InitializeHeadless loads the Vulkan loader without a window system, for
// tools that only query devices.
func InitializeHeadless() error {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return frame.Fatal(errors.Wrap(err, "load vulkan"))
	}
	if err := vk.Init(); err != nil {
		return frame.Fatal(errors.Wrap(err, "init vulkan"))
	}
	return nil
}

// Version is used to specify versions of components
type Version struct {
	Major int
	Minor int
	Patch int
}

// VKVersion returns a Vulkan compatible version representation
func (v *Version) VKVersion() uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

// App is used to provide information about this specific application to Vulkan
type App struct {
	// Name the name of the application
	Name string
	// EngineName the name of the engine associated with the application
	EngineName string
	// Version the version of the application
	Version Version
	// APIVersion the expected minimum version of the Vulkan API (i.e. 1.0.0)
	APIVersion Version

	EnabledLayers     []string
	EnabledExtensions []string
}

// SupportedLayers returns the instance layers known to the loader. Vulkan
// must have been initialized with vk.Init first.
func SupportedLayers() ([]string, error) {
	var count uint32
	if err := vkResult(vk.EnumerateInstanceLayerProperties(&count, nil), "enumerate instance layers"); err != nil {
		return nil, err
	}
	props := make([]vk.LayerProperties, count)
	if err := vkResult(vk.EnumerateInstanceLayerProperties(&count, props), "enumerate instance layers"); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, layer := range props {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

// SupportedExtensions returns the instance extensions known to the loader.
func SupportedExtensions() ([]string, error) {
	var count uint32
	if err := vkResult(vk.EnumerateInstanceExtensionProperties("", &count, nil), "enumerate instance extensions"); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vkResult(vk.EnumerateInstanceExtensionProperties("", &count, props), "enumerate instance extensions"); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, ext := range props {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// EnableDebugging turns on the validation layer and the debug extensions
// when the loader offers them. Missing pieces are logged, not fatal.
func (a *App) EnableDebugging() {
	layers, err := SupportedLayers()
	if err != nil {
		Logger().Warn("unable to list instance layers", "err", err)
	}
	if contains(layers, validationLayer) {
		a.EnableLayer(validationLayer)
	} else {
		Logger().Warn("validation layer not available", "layer", validationLayer)
	}

	extensions, err := SupportedExtensions()
	if err != nil {
		Logger().Warn("unable to list instance extensions", "err", err)
	}
	for _, ext := range []string{debugUtilsExtension, debugReportExtension} {
		if contains(extensions, ext) {
			a.EnableExtension(ext)
		}
	}
}

// EnableLayer adds a layer to the instance create info.
func (a *App) EnableLayer(layer string) *App {
	if !contains(a.EnabledLayers, layer) {
		a.EnabledLayers = append(a.EnabledLayers, layer)
	}
	return a
}

// EnableExtension adds an instance extension to the instance create info.
func (a *App) EnableExtension(extension string) *App {
	if !contains(a.EnabledExtensions, extension) {
		a.EnabledExtensions = append(a.EnabledExtensions, extension)
	}
	return a
}

// HasExtension reports whether extension was enabled.
func (a *App) HasExtension(extension string) bool {
	return contains(a.EnabledExtensions, extension)
}

//VKApplicationInfo creates a structure representing this application in a Vulkan friendly format
func (a *App) VKApplicationInfo() vk.ApplicationInfo {
	if a.APIVersion.Major < 1 {
		a.APIVersion.Major = 1
	}

	return vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         a.APIVersion.VKVersion(),
		ApplicationVersion: a.Version.VKVersion(),
		PApplicationName:   safeString(a.Name),
		PEngineName:        safeString(a.EngineName),
	}
}

// CreateInstance creates the Vulkan instance
func (a *App) CreateInstance() (*Instance, error) {
	appInfo := a.VKApplicationInfo()

	extensions := safeStrings(a.EnabledExtensions)
	layers := safeStrings(a.EnabledLayers)

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	instance := &Instance{}
	if err := vkResult(vk.CreateInstance(&createInfo, nil, &instance.VKInstance), "create instance"); err != nil {
		return nil, err
	}
	if err := vk.InitInstance(instance.VKInstance); err != nil {
		return nil, err
	}

	Logger().Info("instance created", "app", a.Name, "layers", a.EnabledLayers, "extensions", a.EnabledExtensions)
	return instance, nil
}

//Instance is an instance of the Vulkan subsystem
type Instance struct {
	VKInstance vk.Instance

	debugCallback vk.DebugReportCallback
}

//PhysicalDevices returns a list of physical devices known to Vulkan
func (i *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	var count uint32
	if err := vkResult(vk.EnumeratePhysicalDevices(i.VKInstance, &count, nil), "enumerate physical devices"); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	devices := make([]vk.PhysicalDevice, count)
	if err := vkResult(vk.EnumeratePhysicalDevices(i.VKInstance, &count, devices), "enumerate physical devices"); err != nil {
		return nil, err
	}

	ret := make([]*PhysicalDevice, count)
	for n, device := range devices {
		pd := &PhysicalDevice{VKPhysicalDevice: device}
		vk.GetPhysicalDeviceProperties(device, &pd.VKPhysicalDeviceProperties)
		pd.VKPhysicalDeviceProperties.Deref()
		pd.DeviceName = vk.ToString(pd.VKPhysicalDeviceProperties.DeviceName[:])
		ret[n] = pd
	}
	return ret, nil
}

// UseDefaultDebugCallback routes validation messages to the package logger.
func (i *Instance) UseDefaultDebugCallback() error {
	return i.SetDebugCallback(DefaultDebugCallback)
}

// SetDebugCallback installs a debug report callback for warnings and errors.
func (i *Instance) SetDebugCallback(callback vk.DebugReportCallbackFunc) error {
	info := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
		PfnCallback: callback,
	}
	return vkResult(vk.CreateDebugReportCallback(i.VKInstance, &info, nil, &i.debugCallback), "create debug report callback")
}

// DefaultDebugCallback logs validation layer reports, adapted from
// github.com/vulkan-go/asche
func DefaultDebugCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	log := Logger().With("layer", pLayerPrefix, "code", messageCode)
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		log.Error(pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		log.Warn(pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		log.Warn(pMessage, "performance", true)
	default:
		log.Debug(pMessage)
	}
	return vk.Bool32(vk.False)
}

// Destroy removes the debug callback, if any, and the instance.
func (i *Instance) Destroy() {
	if i.debugCallback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(i.VKInstance, i.debugCallback, nil)
		i.debugCallback = vk.NullDebugReportCallback
	}
	vk.DestroyInstance(i.VKInstance, nil)
}
