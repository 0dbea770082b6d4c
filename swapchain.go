package vkbase

import (
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

// Swapchain owns the presentable images of a surface and one color view per
// image. Create may be called again to rebuild it at a new size, the old
// swapchain is handed to the driver and retired afterwards.
type Swapchain struct {
	Device      *Device
	Surface     vk.Surface
	VKSwapchain vk.Swapchain

	// Images are owned by the swapchain and never destroyed individually.
	Images []*Image
	Views  []*ImageView

	Format           vk.Format
	ColorSpace       vk.ColorSpace
	Extent           vk.Extent2D
	PresentMode      vk.PresentMode
	QueueFamilyIndex int
}

// NewSwapchain binds a swapchain to a surface and the family that presents
// to it. No Vulkan objects are created until Create.
func (d *Device) NewSwapchain(surface vk.Surface, presentQueue *Queue) *Swapchain {
	return &Swapchain{
		Device:           d,
		Surface:          surface,
		VKSwapchain:      vk.NullSwapchain,
		QueueFamilyIndex: presentQueue.QueueFamily.Index,
	}
}

// ImageCount is the number of images the driver actually created.
func (s *Swapchain) ImageCount() int {
	return len(s.Images)
}

// Create (re)creates the swapchain for a framebuffer of width x height.
func (s *Swapchain) Create(width, height int) error {
	pd := s.Device.PhysicalDevice

	caps, err := pd.GetSurfaceCapabilities(s.Surface)
	if err != nil {
		return err
	}
	formats, err := pd.GetSurfaceFormats(s.Surface)
	if err != nil {
		return err
	}
	modes, err := pd.GetSurfacePresentModes(s.Surface)
	if err != nil {
		return err
	}

	format, err := chooseSurfaceFormat(formats)
	if err != nil {
		return err
	}
	presentMode, err := choosePresentMode(modes)
	if err != nil {
		return err
	}
	extent := chooseExtent(caps, width, height)

	usage := vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit)
	// Allows copying the presented image out, used by screenshot tooling.
	if caps.SupportedUsageFlags&vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit) != 0 {
		usage |= vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit)
	}

	old := s.VKSwapchain
	info := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          s.Surface,
		MinImageCount:    chooseImageCount(caps),
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       usage,
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     choosePreTransform(caps),
		CompositeAlpha:   chooseCompositeAlpha(caps.SupportedCompositeAlpha),
		PresentMode:      presentMode,
		Clipped:          vk.True,
		OldSwapchain:     old,
	}

	var swapchain vk.Swapchain
	if err := vkResult(vk.CreateSwapchain(s.Device.VKDevice, &info, nil, &swapchain), "create swapchain"); err != nil {
		return err
	}

	s.destroyViews()
	if old != vk.NullSwapchain {
		vk.DestroySwapchain(s.Device.VKDevice, old, nil)
	}

	s.VKSwapchain = swapchain
	s.Format = format.Format
	s.ColorSpace = format.ColorSpace
	s.Extent = extent
	s.PresentMode = presentMode

	if err := s.createViews(); err != nil {
		return err
	}

	msg := "swapchain created"
	if old != vk.NullSwapchain {
		msg = "swapchain recreated"
	}
	Logger().Info(msg,
		"width", extent.Width, "height", extent.Height,
		"images", len(s.Images), "format", format.Format, "presentMode", presentMode)
	return nil
}

func (s *Swapchain) createViews() error {
	var count uint32
	if err := vkResult(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &count, nil), "get swapchain images"); err != nil {
		return err
	}
	handles := make([]vk.Image, count)
	if err := vkResult(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &count, handles), "get swapchain images"); err != nil {
		return err
	}

	s.Images = make([]*Image, 0, count)
	s.Views = make([]*ImageView, 0, count)
	for _, h := range handles[:count] {
		img := &Image{Device: s.Device, VKImage: h, VKFormat: s.Format, Extent: s.Extent}
		view, err := img.CreateImageView()
		if err != nil {
			return err
		}
		s.Images = append(s.Images, img)
		s.Views = append(s.Views, view)
	}
	return nil
}

func (s *Swapchain) destroyViews() {
	for _, v := range s.Views {
		v.Destroy()
	}
	s.Views = nil
	s.Images = nil
}

// AcquireNextImage requests the next image, signaling sem when it may be
// rendered to. Stale swapchains are reported through the status.
func (s *Swapchain) AcquireNextImage(sem vk.Semaphore) (uint32, frame.Status, error) {
	var index uint32
	res := vk.AcquireNextImage(s.Device.VKDevice, s.VKSwapchain, vk.MaxUint64, sem, vk.NullFence, &index)
	status, err := swapchainStatus(res, "acquire next image")
	return index, status, err
}

// QueuePresent presents image on queue once wait is signaled.
func (s *Swapchain) QueuePresent(queue *Queue, image uint32, wait vk.Semaphore) (frame.Status, error) {
	info := vk.PresentInfo{
		SType:          vk.StructureTypePresentInfo,
		SwapchainCount: 1,
		PSwapchains:    []vk.Swapchain{s.VKSwapchain},
		PImageIndices:  []uint32{image},
	}
	if wait != vk.NullSemaphore {
		info.WaitSemaphoreCount = 1
		info.PWaitSemaphores = []vk.Semaphore{wait}
	}
	return swapchainStatus(vk.QueuePresent(queue.VKQueue, &info), "queue present")
}

// Destroy releases the views and then the swapchain. The device must be
// idle.
func (s *Swapchain) Destroy() {
	s.destroyViews()
	if s.VKSwapchain != vk.NullSwapchain {
		vk.DestroySwapchain(s.Device.VKDevice, s.VKSwapchain, nil)
		s.VKSwapchain = vk.NullSwapchain
	}
}
