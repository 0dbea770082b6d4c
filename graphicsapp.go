package vkbase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

// PushBufferCount is the number of command buffers PushCommands rotates
// through.
const PushBufferCount = 3

// Default sizes of the buffer pools created by Init.
const (
	StagingPoolSize = 16 << 20
	DevicePoolSize  = 32 << 20
	HostPoolSize    = 8 << 20
)

// statsInterval is how many frames pass between frame time reports.
const statsInterval = 600

// GraphicsApp is a utility object which implements many of the core requirements to
// get to a functioning Vulkan app. It sets up the instance, device, swapchain and
// render targets, records one draw buffer per swapchain image through a Renderer
// and drives the frame loop, rebuilding what depends on the swapchain when the
// window is resized.
//
// See https://vulkan-tutorial.com/ for a good walkthrough of what this code does.
type GraphicsApp struct {
	Config Config
	App    *App

	Window  Window
	Surface vk.Surface

	Instance       *Instance
	PhysicalDevice *PhysicalDevice
	Device         *Device
	Queue          *Queue

	Swapchain       *Swapchain
	Targets         RenderTargets
	PipelineCache   *PipelineCache
	ResourceManager *ResourceManager

	CommandPool *CommandPool
	// DrawBuffers holds one prerecorded primary buffer per swapchain image.
	DrawBuffers []*CommandBuffer

	// ClearColor clears the color attachment, ClearValues overrides both
	// clear values when the render pass was customized.
	ClearColor  [4]float32
	ClearValues []vk.ClearValue

	// DeviceScore ranks physical devices, DefaultDeviceScore when nil.
	DeviceScore DeviceScorer

	renderer Renderer
	sync     *frameSync
	loop     *frame.Loop
	latch    frame.ResizeLatch
	ctx      context.Context

	pushBuffers []*CommandBuffer
	pushIndex   int

	// swapchain image count the descriptors were created for
	descriptorImages int
	created          struct{ pipelines, buffers, descriptors bool }
}

// NewGraphicsApp creates an app rendering r into window. Nothing touches
// Vulkan until Init.
func NewGraphicsApp(cfg Config, window Window, r Renderer) *GraphicsApp {
	return &GraphicsApp{
		Config:     cfg,
		App:        &App{Name: cfg.AppName, EngineName: "vkbase", Version: Version{Major: 1}},
		Window:     window,
		Surface:    vk.NullSurface,
		renderer:   r,
		ClearColor: [4]float32{0.025, 0.025, 0.025, 1},
		ctx:        context.Background(),
	}
}

// Context is the context Init was called with. Renderers use it for
// blocking work in their hooks, such as loading shaders.
func (p *GraphicsApp) Context() context.Context {
	return p.ctx
}

// Extent is the current swapchain extent.
func (p *GraphicsApp) Extent() vk.Extent2D {
	return p.Swapchain.Extent
}

// RenderPass is the render pass every framebuffer was created for.
func (p *GraphicsApp) RenderPass() *RenderPass {
	return p.Targets.RenderPass
}

// ImageCount is the number of swapchain images, and of draw buffers.
func (p *GraphicsApp) ImageCount() int {
	return p.Swapchain.ImageCount()
}

// Stats returns the frame loop counters.
func (p *GraphicsApp) Stats() frame.Stats {
	if p.loop == nil {
		return frame.Stats{}
	}
	return p.loop.Stats()
}

// RequestResize rebuilds the swapchain after the next presented frame.
func (p *GraphicsApp) RequestResize() {
	p.latch.Set()
}

// Init creates every Vulkan object needed to draw and records the draw
// buffers. On error the app is partially initialized and Destroy must still
// be called.
func (p *GraphicsApp) Init(ctx context.Context) error {
	if ctx != nil {
		p.ctx = ctx
	}
	if err := p.Config.Validate(); err != nil {
		return err
	}
	steps := []struct {
		name string
		fn   func() error
	}{
		{"instance", p.createInstance},
		{"surface", p.createSurface},
		{"device", p.createDevice},
		{"sync objects", p.createSync},
		{"swapchain", p.createSwapchain},
		{"command buffers", p.createCommandBuffers},
		{"resource pools", p.createResourcePools},
		{"render targets", p.createRenderTargets},
		{"pipeline cache", p.createPipelineCache},
		{"renderer", p.createRendererResources},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return errors.Wrapf(err, "init %s", s.name)
		}
	}

	d := &driver{app: p}
	if err := d.RecordDrawBuffers(); err != nil {
		return errors.Wrap(err, "init")
	}

	p.Window.OnFramebufferResize(func(width, height int) {
		Logger().Debug("framebuffer resized", "width", width, "height", height)
		p.latch.Set()
	})
	p.loop = frame.NewLoop(d, p.Window, &p.latch)
	return nil
}

func (p *GraphicsApp) createInstance() error {
	for _, ext := range p.Window.RequiredInstanceExtensions() {
		p.App.EnableExtension(ext)
	}
	if p.Config.ValidationEnabled() {
		p.App.EnableDebugging()
	}
	instance, err := p.App.CreateInstance()
	if err != nil {
		return err
	}
	p.Instance = instance
	if p.App.HasExtension(debugReportExtension) {
		if err := instance.UseDefaultDebugCallback(); err != nil {
			Logger().Warn("unable to install debug callback", "err", err)
		}
	}
	return nil
}

func (p *GraphicsApp) createSurface() error {
	surface, err := p.Window.CreateSurface(p.Instance)
	if err != nil {
		return err
	}
	p.Surface = surface
	return nil
}

func (p *GraphicsApp) createDevice() error {
	required := []string{swapchainExtension}
	fr, hasFeatures := p.renderer.(FeatureRequester)
	if hasFeatures {
		required = append(required, fr.EnabledDeviceExtensions()...)
	}

	best, err := SelectPhysicalDevice(p.Instance, p.Surface, required, p.DeviceScore)
	if err != nil {
		return err
	}
	pd := best.Device
	qf := pd.QueueFamilies()[best.QueueFamily]

	options := &CreateDeviceOptions{EnabledExtensions: required}
	if hasFeatures {
		features := fr.EnabledFeatures(pd.VKPhysicalDeviceFeatures())
		options.EnabledFeatures = &features
	}
	device, err := pd.CreateLogicalDevice(QueueFamilySlice{qf}, options)
	if err != nil {
		return err
	}
	p.PhysicalDevice = pd
	p.Device = device
	p.Queue = device.GetQueue(qf)
	return nil
}

func (p *GraphicsApp) createSync() error {
	s, err := newFrameSync(p.Device)
	if err != nil {
		return err
	}
	p.sync = s
	return nil
}

func (p *GraphicsApp) createSwapchain() error {
	width, height := p.Window.FramebufferSize()
	if width == 0 || height == 0 {
		width, height = p.Config.Width, p.Config.Height
	}
	p.Swapchain = p.Device.NewSwapchain(p.Surface, p.Queue)
	return p.Swapchain.Create(width, height)
}

func (p *GraphicsApp) createCommandBuffers() error {
	pool, err := p.Device.CreateCommandPool(p.Queue.QueueFamily)
	if err != nil {
		return err
	}
	p.CommandPool = pool

	if p.pushBuffers, err = pool.AllocateBuffers(PushBufferCount); err != nil {
		return err
	}
	if p.DrawBuffers, err = pool.AllocateBuffers(p.ImageCount()); err != nil {
		return err
	}
	return p.sync.ensureFences(len(p.DrawBuffers))
}

func (p *GraphicsApp) createResourcePools() error {
	p.ResourceManager = p.Device.CreateResourceManager()
	if _, err := p.ResourceManager.AllocateStagingPool(StagingPoolSize); err != nil {
		return err
	}
	if _, err := p.ResourceManager.AllocateDeviceBufferPool(DevicePoolName, DevicePoolSize); err != nil {
		return err
	}
	if _, err := p.ResourceManager.AllocateHostBufferPool(HostPoolName, HostPoolSize); err != nil {
		return err
	}
	p.ResourceManager.LogDetails()
	return nil
}

func (p *GraphicsApp) createRenderTargets() error {
	depthFormat, err := p.Device.FindSupportedDepthFormat()
	if err != nil {
		return err
	}
	p.Targets.DepthFormat = depthFormat

	info := DefaultRenderPassCreateInfo(p.Swapchain.Format, depthFormat)
	if c, ok := p.renderer.(RenderPassConfigurer); ok {
		c.ConfigureRenderPass(p, &info)
	}
	rp, err := p.Device.CreateRenderPass(&info)
	if err != nil {
		return err
	}
	p.Targets.RenderPass = rp
	return p.rebuildTargets()
}

func (p *GraphicsApp) rebuildTargets() error {
	var attach AttachmentFunc
	if a, ok := p.renderer.(FramebufferAttacher); ok {
		attach = func(i int, color, depth *ImageView) []*ImageView {
			return a.FramebufferAttachments(p, i, color, depth)
		}
	}
	return p.Targets.Rebuild(p.ResourceManager, p.Swapchain, attach)
}

func (p *GraphicsApp) createPipelineCache() error {
	cache, err := p.Device.CreatePipelineCache()
	if err != nil {
		return err
	}
	p.PipelineCache = cache
	return nil
}

func (p *GraphicsApp) createRendererResources() error {
	p.created.pipelines = true
	if err := p.renderer.CreatePipelines(p); err != nil {
		return errors.Wrap(err, "create pipelines")
	}

	if b, ok := p.renderer.(BufferCreator); ok {
		p.created.buffers = true
		if err := b.CreateBuffers(p); err != nil {
			return errors.Wrap(err, "create buffers")
		}
	}
	return p.createDescriptors()
}

func (p *GraphicsApp) createDescriptors() error {
	dc, ok := p.renderer.(DescriptorCreator)
	if !ok {
		return nil
	}
	p.created.descriptors = true
	if err := dc.CreateDescriptors(p); err != nil {
		return errors.Wrap(err, "create descriptors")
	}
	p.descriptorImages = p.ImageCount()
	return nil
}

func (p *GraphicsApp) destroyDescriptors() {
	if dc, ok := p.renderer.(DescriptorCreator); ok && p.created.descriptors {
		dc.DestroyDescriptors(p)
		p.created.descriptors = false
	}
}

// nextPushIndex rotates through the push buffers.
func nextPushIndex(i, n int) int {
	return (i + 1) % n
}

// PushCommands records a one-time command buffer with fn, submits it and
// waits for the queue to finish it. It is meant for transfers outside the
// frame loop, such as uploading staged vertex data.
func (p *GraphicsApp) PushCommands(fn func(cmd *CommandBuffer) error) error {
	cmd := p.pushBuffers[p.pushIndex]
	p.pushIndex = nextPushIndex(p.pushIndex, len(p.pushBuffers))

	if err := cmd.Reset(); err != nil {
		return err
	}
	if err := cmd.BeginOneTime(); err != nil {
		return err
	}
	if err := fn(cmd); err != nil {
		return errors.Wrap(err, "push commands")
	}
	if err := cmd.End(); err != nil {
		return err
	}
	return p.Queue.SubmitWaitIdle(cmd)
}

// Frame runs a single iteration of the frame loop.
func (p *GraphicsApp) Frame() error {
	return p.loop.Frame()
}

// Run pumps window events and draws frames until the window is closed or ctx
// is done. A returned error is fatal.
func (p *GraphicsApp) Run(ctx context.Context) error {
	updater, _ := p.renderer.(Updater)
	log := Logger()

	last := hrtime.Now()
	var elapsed time.Duration
	var frames int
	for !p.Window.ShouldClose() {
		if ctx.Err() != nil {
			log.Info("run cancelled", "err", ctx.Err())
			return nil
		}
		p.Window.PollEvents()

		now := hrtime.Now()
		dt := now - last
		last = now

		if updater != nil {
			if err := updater.OnUpdate(p, float32(dt.Seconds())); err != nil {
				return frame.Fatal(errors.Wrap(err, "update"))
			}
		}
		if err := p.loop.Frame(); err != nil {
			return err
		}

		elapsed += dt
		if frames++; frames == statsInterval {
			stats := p.loop.Stats()
			log.Debug("frame time",
				"avg", elapsed/time.Duration(frames),
				"frames", stats.Frames, "skipped", stats.Skipped, "resizes", stats.Resizes)
			elapsed, frames = 0, 0
		}
	}
	return nil
}

// Destroy waits for the device and releases everything Init created, in
// reverse order. It tolerates a partially initialized app. The window is
// left to its owner.
func (p *GraphicsApp) Destroy() {
	if p.Device != nil {
		if err := p.Device.WaitIdle(); err != nil {
			Logger().Error("wait idle before destroy", "err", err)
		}

		p.destroyDescriptors()
		if b, ok := p.renderer.(BufferCreator); ok && p.created.buffers {
			b.DestroyBuffers(p)
			p.created.buffers = false
		}
		if p.created.pipelines {
			p.renderer.DestroyPipelines(p)
			p.created.pipelines = false
		}

		if p.PipelineCache != nil {
			p.PipelineCache.Destroy()
			p.PipelineCache = nil
		}
		p.Targets.Destroy()
		if p.ResourceManager != nil {
			p.ResourceManager.Destroy()
			p.ResourceManager = nil
		}
		if p.CommandPool != nil {
			p.CommandPool.FreeBuffers(p.DrawBuffers)
			p.CommandPool.FreeBuffers(p.pushBuffers)
			p.CommandPool.Destroy()
			p.CommandPool = nil
		}
		p.DrawBuffers, p.pushBuffers = nil, nil
		if p.sync != nil {
			p.sync.destroy()
			p.sync = nil
		}
		if p.Swapchain != nil {
			p.Swapchain.Destroy()
			p.Swapchain = nil
		}
		p.Device.Destroy()
		p.Device = nil
	}

	if p.Instance != nil {
		if p.Surface != vk.NullSurface {
			vk.DestroySurface(p.Instance.VKInstance, p.Surface, nil)
			p.Surface = vk.NullSurface
		}
		p.Instance.Destroy()
		p.Instance = nil
	}
}
