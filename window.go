package vkbase

import (
	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"

	"github.com/celer/vkbase/frame"
)

// Window is a platform window that can host a Vulkan surface.
type Window interface {
	frame.Window

	ShouldClose() bool
	PollEvents()
	// RequiredInstanceExtensions lists the instance extensions needed to
	// create a surface for the window.
	RequiredInstanceExtensions() []string
	CreateSurface(instance *Instance) (vk.Surface, error)
	// OnFramebufferResize registers fn to run when the framebuffer size
	// changes.
	OnFramebufferResize(fn func(width, height int))
	Destroy()
}

// GLFWWindow is a Window backed by GLFW.
type GLFWWindow struct {
	*glfw.Window
}

// InitGLFW initializes GLFW and points the Vulkan loader at it. It must run
// on the main thread before any window is created.
func InitGLFW() error {
	if err := glfw.Init(); err != nil {
		return frame.Fatal(errors.Wrap(err, "init glfw"))
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return frame.Fatalf("glfw: vulkan is not supported")
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		glfw.Terminate()
		return frame.Fatal(errors.Wrap(err, "init vulkan loader"))
	}
	return nil
}

// NewGLFWWindow opens a resizable window without a client API.
func NewGLFWWindow(title string, width, height int) (*GLFWWindow, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	w, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, frame.Fatal(errors.Wrap(err, "create window"))
	}
	return &GLFWWindow{Window: w}, nil
}

func (w *GLFWWindow) FramebufferSize() (int, int) {
	return w.GetFramebufferSize()
}

func (w *GLFWWindow) WaitEvents() {
	glfw.WaitEvents()
}

func (w *GLFWWindow) PollEvents() {
	glfw.PollEvents()
}

func (w *GLFWWindow) RequiredInstanceExtensions() []string {
	return w.GetRequiredInstanceExtensions()
}

func (w *GLFWWindow) CreateSurface(instance *Instance) (vk.Surface, error) {
	ptr, err := w.CreateWindowSurface(instance.VKInstance, nil)
	if err != nil {
		return vk.NullSurface, frame.Fatal(errors.Wrap(err, "create window surface"))
	}
	return vk.SurfaceFromPointer(ptr), nil
}

func (w *GLFWWindow) OnFramebufferResize(fn func(width, height int)) {
	w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		fn(width, height)
	})
}

// Destroy closes the window and shuts GLFW down.
func (w *GLFWWindow) Destroy() {
	w.Window.Destroy()
	glfw.Terminate()
}

var _ Window = (*GLFWWindow)(nil)

