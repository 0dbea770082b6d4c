package frame

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
)

// fakeWindow replays a list of framebuffer sizes, repeating the last one.
type fakeWindow struct {
	sizes [][2]int
	polls int
	waits int
}

func (w *fakeWindow) FramebufferSize() (int, int) {
	i := w.polls
	if i >= len(w.sizes) {
		i = len(w.sizes) - 1
	}
	w.polls++
	return w.sizes[i][0], w.sizes[i][1]
}

func (w *fakeWindow) WaitEvents() { w.waits++ }

// fakeDriver models a swapchain with image, framebuffer and draw buffer
// counts and records every call.
type fakeDriver struct {
	calls []string

	acquire []Status
	present []Status
	failOn  string

	width, height int
	minImages     int
	images        int
	framebuffers  int
	drawBuffers   int
	recorded      int
	fences        int
	fenceRebuilds int
	next          uint32
}

func newFakeDriver(width, height int) *fakeDriver {
	d := &fakeDriver{width: width, height: height, minImages: 2}
	d.images = d.minImages + 1
	d.framebuffers = d.images
	d.drawBuffers = d.images
	d.recorded = d.images
	d.fences = d.images
	return d
}

func (d *fakeDriver) call(name string) error {
	d.calls = append(d.calls, name)
	if d.failOn == name {
		return errors.New("device lost")
	}
	return nil
}

func (d *fakeDriver) pop(list *[]Status) Status {
	if len(*list) == 0 {
		return StatusOK
	}
	s := (*list)[0]
	*list = (*list)[1:]
	return s
}

func (d *fakeDriver) AcquireNextImage() (uint32, Status, error) {
	if err := d.call("acquire"); err != nil {
		return 0, StatusOK, err
	}
	image := d.next
	d.next = (d.next + 1) % uint32(d.images)
	return image, d.pop(&d.acquire), nil
}

func (d *fakeDriver) PrepareImage(image uint32) error { return d.call("prepare") }
func (d *fakeDriver) Submit(image uint32) error       { return d.call("submit") }

func (d *fakeDriver) Present(image uint32) (Status, error) {
	if err := d.call("present"); err != nil {
		return StatusOK, err
	}
	return d.pop(&d.present), nil
}

func (d *fakeDriver) WaitQueueIdle() error  { return d.call("waitQueue") }
func (d *fakeDriver) WaitDeviceIdle() error { return d.call("waitDevice") }

func (d *fakeDriver) RecreateSwapchain(width, height int) error {
	if err := d.call(fmt.Sprintf("swapchain %dx%d", width, height)); err != nil {
		return err
	}
	d.width, d.height = width, height
	d.images = d.minImages + 1
	d.next = 0
	return nil
}

func (d *fakeDriver) RecreateRenderTargets() error {
	d.framebuffers = d.images
	return d.call("targets")
}

func (d *fakeDriver) ReallocateDrawBuffers() error {
	if d.fences != d.images {
		d.fences = d.images
		d.fenceRebuilds++
	}
	d.drawBuffers = d.images
	d.recorded = 0
	return d.call("drawBuffers")
}

func (d *fakeDriver) RecordDrawBuffers() error {
	d.recorded = d.drawBuffers
	return d.call("record")
}

func (d *fakeDriver) ViewChanged() error { return d.call("viewChanged") }

func (d *fakeDriver) checkCounts(t *testing.T) {
	t.Helper()
	if d.framebuffers != d.images {
		t.Errorf("framebuffers = %d, images = %d", d.framebuffers, d.images)
	}
	if d.drawBuffers != d.images {
		t.Errorf("draw buffers = %d, images = %d", d.drawBuffers, d.images)
	}
	if d.recorded != d.drawBuffers {
		t.Errorf("recorded %d of %d draw buffers", d.recorded, d.drawBuffers)
	}
}

var steadyFrame = []string{"acquire", "prepare", "submit", "present", "waitQueue"}

func resizeSequence(width, height int) []string {
	return []string{
		"waitDevice",
		fmt.Sprintf("swapchain %dx%d", width, height),
		"targets",
		"drawBuffers",
		"record",
		"waitDevice",
		"viewChanged",
	}
}

func TestSteadyStateFrame(t *testing.T) {
	d := newFakeDriver(800, 600)
	l := NewLoop(d, &fakeWindow{sizes: [][2]int{{800, 600}}}, nil)

	for i := 0; i < 3; i++ {
		if err := l.Frame(); err != nil {
			t.Fatalf("Frame() = %v", err)
		}
		if l.State() != Idle {
			t.Errorf("state after frame = %v, want idle", l.State())
		}
	}

	var want []string
	for i := 0; i < 3; i++ {
		want = append(want, steadyFrame...)
	}
	if !reflect.DeepEqual(d.calls, want) {
		t.Errorf("calls = %v\nwant %v", d.calls, want)
	}
	if s := l.Stats(); s.Frames != 3 || s.Resizes != 0 || s.Skipped != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestSuboptimalPresentResizes(t *testing.T) {
	d := newFakeDriver(800, 600)
	d.present = []Status{StatusSuboptimal}
	w := &fakeWindow{sizes: [][2]int{{1024, 768}}}
	l := NewLoop(d, w, nil)

	if err := l.Frame(); err != nil {
		t.Fatalf("Frame() = %v", err)
	}

	want := append([]string{"acquire", "prepare", "submit", "present"}, resizeSequence(1024, 768)...)
	if !reflect.DeepEqual(d.calls, want) {
		t.Errorf("calls = %v\nwant %v", d.calls, want)
	}
	if d.width != 1024 || d.height != 768 {
		t.Errorf("extent = %dx%d, want 1024x768", d.width, d.height)
	}
	d.checkCounts(t)

	d.calls = nil
	if err := l.Frame(); err != nil {
		t.Fatalf("Frame() after resize = %v", err)
	}
	if !reflect.DeepEqual(d.calls, steadyFrame) {
		t.Errorf("calls after resize = %v, want %v", d.calls, steadyFrame)
	}
	if l.State() != Idle {
		t.Errorf("state = %v, want idle", l.State())
	}
}

func TestStaleAcquireSkipsSubmit(t *testing.T) {
	for _, status := range []Status{StatusOutOfDate, StatusSuboptimal} {
		t.Run(status.String(), func(t *testing.T) {
			d := newFakeDriver(800, 600)
			d.acquire = []Status{status}
			l := NewLoop(d, &fakeWindow{sizes: [][2]int{{800, 600}}}, nil)

			if err := l.Frame(); err != nil {
				t.Fatalf("Frame() = %v", err)
			}
			for _, c := range d.calls {
				if c == "submit" || c == "present" || c == "prepare" {
					t.Errorf("unexpected %q after stale acquire, calls = %v", c, d.calls)
				}
			}
			want := append([]string{"acquire"}, resizeSequence(800, 600)...)
			if !reflect.DeepEqual(d.calls, want) {
				t.Errorf("calls = %v\nwant %v", d.calls, want)
			}
			if s := l.Stats(); s.Skipped != 1 || s.Frames != 0 || s.Resizes != 1 {
				t.Errorf("stats = %+v", s)
			}
		})
	}
}

func TestResizeLatchTriggersResize(t *testing.T) {
	d := newFakeDriver(800, 600)
	latch := &ResizeLatch{}
	l := NewLoop(d, &fakeWindow{sizes: [][2]int{{640, 480}}}, latch)

	latch.Set()
	if err := l.Frame(); err != nil {
		t.Fatalf("Frame() = %v", err)
	}
	if latch.IsSet() {
		t.Error("latch should be cleared by the resize")
	}
	want := append([]string{"acquire", "prepare", "submit", "present"}, resizeSequence(640, 480)...)
	if !reflect.DeepEqual(d.calls, want) {
		t.Errorf("calls = %v\nwant %v", d.calls, want)
	}

	d.calls = nil
	if err := l.Frame(); err != nil {
		t.Fatalf("Frame() = %v", err)
	}
	if !reflect.DeepEqual(d.calls, steadyFrame) {
		t.Errorf("second frame calls = %v, want %v", d.calls, steadyFrame)
	}
}

func TestRequestResize(t *testing.T) {
	d := newFakeDriver(800, 600)
	l := NewLoop(d, &fakeWindow{sizes: [][2]int{{800, 600}}}, nil)

	l.RequestResize()
	if err := l.Frame(); err != nil {
		t.Fatalf("Frame() = %v", err)
	}
	if got := l.Stats().Resizes; got != 1 {
		t.Errorf("resizes = %d, want 1", got)
	}
}

func TestResizeWaitsForNonZeroSize(t *testing.T) {
	d := newFakeDriver(800, 600)
	w := &fakeWindow{sizes: [][2]int{{0, 0}, {0, 0}, {1024, 0}, {1024, 768}}}
	l := NewLoop(d, w, nil)

	if err := l.Resize(); err != nil {
		t.Fatalf("Resize() = %v", err)
	}
	if w.waits != 3 {
		t.Errorf("WaitEvents called %d times, want 3", w.waits)
	}
	if w.polls != 4 {
		t.Errorf("FramebufferSize polled %d times, want 4", w.polls)
	}
	if d.calls[0] != "waitDevice" || d.calls[1] != "swapchain 1024x768" {
		t.Errorf("calls = %v", d.calls)
	}
	for _, c := range d.calls {
		if c == "swapchain 0x0" || c == "swapchain 1024x0" {
			t.Errorf("swapchain recreated at zero size: %v", d.calls)
		}
	}
}

func TestResizeIdempotent(t *testing.T) {
	d := newFakeDriver(800, 600)
	l := NewLoop(d, &fakeWindow{sizes: [][2]int{{1280, 720}}}, nil)

	if err := l.Resize(); err != nil {
		t.Fatalf("first Resize() = %v", err)
	}
	w1, h1, n1 := d.width, d.height, d.images
	if err := l.Resize(); err != nil {
		t.Fatalf("second Resize() = %v", err)
	}
	if d.width != w1 || d.height != h1 {
		t.Errorf("extent changed from %dx%d to %dx%d", w1, h1, d.width, d.height)
	}
	if diff := d.images - n1; diff < -1 || diff > 1 {
		t.Errorf("image count changed from %d to %d", n1, d.images)
	}
	if d.fenceRebuilds != 0 {
		t.Errorf("fences rebuilt %d times with an unchanged image count", d.fenceRebuilds)
	}
	d.checkCounts(t)
}

func TestFenceRebuildOnImageCountChange(t *testing.T) {
	d := newFakeDriver(800, 600)
	l := NewLoop(d, &fakeWindow{sizes: [][2]int{{800, 600}}}, nil)

	d.minImages = 3
	if err := l.Resize(); err != nil {
		t.Fatalf("Resize() = %v", err)
	}
	if d.fenceRebuilds != 1 {
		t.Errorf("fence rebuilds = %d, want 1", d.fenceRebuilds)
	}
	if d.fences != d.images {
		t.Errorf("fences = %d, images = %d", d.fences, d.images)
	}
	d.checkCounts(t)
}

func TestDriverErrorsAreFatal(t *testing.T) {
	tests := []struct {
		failOn string
		resize bool
	}{
		{failOn: "acquire"},
		{failOn: "prepare"},
		{failOn: "submit"},
		{failOn: "present"},
		{failOn: "waitQueue"},
		{failOn: "targets", resize: true},
		{failOn: "record", resize: true},
		{failOn: "viewChanged", resize: true},
	}
	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			d := newFakeDriver(800, 600)
			d.failOn = tt.failOn
			if tt.resize {
				d.present = []Status{StatusOutOfDate}
			}
			l := NewLoop(d, &fakeWindow{sizes: [][2]int{{800, 600}}}, nil)

			err := l.Frame()
			if err == nil {
				t.Fatal("Frame() = nil, want error")
			}
			if !IsFatal(err) {
				t.Errorf("error %v is not fatal", err)
			}
			if l.State() != Idle {
				t.Errorf("state after failure = %v, want idle", l.State())
			}
		})
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Idle, "idle"},
		{Acquiring, "acquiring"},
		{Recording, "recording"},
		{Submitting, "submitting"},
		{Presenting, "presenting"},
		{Resizing, "resizing"},
		{State(42), "State(42)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

func TestStatusStale(t *testing.T) {
	if StatusOK.Stale() {
		t.Error("StatusOK should not be stale")
	}
	if !StatusSuboptimal.Stale() || !StatusOutOfDate.Stale() {
		t.Error("suboptimal and out of date should be stale")
	}
}
