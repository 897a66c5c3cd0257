package vr

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mogaika/bsg_viewer/config"
	"github.com/mogaika/bsg_viewer/r3d"
	"github.com/pkg/errors"
)

const injectQueueSize = 256

type task struct {
	fn   func()
	done chan struct{}
}

// Host runs the frame loop. Events and render callbacks reach the app on the
// goroutine that called Run; other goroutines talk to it through Inject and Exec.
type Host struct {
	display Display
	camera  *r3d.OrbitController

	fov      float32 // degrees
	nearClip float32
	farClip  float32

	injected chan *Event
	tasks    chan task

	stopped  chan struct{}
	stopOnce sync.Once

	start time.Time
	frame uint64
}

var _ Runtime = (*Host)(nil)

func NewHost(display Display, cam config.Camera) *Host {
	return &Host{
		display:  display,
		camera:   r3d.NewOrbitController(cam.Target, cam.Distance, cam.Pitch, cam.Yaw),
		fov:      cam.Fov,
		nearClip: cam.Near,
		farClip:  cam.Far,
		injected: make(chan *Event, injectQueueSize),
		tasks:    make(chan task),
		stopped:  make(chan struct{}),
		start:    time.Now(),
	}
}

func (h *Host) Camera() *r3d.OrbitController { return h.camera }

func (h *Host) Shutdown() {
	h.stopOnce.Do(func() {
		log.Printf("[vr] Shutting down")
		close(h.stopped)
	})
}

func (h *Host) IsRunning() bool {
	select {
	case <-h.stopped:
		return false
	default:
		return true
	}
}

// Inject queues e for the next frame. Safe to call from any goroutine.
func (h *Host) Inject(e *Event) error {
	if !h.IsRunning() {
		return errors.Errorf("Host is not running")
	}
	select {
	case h.injected <- e:
		return nil
	default:
		return errors.Errorf("Event queue is full, dropping %s", e.Name)
	}
}

// Exec runs fn on the render thread between frames and waits for it.
func (h *Host) Exec(ctx context.Context, fn func()) error {
	t := task{fn: fn, done: make(chan struct{})}
	select {
	case h.tasks <- t:
	case <-ctx.Done():
		return ctx.Err()
	case <-h.stopped:
		return errors.Errorf("Host is not running")
	}
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run loops frames until the app shuts the host down, the window closes,
// ctx is cancelled or a render context callback fails.
func (h *Host) Run(ctx context.Context, app App) error {
	defer h.Shutdown()
	for h.IsRunning() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if h.display.ShouldClose() {
			return nil
		}
		if err := h.Frame(app); err != nil {
			return err
		}
	}
	return nil
}

// Frame runs one iteration of the loop.
func (h *Host) Frame(app App) error {
	for _, e := range h.display.PollEvents() {
		h.dispatch(app, e)
	}
	h.drainInjected(app)
	h.dispatch(app, NewEvent(EventFrameStart).With(KeyElapsedSeconds, time.Since(h.start).Seconds()))

	state := h.GraphicsState()
	if err := app.OnRenderGraphicsContext(state); err != nil {
		return errors.Wrapf(err, "Frame %d", h.frame)
	}
	app.OnRenderGraphics(state)
	h.display.SwapBuffers()

	h.runTasks()
	h.frame++
	return nil
}

func (h *Host) dispatch(app App, e *Event) {
	if e.Name == EventCameraOrbit {
		yaw, _ := e.Float(KeyYaw)
		pitch, _ := e.Float(KeyPitch)
		h.camera.Rotate(yaw, pitch)
	}
	app.OnVREvent(e)
}

func (h *Host) drainInjected(app App) {
	for {
		select {
		case e := <-h.injected:
			h.dispatch(app, e)
		default:
			return
		}
	}
}

func (h *Host) runTasks() {
	for {
		select {
		case t := <-h.tasks:
			t.fn()
			close(t.done)
		default:
			return
		}
	}
}

// GraphicsState builds the matrices for the current frame from the host camera.
func (h *Host) GraphicsState() *GraphicsState {
	w, hgt := h.display.FramebufferSize()
	aspect := float32(1)
	if w > 0 && hgt > 0 {
		aspect = float32(w) / float32(hgt)
	}
	return &GraphicsState{
		ProjectionMatrix:  mgl32.Perspective(mgl32.DegToRad(h.fov), aspect, h.nearClip, h.farClip),
		ViewMatrix:        h.camera.GetViewMatrix(),
		InitialRenderCall: h.frame == 0,
		Frame:             h.frame,
		Width:             w,
		Height:            hgt,
	}
}
