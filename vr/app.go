package vr

import "github.com/go-gl/mathgl/mgl32"

// GraphicsState is what the host hands to the render callbacks of one frame.
type GraphicsState struct {
	ProjectionMatrix mgl32.Mat4
	ViewMatrix       mgl32.Mat4
	// Set only for the first frame, when the app should build its scene.
	InitialRenderCall bool
	Frame             uint64
	Width, Height     int
}

// App receives events and render callbacks, always on the render thread.
type App interface {
	OnVREvent(e *Event)
	OnRenderGraphicsContext(state *GraphicsState) error
	OnRenderGraphics(state *GraphicsState)
}

type Runtime interface {
	Shutdown()
	IsRunning() bool
}

// Display is the window the host draws into.
type Display interface {
	// PollEvents returns the input gathered since the last call.
	PollEvents() []*Event
	FramebufferSize() (width, height int)
	SwapBuffers()
	ShouldClose() bool
}
