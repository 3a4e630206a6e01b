package renderer

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based backend presenting to a window surface.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeHeadless selects an in-memory backend that records every frame instead of drawing it.
	BackendTypeHeadless
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeHeadless:
		return "headless"
	default:
		return "unknown"
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// rendererBackend is the frame lifecycle every backend implements.
// Calls are serialized by the renderer.
type rendererBackend interface {
	// ConfigureSurface (re)creates the render targets for the given size in pixels.
	ConfigureSurface(width, height int) error

	// SetPresentMode takes effect at the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the next target and clears it to info.Clear.
	BeginFrame(info FrameInfo) error

	// Draw records the frame's mesh and label draws in order.
	Draw(items []DrawItem)

	// Shadows records the shadow accumulation passes rendered this frame.
	Shadows(passes []ShadowPass)

	// EndFrame finishes and submits the frame's commands.
	EndFrame() error

	// Present shows the finished frame.
	Present()

	// Release frees every backend resource. The backend is unusable afterwards.
	Release()
}
