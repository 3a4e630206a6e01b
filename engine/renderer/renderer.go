package renderer

import (
	"fmt"
	"image"
	"sync"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/scene"
	"github.com/Carmen-Shannon/reject-ocean/engine/text"
	"github.com/Carmen-Shannon/reject-ocean/internal/log"
	"github.com/cogentcore/webgpu/wgpu"
)

// Surface is what the wgpu backend needs from a window.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// FrameStats summarizes the frames a Renderer has produced.
type FrameStats struct {
	// Frames is the number of frames presented.
	Frames uint64

	// Draws is the number of mesh draws in the last frame.
	Draws int

	// Triangles is the triangle count of the last frame.
	Triangles int

	// ShadowPasses is the number of shadow accumulation passes rendered since the last Submit.
	ShadowPasses int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     rendererBackend
	logger      *log.Logger

	tree     *scene.SceneTree
	label    *text.Label
	clear    common.Color
	viewProj common.Mat4
	backdrop *image.RGBA
	shadows  []ShadowPass
	stats    FrameStats

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	width, height        int
	recordLimit          int
}

// Renderer draws the most recently submitted SceneTree once per Frame call.
// The backend owns the GPU (or recording) resources; the renderer only serializes access to it.
type Renderer interface {
	// BackendType reports which backend the renderer was created with.
	BackendType() RendererBackendType

	// Submit replaces the tree drawn by subsequent frames.
	// Shadow passes queued for the previous tree are dropped.
	//
	// Parameters:
	//   - tree: the composed scene tree (must not be modified after submission)
	Submit(tree *scene.SceneTree)

	// SubmitShadows queues shadow accumulation passes for the next frame.
	//
	// Parameters:
	//   - passes: the passes, oldest first
	SubmitShadows(passes []ShadowPass)

	// SetLabel sets the layout of the tree's text label; nil hides the label.
	//
	// Parameters:
	//   - label: the laid-out label
	SetLabel(label *text.Label)

	// SetViewProjection sets the camera matrix draws are carried into clip space with.
	//
	// Parameters:
	//   - m: the combined view-projection matrix
	SetViewProjection(m common.Mat4)

	// SetBackdrop sets the environment preview drawn behind the scene; nil shows the clear colour only.
	//
	// Parameters:
	//   - preview: the blurred panorama preview
	SetBackdrop(preview *image.RGBA)

	// SetClearColor sets the backdrop colour the frame is cleared to.
	//
	// Parameters:
	//   - c: the linear RGBA clear colour
	SetClearColor(c common.Color)

	// ClearColor returns the current clear colour.
	ClearColor() common.Color

	// Frame draws and presents one frame of the submitted tree.
	//
	// Returns:
	//   - error: error if the backend cannot acquire or submit the frame
	Frame() error

	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: error if the render targets cannot be recreated
	Resize(width, height int) error

	// SetPresentMode changes how frames are delivered, effective at the next Resize.
	SetPresentMode(mode PresentMode)

	// Stats returns the frame counters.
	Stats() FrameStats

	// Frames returns the frames recorded by a headless renderer, oldest first.
	// Other backends return nil.
	Frames() []RecordedFrame

	// Release frees the backend. The renderer must not be used afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer on the requested backend.
// The wgpu backend needs a Surface; the headless backend ignores it and may be given nil.
//
// Parameters:
//   - backendType: the backend to create
//   - surface: the window surface to present to
//   - options: functional options configuring the renderer
//
// Returns:
//   - Renderer: the renderer, its surface configured
//   - error: error if the backend cannot be created
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		logger:      log.NewNop(),
		clear:       common.Color{0, 0, 0, 1},
		viewProj:    common.Identity(),
		presentMode: PresentModeVSync,
		msaa:        MSAA4x,
		width:       1280,
		height:      720,
		recordLimit: 120,
	}

	// Options first so config flags are available before the backend requests an adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeHeadless:
		r.backend = newHeadlessRendererBackend(r.recordLimit)
	case BackendTypeWGPU:
		if surface == nil {
			return nil, fmt.Errorf("renderer: %s backend requires a surface", backendType)
		}
		b, err := newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
		if err != nil {
			return nil, fmt.Errorf("renderer: %w", err)
		}
		r.backend = b
		r.width, r.height = surface.Width(), surface.Height()
	default:
		return nil, fmt.Errorf("renderer: unknown backend type %d", int(backendType))
	}

	r.backend.SetPresentMode(r.presentMode)
	if err := r.backend.ConfigureSurface(r.width, r.height); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("renderer: configure surface: %w", err)
	}
	r.logger.Debugw("renderer created", "backend", backendType.String(), "width", r.width, "height", r.height)
	return r, nil
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Submit(tree *scene.SceneTree) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tree = tree
	r.shadows = nil
	r.stats.ShadowPasses = 0
}

func (r *renderer) SubmitShadows(passes []ShadowPass) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shadows = append(r.shadows, passes...)
}

func (r *renderer) SetLabel(label *text.Label) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.label = label
}

func (r *renderer) SetViewProjection(m common.Mat4) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewProj = m
}

func (r *renderer) SetBackdrop(preview *image.RGBA) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backdrop = preview
}

func (r *renderer) SetClearColor(c common.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clear = c
}

func (r *renderer) ClearColor() common.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clear
}

func (r *renderer) Frame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := BuildDrawList(r.tree)
	if label, ok := LabelDraw(r.tree, r.label); ok {
		items = append(items, label)
	}
	ApplyCamera(items, r.viewProj)

	info := FrameInfo{Clear: r.clear, ViewProjection: r.viewProj, Backdrop: r.backdrop}
	if err := r.backend.BeginFrame(info); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	r.backend.Draw(items)
	shadows := r.shadows
	r.shadows = nil
	if len(shadows) > 0 {
		r.backend.Shadows(shadows)
	}
	if err := r.backend.EndFrame(); err != nil {
		return fmt.Errorf("end frame: %w", err)
	}
	r.backend.Present()

	triangles := 0
	for _, it := range items {
		triangles += it.Triangles
	}
	r.stats.Frames++
	r.stats.Draws = len(items)
	r.stats.Triangles = triangles
	r.stats.ShadowPasses += len(shadows)
	return nil
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.backend.ConfigureSurface(width, height); err != nil {
		return err
	}
	r.width, r.height = width, height
	return nil
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presentMode = mode
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Frames() []RecordedFrame {
	if h, ok := r.backend.(*headlessRendererBackendImpl); ok {
		return h.Frames()
	}
	return nil
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
	r.tree = nil
	r.label = nil
	r.shadows = nil
}
