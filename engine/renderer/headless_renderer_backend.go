package renderer

import (
	"errors"
	"image"
	"sync"

	"github.com/Carmen-Shannon/reject-ocean/common"
)

var errFrameInProgress = errors.New("previous frame not yet presented")
var errNoFrame = errors.New("no frame in progress")

// RecordedFrame is one frame captured by the headless backend.
type RecordedFrame struct {
	Clear          common.Color
	ViewProjection common.Mat4
	Backdrop       *image.RGBA
	Width          int
	Height         int
	Draws          []DrawItem
	Shadows        []ShadowPass
}

type headlessRendererBackendImpl struct {
	mu *sync.Mutex

	width, height int
	presentMode   PresentMode

	current *RecordedFrame
	frames  []RecordedFrame
	limit   int
}

var _ rendererBackend = &headlessRendererBackendImpl{}

// newHeadlessRendererBackend keeps at most limit presented frames, the oldest dropped first.
func newHeadlessRendererBackend(limit int) *headlessRendererBackendImpl {
	return &headlessRendererBackendImpl{
		mu:    &sync.Mutex{},
		limit: max(limit, 1),
	}
}

func (b *headlessRendererBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
	return nil
}

func (b *headlessRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *headlessRendererBackendImpl) BeginFrame(info FrameInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil {
		return errFrameInProgress
	}
	b.current = &RecordedFrame{
		Clear:          info.Clear,
		ViewProjection: info.ViewProjection,
		Backdrop:       info.Backdrop,
		Width:          b.width,
		Height:         b.height,
	}
	return nil
}

func (b *headlessRendererBackendImpl) Draw(items []DrawItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return
	}
	b.current.Draws = append(b.current.Draws, items...)
}

func (b *headlessRendererBackendImpl) Shadows(passes []ShadowPass) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return
	}
	b.current.Shadows = append(b.current.Shadows, passes...)
}

func (b *headlessRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return errNoFrame
	}
	return nil
}

func (b *headlessRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return
	}
	b.frames = append(b.frames, *b.current)
	if len(b.frames) > b.limit {
		b.frames = append([]RecordedFrame(nil), b.frames[len(b.frames)-b.limit:]...)
	}
	b.current = nil
}

func (b *headlessRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = nil
	b.frames = nil
}

// Frames returns a copy of the recorded frames, oldest first.
func (b *headlessRendererBackendImpl) Frames() []RecordedFrame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedFrame(nil), b.frames...)
}
