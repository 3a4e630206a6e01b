package engine

import (
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/params"
	"github.com/Carmen-Shannon/reject-ocean/engine/profiler"
	"github.com/Carmen-Shannon/reject-ocean/engine/renderer"
	"github.com/Carmen-Shannon/reject-ocean/engine/scene"
	"github.com/Carmen-Shannon/reject-ocean/engine/window"
	"github.com/Carmen-Shannon/reject-ocean/internal/log"
)

var errNoScene = errors.New("engine requires a scene")
var errNoRenderer = errors.New("engine requires a renderer")

// engine implements the Engine interface.
// Coordinates the tick, render and window threads.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	scene    scene.Scene
	params   params.Store
	logger   *log.Logger

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool
	pendingProfiling bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	// settled records that the current shadow accumulation has been reported finished.
	settled bool
}

// Engine drives one Scene: a fixed-rate tick loop keeps the scene in step with the
// live parameters and advances its camera and shadows, while a render loop presents
// the latest tree as fast as the frame limit allows.
type Engine interface {
	// Window returns the underlying window, or nil when running without one.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer frames are presented with.
	Renderer() renderer.Renderer

	// Scene returns the hosted scene.
	Scene() scene.Scene

	// Params returns the parameter store the tick loop reads snapshots from.
	Params() params.Store

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers a function called after each engine tick.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers a function called after each presented frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Tick runs one tick synchronously: read the parameter snapshot, recompose the
	// scene if it changed, then advance the camera and the shadow accumulation.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//
	// Returns:
	//   - error: the composition error; the previous tree stays on screen
	Tick(dt float32) error

	// RenderFrame presents one frame of the current tree cleared to the backdrop colour.
	//
	// Returns:
	//   - error: the renderer's frame error
	RenderFrame() error

	// Run starts the engine loops and blocks until the window closes or Quit is called.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Done is closed once Quit has been signalled.
	Done() <-chan struct{}
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// A scene and a renderer are required; without a parameter store the engine
// creates one holding the scene's initial snapshot.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: error if the scene or renderer is missing
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		logger:          log.NewNop(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.scene == nil {
		return nil, errNoScene
	}
	if e.renderer == nil {
		return nil, errNoRenderer
	}
	if e.params == nil {
		e.params = params.NewStore(params.WithInitial(e.scene.Config()), params.WithLogger(e.logger))
	}
	e.profiler = profiler.NewProfiler(e.logger, time.Second)
	e.profilingEnabled.Store(e.pendingProfiling)

	e.submitScene()
	e.renderer.SetLabel(e.scene.Label())
	e.submitCamera()

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if err := e.renderer.Resize(width, height); err != nil {
				e.logger.Warnw("resize failed", "width", width, "height", height, "error", err)
			}
			if height > 0 {
				e.scene.Camera().SetAspect(float32(width) / float32(height))
			}
		})
		e.bindInput()
		e.window.SetTitle(windowTitle(e.scene.Config()))
	}

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Params() params.Store {
	return e.params
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

func (e *engine) Run() {
	e.running.Store(true)
	defer e.running.Store(false)

	e.handle()
	if e.window != nil {
		e.window.SetUpdateCallback(func() {
			select {
			case <-e.quitChannel:
				_ = e.window.Close()
			default:
			}
		})
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handle launches the engine, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
}

func (e *engine) Tick(dt float32) error {
	cfg := e.params.Snapshot()
	changed, err := e.scene.Update(cfg)
	if err != nil {
		return err
	}
	if changed {
		e.submitScene()
		e.settled = false
		if e.window != nil {
			e.window.SetTitle(windowTitle(cfg))
		}
	}

	samples := e.scene.Tick(dt)
	e.submitCamera()
	acc := e.scene.Accumulator()
	if acc != nil && len(samples) > 0 {
		e.renderer.SubmitShadows(renderer.ShadowPasses(acc.Light(), samples))
	}
	if acc != nil && acc.Done() && !e.settled {
		e.settled = true
		e.logger.Debugw("shadows settled", "frames", acc.Frame())
	}

	if e.profilingEnabled.Load() {
		e.profiler.Tick()
	}
	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
	return nil
}

// submitScene hands the current tree and its backdrop to the renderer.
func (e *engine) submitScene() {
	e.renderer.Submit(e.scene.Tree())
	e.renderer.SetClearColor(ClearColor(e.scene))
	e.renderer.SetBackdrop(Backdrop(e.scene))
}

// submitCamera passes the orbit camera's current view-projection to the renderer.
func (e *engine) submitCamera() {
	if cam := e.scene.Camera(); cam != nil {
		e.renderer.SetViewProjection(cam.ViewProjectionMatrix())
	}
}

func (e *engine) RenderFrame() error {
	return e.renderer.Frame()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Listens for dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()
	var lastErr string

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			// Log a failing composition once, not every tick.
			if err := e.Tick(dt); err != nil {
				if err.Error() != lastErr {
					e.logger.Errorw("scene update failed", "error", err)
					lastErr = err.Error()
				}
			} else {
				lastErr = ""
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorw("render goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if err := e.RenderFrame(); err != nil {
				e.logger.Debugw("frame skipped", "error", err)
			}

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled.Load() {
				e.profiler.Frame()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
	e.logger.Infow("engine stopping")
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	if !e.running.Load() {
		e.engineTickRate = newRate
		return
	}
	// Replace any pending update with the newest rate.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

// frameDuration converts a frame cap to a minimum frame time; 0 means uncapped.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

// Backdrop is the environment preview drawn behind s, or nil when the backdrop is hidden.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - *image.RGBA: the blurred panorama preview
func Backdrop(s scene.Scene) *image.RGBA {
	env := s.Environment()
	if env == nil {
		return nil
	}
	tree := s.Tree()
	if i := tree.Find("environment"); i >= 0 && tree.Nodes[i].Backdrop.Background {
		return env.Preview
	}
	return nil
}

// ClearColor is the colour a frame of s is cleared to: the environment's mean
// colour when the backdrop is shown, otherwise the configured background colour.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - common.Color: the linear RGBA clear colour
func ClearColor(s scene.Scene) common.Color {
	tree := s.Tree()
	if env := s.Environment(); env != nil {
		if i := tree.Find("environment"); i >= 0 && tree.Nodes[i].Backdrop.Background {
			return env.Mean
		}
	}
	c, err := common.ParseHexColor(s.Config().Bg)
	if err != nil {
		return common.Color{0, 0, 0, 1}
	}
	return c
}
