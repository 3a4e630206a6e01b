package camera

import (
	"sync"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/chewxy/math32"
)

type cameraImpl struct {
	mu *sync.Mutex

	up [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           common.Mat4
	projectionMatrix     common.Mat4
	viewProjectionMatrix common.Mat4

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and computes view/projection matrices
// from an attached CameraController each frame via Update().
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the current view matrix (column-major).
	//
	// Returns:
	//   - common.Mat4: the view matrix
	ViewMatrix() common.Mat4

	// ProjectionMatrix returns the current projection matrix (column-major).
	//
	// Returns:
	//   - common.Mat4: the projection matrix
	ProjectionMatrix() common.Mat4

	// ViewProjectionMatrix returns the current combined view-projection matrix (column-major).
	//
	// Returns:
	//   - common.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() common.Mat4

	// Controller returns the attached CameraController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// Update reads position/target from controller and recomputes matrices.
	// Should be called once per frame (typically in the tick callback).
	// If no controller is attached, this method does nothing.
	Update()

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	// Called when the window framebuffer is resized.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with default perspective settings: a 45° field
// of view, square aspect, and clip planes at 0.1 and 1000.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:                   &sync.Mutex{},
		up:                   [3]float32{0, 1, 0},
		fov:                  Degrees(45),
		aspect:               1,
		near:                 0.1,
		far:                  1000,
		viewMatrix:           common.Identity(),
		projectionMatrix:     common.Identity(),
		viewProjectionMatrix: common.Identity(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

// Degrees converts an angle in degrees to radians.
func Degrees(deg float32) float32 {
	return deg * math32.Pi / 180
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() common.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// The view matrix is read from the attached controller and left untouched when there is none.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.projectionMatrix = common.Perspective(c.fov, c.aspect, c.near, c.far)
	if c.controller != nil {
		c.viewMatrix = common.LookAt(c.controller.Position(), c.controller.Target(), c.up)
	}
	c.viewProjectionMatrix = common.Mul4(c.projectionMatrix, c.viewMatrix)
}
