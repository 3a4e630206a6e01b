package camera

import (
	"sync"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/chewxy/math32"
)

// polarEpsilon keeps the polar angle off the poles, where the look-at basis degenerates.
const polarEpsilon float32 = 1e-6

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position [3]float32
	target   [3]float32

	radius    float32
	azimuth   float32 // around Y, 0 = +Z
	elevation float32 // from the horizontal plane

	minRadius float32
	maxRadius float32
	minPolar  float32
	maxPolar  float32

	autoRotate      bool
	autoRotateSpeed float32
	paused          bool

	mouseSensitivity float32
	zoomSpeed        float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new orbit controller.
// Defaults orbit the origin at radius 10 with unbounded polar angle and no auto-rotation.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:     &sync.Mutex{},
		radius: 10,

		minRadius: 0,
		maxRadius: math32.Inf(1),
		minPolar:  0,
		maxPolar:  math32.Pi,

		mouseSensitivity: 0.005,
		zoomSpeed:        1,
	}

	for _, option := range options {
		option(cc)
	}

	cc.clamp()
	cc.updatePosition()
	return cc
}

// setFromPosition derives spherical coordinates from an absolute position.
func (cc *cameraControllerImpl) setFromPosition(position [3]float32) {
	offset := common.Sub3(position, cc.target)
	cc.radius = common.Length3(offset)
	if cc.radius == 0 {
		return
	}
	cc.azimuth = math32.Atan2(offset[0], offset[2])
	cc.elevation = math32.Asin(common.Clamp(offset[1]/cc.radius, -1, 1))
}

// clamp applies the radius and polar bounds. Caller must hold the mutex.
func (cc *cameraControllerImpl) clamp() {
	cc.radius = common.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	minPolar := max(cc.minPolar, polarEpsilon)
	maxPolar := min(cc.maxPolar, math32.Pi-polarEpsilon)
	polar := common.Clamp(math32.Pi/2-cc.elevation, minPolar, maxPolar)
	cc.elevation = math32.Pi/2 - polar
}

// wrapAngle maps a to [-pi, pi).
func wrapAngle(a float32) float32 {
	a = math32.Mod(a+math32.Pi, 2*math32.Pi)
	if a < 0 {
		a += 2 * math32.Pi
	}
	return a - math32.Pi
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := math32.Cos(cc.elevation)
	sinElev := math32.Sin(cc.elevation)
	cosAzim := math32.Cos(cc.azimuth)
	sinAzim := math32.Sin(cc.azimuth)

	cc.position[0] = cc.target[0] + cc.radius*cosElev*sinAzim
	cc.position[1] = cc.target[1] + cc.radius*sinElev
	cc.position[2] = cc.target[2] + cc.radius*cosElev*cosAzim
}

func (cc *cameraControllerImpl) Position() [3]float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() [3]float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) Polar() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return math32.Pi/2 - cc.elevation
}

func (cc *cameraControllerImpl) Drag(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = wrapAngle(cc.azimuth - dx*cc.mouseSensitivity)
	cc.elevation += dy * cc.mouseSensitivity
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius -= delta * cc.zoomSpeed
	cc.clamp()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) AutoRotate(dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.autoRotate || cc.paused {
		return
	}
	cc.azimuth = wrapAngle(cc.azimuth - 2*math32.Pi/60*cc.autoRotateSpeed*dt)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) SetPaused(paused bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.paused = paused
}

func (cc *cameraControllerImpl) Paused() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.paused
}
