package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition places the camera at an absolute position, deriving the orbit
// radius, azimuth and elevation from its offset to the target. Apply it after
// WithTarget when both are given.
//
// Parameters:
//   - position: the world-space camera position
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(position [3]float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.setFromPosition(position)
	}
}

// WithTarget sets the look-at/pivot point.
//
// Parameters:
//   - target: the world-space target
//
// Returns:
//   - CameraControllerOption: functional option to set the target position
func WithTarget(target [3]float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = target
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius.
//
// Parameters:
//   - min: minimum zoom distance
//   - max: maximum zoom distance
//
// Returns:
//   - CameraControllerOption: functional option to set radius bounds
func WithRadiusBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithPolarBounds sets the minimum and maximum polar angles, measured from +Y.
// A bound of [0, π/2] keeps the camera on or above the horizon.
//
// Parameters:
//   - min: minimum polar angle in radians
//   - max: maximum polar angle in radians
//
// Returns:
//   - CameraControllerOption: functional option to set polar bounds
func WithPolarBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minPolar = min
		cc.maxPolar = max
	}
}

// WithAutoRotate enables idle rotation at the given speed. A speed of 1 is one
// full turn per minute.
//
// Parameters:
//   - speed: turns per minute
//
// Returns:
//   - CameraControllerOption: functional option to enable auto-rotation
func WithAutoRotate(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.autoRotate = true
		cc.autoRotateSpeed = speed
	}
}

// WithMouseSensitivity sets the mouse drag sensitivity.
//
// Parameters:
//   - sensitivity: radians per pixel of drag
//
// Returns:
//   - CameraControllerOption: functional option to set mouse sensitivity
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets the zoom speed multiplier.
//
// Parameters:
//   - speed: multiplier for zoom input
//
// Returns:
//   - CameraControllerOption: functional option to set zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}
