package camera

// CameraController defines the orbit control system.
// Controllers own positional state (position, target). Camera reads from controller
// and computes view/projection matrices. The position is held in spherical coordinates
// (radius, azimuth, elevation) around the target.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - [3]float32: world-space camera position
	Position() [3]float32

	// Target returns the look-at point.
	//
	// Returns:
	//   - [3]float32: world-space target position
	Target() [3]float32

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// Azimuth returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// Polar returns the angle from the +Y axis, the complement of Elevation.
	//
	// Returns:
	//   - float32: polar angle in radians
	Polar() float32

	// Drag rotates the camera by a mouse drag delta in pixels, scaled by the mouse
	// sensitivity. The polar angle stays within its bounds.
	//
	// Parameters:
	//   - dx: horizontal drag distance
	//   - dy: vertical drag distance
	Drag(dx, dy float32)

	// Zoom adjusts the camera's distance by modifying orbit radius.
	// Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// AutoRotate advances the idle rotation by dt seconds. A full turn takes
	// 60/speed seconds. Does nothing while auto-rotation is off or paused.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	AutoRotate(dt float32)

	// SetPaused suspends or resumes auto-rotation.
	//
	// Parameters:
	//   - paused: true to suspend
	SetPaused(paused bool)

	// Paused reports whether auto-rotation is suspended.
	//
	// Returns:
	//   - bool: true if paused
	Paused() bool
}
