package camera

import (
	"testing"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sceneController() CameraController {
	return NewCameraController(
		WithPosition([3]float32{55, 20, 55}),
		WithPolarBounds(0, math32.Pi/2),
		WithAutoRotate(0.3),
	)
}

func TestWithPositionRoundTrips(t *testing.T) {
	cc := sceneController()
	p := cc.Position()
	assert.InDelta(t, 55, p[0], 1e-3)
	assert.InDelta(t, 20, p[1], 1e-3)
	assert.InDelta(t, 55, p[2], 1e-3)
	assert.InDelta(t, math32.Sqrt(6450), cc.Radius(), 1e-3)
	assert.InDelta(t, math32.Pi/4, cc.Azimuth(), 1e-5)
}

func TestDragClampsPolarAngle(t *testing.T) {
	cc := sceneController()

	cc.Drag(0, -10000)
	assert.InDelta(t, math32.Pi/2, cc.Polar(), 1e-5)
	assert.GreaterOrEqual(t, cc.Position()[1], float32(-1e-3))

	cc.Drag(0, 10000)
	assert.InDelta(t, 0, cc.Polar(), 1e-5)
	assert.Greater(t, cc.Polar(), float32(0))
}

func TestAutoRotateRate(t *testing.T) {
	cc := sceneController()
	start := cc.Azimuth()
	radius := cc.Radius()

	cc.AutoRotate(1)
	assert.InDelta(t, -2*math32.Pi/60*0.3, cc.Azimuth()-start, 1e-5)
	assert.InDelta(t, radius, cc.Radius(), 1e-5)

	cc.SetPaused(true)
	before := cc.Azimuth()
	cc.AutoRotate(1)
	assert.Equal(t, before, cc.Azimuth())
	assert.True(t, cc.Paused())
}

func TestAutoRotateKeepsAzimuthBounded(t *testing.T) {
	cc := sceneController()
	// an hour at 60 ticks per second
	for range 60 * 3600 {
		cc.AutoRotate(1.0 / 60)
	}
	assert.GreaterOrEqual(t, cc.Azimuth(), -math32.Pi)
	assert.Less(t, cc.Azimuth(), math32.Pi)
	assert.InDelta(t, math32.Sqrt(6450), cc.Radius(), 1e-3)

	cc.Drag(1e6, 0)
	assert.GreaterOrEqual(t, cc.Azimuth(), -math32.Pi)
	assert.Less(t, cc.Azimuth(), math32.Pi)
}

func TestAutoRotateDisabledByDefault(t *testing.T) {
	cc := NewCameraController()
	before := cc.Azimuth()
	cc.AutoRotate(10)
	assert.Equal(t, before, cc.Azimuth())
}

func TestZoomRespectsRadiusBounds(t *testing.T) {
	cc := NewCameraController(WithRadiusBounds(5, 20), WithZoomSpeed(2))
	cc.Zoom(100)
	assert.Equal(t, float32(5), cc.Radius())
	cc.Zoom(-100)
	assert.Equal(t, float32(20), cc.Radius())
}

func TestCameraMatricesFollowController(t *testing.T) {
	cc := sceneController()
	cam := NewCamera(WithFov(Degrees(26)), WithAspect(16.0/9), WithController(cc))
	require.NotNil(t, cam.Controller())

	// the orbit target projects to the centre of the screen
	clip := common.TransformPoint(cam.ViewProjectionMatrix(), [3]float32{})
	assert.InDelta(t, 0, clip[0], 1e-4)
	assert.InDelta(t, 0, clip[1], 1e-4)

	view := cam.ViewMatrix()
	cc.AutoRotate(5)
	assert.Equal(t, view, cam.ViewMatrix())
	cam.Update()
	assert.NotEqual(t, view, cam.ViewMatrix())
}

func TestSetAspectUpdatesProjection(t *testing.T) {
	cam := NewCamera(WithFov(Degrees(26)))
	p := cam.ProjectionMatrix()
	cam.SetAspect(2)
	assert.Equal(t, float32(2), cam.Aspect())
	assert.InDelta(t, p[0]/2, cam.ProjectionMatrix()[0], 1e-6)
	assert.InDelta(t, Degrees(26), cam.Fov(), 1e-7)
	assert.Equal(t, float32(0.1), cam.Near())
	assert.Equal(t, float32(1000), cam.Far())
}
