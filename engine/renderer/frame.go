package renderer

import (
	"image"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/light"
)

// FrameInfo is the per-frame state a backend begins a frame with.
type FrameInfo struct {
	// Clear is the backdrop colour the target is cleared to.
	Clear common.Color

	// ViewProjection is the camera matrix the frame's draws were transformed by.
	ViewProjection common.Mat4

	// Backdrop is the blurred environment preview, nil when the backdrop is hidden.
	Backdrop *image.RGBA
}

// ShadowPass is one accumulation frame of the shadow catcher: the sub-lights
// rendered into the shadow texture and the weight the result is blended in with.
type ShadowPass struct {
	Frame  int
	Weight float32
	Lights []light.Light
}

// ShadowPasses turns accumulator samples into passes lit by rl's sub-lights.
//
// Parameters:
//   - rl: the randomized light the samples were jittered for
//   - samples: the samples returned by one accumulator step
//
// Returns:
//   - []ShadowPass: one pass per sample, in order
func ShadowPasses(rl light.RandomizedLight, samples []light.ShadowSample) []ShadowPass {
	if len(samples) == 0 {
		return nil
	}
	passes := make([]ShadowPass, 0, len(samples))
	for _, s := range samples {
		passes = append(passes, ShadowPass{
			Frame:  s.Frame,
			Weight: s.Weight,
			Lights: rl.Lights(s.Positions),
		})
	}
	return passes
}
