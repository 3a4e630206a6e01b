package scene

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/reject-ocean/engine/camera"
	"github.com/Carmen-Shannon/reject-ocean/engine/environment"
	"github.com/Carmen-Shannon/reject-ocean/engine/light"
	"github.com/Carmen-Shannon/reject-ocean/engine/material"
	"github.com/Carmen-Shannon/reject-ocean/engine/model"
	"github.com/Carmen-Shannon/reject-ocean/engine/text"
	"github.com/Carmen-Shannon/reject-ocean/internal/log"
)

// Scene hosts the composed tree for one bundle and keeps it in step with the
// live parameters. It owns the orbit camera and the shadow accumulator, the two
// pieces of state that evolve between compositions.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Bundle returns the model the scene is composed from.
	Bundle() model.AssetBundle

	// Tree returns the most recently composed tree. The tree must not be modified.
	//
	// Returns:
	//   - *SceneTree: the current tree
	Tree() *SceneTree

	// Config returns the parameter snapshot the current tree was composed from.
	Config() material.Config

	// Update recomposes the tree when cfg differs from the last snapshot.
	// A recomposition restarts shadow accumulation. On error the previous tree stays.
	//
	// Parameters:
	//   - cfg: the latest parameter snapshot
	//
	// Returns:
	//   - bool: true if the tree was recomposed
	//   - error: the composition error, if any
	Update(cfg material.Config) (bool, error)

	// Tick advances the camera's auto-rotation and the shadow accumulation.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//
	// Returns:
	//   - []light.ShadowSample: the shadow frames produced by this tick, nil once accumulation is done
	Tick(dt float32) []light.ShadowSample

	// Camera returns the orbiting camera.
	Camera() camera.Camera

	// Accumulator returns the shadow accumulator.
	Accumulator() *light.ShadowAccumulator

	// Environment returns the backdrop panorama, or nil if none was attached.
	Environment() *environment.Environment

	// Label returns the laid-out text label, or nil if no font was attached.
	Label() *text.Label
}

type scene struct {
	mu *sync.RWMutex

	name   string
	logger *log.Logger

	bundle model.AssetBundle
	tree   *SceneTree
	cfg    material.Config

	cam         camera.Camera
	aspect      float32
	accumulator *light.ShadowAccumulator
	seed        uint64

	env   *environment.Environment
	font  *text.Font
	label *text.Label
}

var _ Scene = &scene{}

// NewScene composes the initial tree and builds the camera and shadow
// accumulator it describes.
//
// Parameters:
//   - name: the name of the scene
//   - bundle: the loaded model (must not be nil)
//   - cfg: the initial parameter snapshot
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: if the initial composition or the label layout fails
func NewScene(name string, bundle model.AssetBundle, cfg material.Config, options ...SceneBuilderOption) (Scene, error) {
	if bundle == nil {
		panic("scene: NewScene requires a non-nil AssetBundle")
	}

	s := &scene{
		mu:     &sync.RWMutex{},
		name:   name,
		logger: log.NewNop(),
		bundle: bundle,
		aspect: 1,
		seed:   1,
	}
	for _, option := range options {
		option(s)
	}

	tree, err := Compose(bundle, cfg)
	if err != nil {
		return nil, err
	}
	s.tree = tree
	s.cfg = cfg

	if i := tree.Find("orbitControls"); i >= 0 {
		s.cam = newCamera(*tree.Nodes[i].Camera, s.aspect)
	}
	if i := tree.Find("accumulativeShadows"); i >= 0 {
		sp := tree.Nodes[i].Shadow
		s.accumulator = light.NewShadowAccumulator(sp.Shadows, sp.Light, s.seed)
	}
	if i := tree.Find("label"); i >= 0 && s.font != nil {
		t := tree.Nodes[i].Text
		s.label, err = text.Layout(s.font, t.Text, t.Params)
		if err != nil {
			return nil, fmt.Errorf("layout label: %w", err)
		}
		if len(s.label.Missing) > 0 {
			s.logger.Warnw("font lacks glyphs", "font", s.font.FamilyName, "missing", string(s.label.Missing))
		}
	}

	s.logger.Infow("scene composed",
		"name", name,
		"nodes", tree.Len(),
		"meshes", tree.Count(NodeKindMesh),
	)
	return s, nil
}

func newCamera(rig CameraRigNode, aspect float32) camera.Camera {
	opts := []camera.CameraControllerOption{
		camera.WithTarget(rig.Target),
		camera.WithPosition(rig.Position),
		camera.WithPolarBounds(rig.MinPolar, rig.MaxPolar),
	}
	if rig.AutoRotate {
		opts = append(opts, camera.WithAutoRotate(rig.AutoRotateSpeed))
	}
	return camera.NewCamera(
		camera.WithFov(rig.Fov),
		camera.WithAspect(aspect),
		camera.WithController(camera.NewCameraController(opts...)),
	)
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Bundle() model.AssetBundle {
	return s.bundle
}

func (s *scene) Tree() *SceneTree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

func (s *scene) Config() material.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *scene) Update(cfg material.Config) (bool, error) {
	s.mu.RLock()
	same := cfg == s.cfg
	s.mu.RUnlock()
	if same {
		return false, nil
	}

	tree, err := Compose(s.bundle, cfg)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = tree
	s.cfg = cfg
	if s.accumulator != nil {
		s.accumulator.Reset()
	}
	s.logger.Debugw("scene recomposed", "name", s.name, "physical", cfg.MeshPhysicalMaterial)
	return true, nil
}

func (s *scene) Tick(dt float32) []light.ShadowSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cam != nil {
		if ctrl := s.cam.Controller(); ctrl != nil {
			ctrl.AutoRotate(dt)
		}
		s.cam.Update()
	}
	if s.accumulator == nil {
		return nil
	}
	return s.accumulator.Step()
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Accumulator() *light.ShadowAccumulator {
	return s.accumulator
}

func (s *scene) Environment() *environment.Environment {
	return s.env
}

func (s *scene) Label() *text.Label {
	return s.label
}
