package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/reject-ocean/engine/environment"
	"github.com/Carmen-Shannon/reject-ocean/engine/loader"
	"github.com/Carmen-Shannon/reject-ocean/engine/model"
	"github.com/Carmen-Shannon/reject-ocean/engine/scene"
	"github.com/Carmen-Shannon/reject-ocean/engine/text"
	"github.com/Carmen-Shannon/reject-ocean/internal/log"
)

// AssetPaths locates the three files the viewer needs. Model is required;
// an empty Environment or Font path skips that asset.
type AssetPaths struct {
	Model       string
	Environment string
	Font        string
}

// Assets are the decoded files a Scene is built from.
type Assets struct {
	Bundle      model.AssetBundle
	Environment *environment.Environment
	Font        *text.Font
}

// SceneOptions returns the scene options attaching the loaded environment and font.
func (a *Assets) SceneOptions() []scene.SceneBuilderOption {
	var opts []scene.SceneBuilderOption
	if a.Environment != nil {
		opts = append(opts, scene.WithEnvironment(a.Environment))
	}
	if a.Font != nil {
		opts = append(opts, scene.WithFont(a.Font))
	}
	return opts
}

// LoadAssets loads the model, environment and font concurrently on a worker pool.
// The load is all-or-nothing: if any file fails, every failure is returned joined and no Assets are.
//
// Parameters:
//   - ctx: cancels the model load
//   - ldr: the loader resolving the model
//   - paths: the files to load
//   - logger: receives one line per loaded asset (nil discards)
//
// Returns:
//   - *Assets: the loaded assets
//   - error: the joined *common.AssetLoadError values of every failed load
func LoadAssets(ctx context.Context, ldr loader.Loader, paths AssetPaths, logger *log.Logger) (*Assets, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	logger = logger.Named("assets")
	if paths.Model == "" {
		return nil, fmt.Errorf("load assets: model path is required")
	}

	backdrop := scene.Backdrop()
	var (
		out    Assets
		mu     sync.Mutex
		errs   []error
		wg     sync.WaitGroup
		taskID int
	)

	pool := worker.NewDynamicWorkerPool(3, 3, time.Second)
	defer pool.Stop()

	submit := func(name, path string, load func() error) {
		if path == "" {
			return
		}
		wg.Add(1)
		id := taskID
		taskID++
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				start := time.Now()
				if err := load(); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					return nil, err
				}
				logger.Infow("asset loaded", "asset", name, "path", path, "elapsed", time.Since(start))
				return nil, nil
			},
		})
	}

	submit("model", paths.Model, func() error {
		b, err := ldr.LoadBundle(ctx, paths.Model)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Bundle = b
		mu.Unlock()
		return nil
	})
	submit("environment", paths.Environment, func() error {
		env, err := environment.Load(paths.Environment,
			environment.WithBackground(backdrop.Background),
			environment.WithBlurriness(backdrop.Blurriness),
			environment.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Environment = env
		mu.Unlock()
		return nil
	})
	submit("font", paths.Font, func() error {
		f, err := text.LoadFont(paths.Font)
		if err != nil {
			return err
		}
		mu.Lock()
		out.Font = f
		mu.Unlock()
		return nil
	})

	wg.Wait()

	if len(errs) > 0 {
		return nil, fmt.Errorf("load assets: %w", errors.Join(errs...))
	}
	return &out, nil
}
