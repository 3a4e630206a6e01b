package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine"
	"github.com/Carmen-Shannon/reject-ocean/engine/loader"
	"github.com/Carmen-Shannon/reject-ocean/engine/params"
	"github.com/Carmen-Shannon/reject-ocean/engine/renderer"
	"github.com/Carmen-Shannon/reject-ocean/engine/scene"
	"github.com/Carmen-Shannon/reject-ocean/engine/window"
	"github.com/Carmen-Shannon/reject-ocean/internal/config"
	"github.com/Carmen-Shannon/reject-ocean/internal/log"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// ── Config + Logger ─────────────────────────────────────────────────
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	logger, err := log.NewLogger(cfg.Development, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Parameters ──────────────────────────────────────────────────────
	store := params.NewStore(params.WithLogger(logger))
	if cfg.Params != "" {
		if err := store.Load(cfg.Params); err != nil {
			return err
		}
		if err := store.Watch(ctx, cfg.Params); err != nil {
			logger.Warnw("parameter file will not be reloaded", "path", cfg.Params, "error", err)
		}
	}

	// ── Assets ──────────────────────────────────────────────────────────
	ldr := loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogger(logger))
	assets, err := engine.LoadAssets(ctx, ldr, engine.AssetPaths{
		Model:       cfg.Model,
		Environment: cfg.Environment,
		Font:        cfg.Font,
	}, logger)
	if err != nil {
		return err
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	win, err := window.NewWindow(
		window.WithTitle("Reject Ocean Show"),
		window.WithWidth(cfg.Width),
		window.WithHeight(cfg.Height),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win,
		renderer.WithForceSoftwareRenderer(cfg.Software),
		renderer.WithSize(win.Width(), win.Height()),
		renderer.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer r.Release()

	// ── Scene ───────────────────────────────────────────────────────────
	sceneOpts := append(assets.SceneOptions(),
		scene.WithLogger(logger),
		scene.WithAspect(float32(win.Width())/float32(win.Height())),
	)
	sc, err := scene.NewScene("gelatinousCube", assets.Bundle, store.Snapshot(), sceneOpts...)
	if err != nil {
		var missing *common.MissingReferenceError
		if errors.As(err, &missing) {
			logger.Errorw("model is missing scene references", "model", cfg.Model, "error", missing)
		}
		return err
	}

	// ── Engine ──────────────────────────────────────────────────────────
	eng, err := engine.NewEngine(
		engine.WithScene(sc),
		engine.WithRenderer(r),
		engine.WithParams(store),
		engine.WithWindow(win),
		engine.WithLogger(logger),
		engine.WithTickRate(cfg.TickRate),
		engine.WithRenderFrameLimit(cfg.FrameLimit),
		engine.WithProfiling(cfg.Profiling),
	)
	if err != nil {
		return err
	}

	logger.Infow("viewer started", "model", cfg.Model, "width", win.Width(), "height", win.Height())
	eng.Run()
	logger.Infow("viewer stopped")
	return nil
}
