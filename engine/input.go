package engine

import (
	"fmt"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/material"
)

// toggleKeys maps a key to the boolean parameter it flips.
var toggleKeys = map[uint32]string{
	common.KeyB: "backside",
	common.KeyP: "meshPhysicalMaterial",
	common.KeyT: "transmissionSampler",
}

// bindInput wires the window's mouse and keyboard to the orbit controller and the parameter store.
func (e *engine) bindInput() {
	e.window.SetKeyDownCallback(e.handleKey)
	e.window.SetDragCallback(func(dx, dy float32) {
		e.scene.Camera().Controller().Drag(dx, dy)
	})
	e.window.SetScrollCallback(func(delta float32) {
		e.scene.Camera().Controller().Zoom(delta)
	})
}

func (e *engine) handleKey(keyCode uint32) {
	if name, ok := toggleKeys[keyCode]; ok {
		cfg, err := e.params.Toggle(name)
		if err != nil {
			e.logger.Warnw("toggle failed", "param", name, "error", err)
			return
		}
		v, _ := cfg.Get(name)
		e.logger.Infow("parameter toggled", "param", name, "value", v)
		return
	}

	switch keyCode {
	case common.KeyR:
		e.params.Reset()
		e.logger.Infow("parameters reset")
	case common.KeySpace:
		ctrl := e.scene.Camera().Controller()
		ctrl.SetPaused(!ctrl.Paused())
	case common.KeyEsc:
		e.signalQuit()
	}
}

// windowTitle names the inner material mode so the active toggles are visible without a panel.
func windowTitle(cfg material.Config) string {
	mode := "transmission"
	if cfg.MeshPhysicalMaterial {
		mode = "physical"
	}
	title := fmt.Sprintf("Reject Ocean Show [%s", mode)
	if cfg.Backside {
		title += ", backside"
	}
	if cfg.TransmissionSampler {
		title += ", sampler"
	}
	return title + "]"
}
