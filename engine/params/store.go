// Package params holds the live glass material parameters the viewer tweaks at runtime.
package params

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/material"
	"github.com/Carmen-Shannon/reject-ocean/internal/log"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	errUnsupportedParamsFormat = errors.New("unsupported parameter file format")
	errNotBool                 = errors.New("parameter is not a toggle")
)

// store is the implementation of the Store interface.
type store struct {
	mu sync.RWMutex

	logger  *log.Logger
	current material.Config
	version uint64
}

// Store is the concurrency-safe owner of the current material.Config snapshot.
// Readers always receive a complete, normalized snapshot; writers replace it atomically.
type Store interface {
	// Snapshot returns the current parameters.
	//
	// Returns:
	//   - material.Config: the current snapshot
	Snapshot() material.Config

	// Version returns a counter that increases on every change.
	//
	// Returns:
	//   - uint64: the change counter
	Version() uint64

	// Set replaces one parameter. Numeric values are clamped and snapped to the field's grid.
	//
	// Parameters:
	//   - name: the parameter name
	//   - value: the new value
	//
	// Returns:
	//   - material.Config: the new snapshot
	//   - error: material.ErrUnknownParam, material.ErrParamType or common.ErrInvalidColor
	Set(name string, value any) (material.Config, error)

	// Toggle flips a boolean parameter.
	//
	// Parameters:
	//   - name: the parameter name
	//
	// Returns:
	//   - material.Config: the new snapshot
	//   - error: material.ErrUnknownParam, or an error if the field is not a bool
	Toggle(name string) (material.Config, error)

	// Reset restores every parameter to its default.
	//
	// Returns:
	//   - material.Config: the default snapshot
	Reset() material.Config

	// Load replaces the snapshot with the contents of a TOML, YAML or JSON file.
	// Fields the file omits take their defaults. On error the snapshot is unchanged.
	//
	// Parameters:
	//   - path: the parameter file
	//
	// Returns:
	//   - error: *common.AssetLoadError if the file cannot be read, decoded or validated
	Load(path string) error

	// Watch reloads path whenever it is written until ctx is cancelled.
	// Reload failures are logged and leave the previous snapshot in place.
	//
	// Parameters:
	//   - ctx: stops the watch
	//   - path: the parameter file
	//
	// Returns:
	//   - error: if the watcher cannot be started
	Watch(ctx context.Context, path string) error
}

var _ Store = &store{}

// NewStore creates a Store holding the default parameters.
//
// Parameters:
//   - options: functional options to configure the store
//
// Returns:
//   - Store: the new store
func NewStore(options ...StoreBuilderOption) Store {
	s := &store{
		logger:  log.NewNop(),
		current: material.Defaults(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *store) Snapshot() material.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *store) Set(name string, value any) (material.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.current.Set(name, value)
	if err != nil {
		return s.current, err
	}
	s.replace(next)
	return next, nil
}

func (s *store) Toggle(name string) (material.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.current.Get(name)
	if err != nil {
		return s.current, err
	}
	b, ok := v.(bool)
	if !ok {
		return s.current, fmt.Errorf("%w: %q", errNotBool, name)
	}
	next, err := s.current.Set(name, !b)
	if err != nil {
		return s.current, err
	}
	s.replace(next)
	return next, nil
}

func (s *store) Reset() material.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(material.Defaults())
	return s.current
}

func (s *store) Load(path string) error {
	next, err := decodeFile(path)
	if err != nil {
		return common.NewAssetLoadError(common.AssetKindParams, path, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(next)
	s.logger.Infow("parameters loaded", "path", path)
	return nil
}

// replace swaps in next and bumps the version when it differs. Caller must hold the write lock.
func (s *store) replace(next material.Config) {
	if next == s.current {
		return
	}
	s.current = next
	s.version++
	s.logger.Debugw("parameters changed", "version", s.version)
}

func (s *store) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// editors often replace the file, so the directory is watched
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
					continue
				}
				if err := s.Load(path); err != nil {
					s.logger.Warnw("parameter reload failed", "path", path, "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warnw("parameter watcher error", "error", err)
			}
		}
	}()
	return nil
}

// decodeFile reads a parameter file over the defaults and normalizes the result.
func decodeFile(path string) (material.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return material.Config{}, err
	}
	c := material.Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &c)
	case ".json":
		err = json.Unmarshal(data, &c)
	default:
		return material.Config{}, fmt.Errorf("%w: %s", errUnsupportedParamsFormat, filepath.Ext(path))
	}
	if err != nil {
		return material.Config{}, fmt.Errorf("failed to decode parameters: %w", err)
	}
	return material.Normalize(c)
}
