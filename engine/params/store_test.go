package params

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/reject-ocean/common"
	"github.com/Carmen-Shannon/reject-ocean/engine/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewStoreStartsAtDefaults(t *testing.T) {
	s := NewStore()
	assert.Equal(t, material.Defaults(), s.Snapshot())
	assert.Equal(t, uint64(0), s.Version())
}

func TestSetClampsAndBumpsVersion(t *testing.T) {
	s := NewStore()
	cfg, err := s.Set("thickness", 42)
	require.NoError(t, err)
	assert.Equal(t, float32(10), cfg.Thickness)
	assert.Equal(t, cfg, s.Snapshot())
	assert.Equal(t, uint64(1), s.Version())

	// writing the same value is not a change
	_, err = s.Set("thickness", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), s.Version())

	_, err = s.Set("nope", 1)
	assert.ErrorIs(t, err, material.ErrUnknownParam)
	assert.Equal(t, cfg, s.Snapshot())
}

func TestToggleAndReset(t *testing.T) {
	s := NewStore()
	cfg, err := s.Toggle("backside")
	require.NoError(t, err)
	assert.True(t, cfg.Backside)

	_, err = s.Toggle("ior")
	assert.ErrorIs(t, err, errNotBool)

	assert.Equal(t, material.Defaults(), s.Reset())
	assert.False(t, s.Snapshot().Backside)
}

func TestLoadFormatsOverlayDefaults(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"glass.toml": "ior = 1.5\nbackside = true\ncolor = \"#FF0000\"\n",
		"glass.yaml": "ior: 1.5\nbackside: true\ncolor: \"#FF0000\"\n",
		"glass.json": `{"ior": 1.5, "backside": true, "color": "#FF0000"}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			require.NoError(t, s.Load(writeFile(t, dir, name, content)))
			cfg := s.Snapshot()
			assert.Equal(t, float32(1.5), cfg.IOR)
			assert.True(t, cfg.Backside)
			assert.Equal(t, "#ff0000", cfg.Color)
			assert.Equal(t, material.Defaults().Thickness, cfg.Thickness)
		})
	}
}

func TestLoadClampsOutOfRangeValues(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Load(writeFile(t, t.TempDir(), "glass.toml", "samples = 100\nroughness = -3.0\n")))
	assert.Equal(t, 32, s.Snapshot().Samples)
	assert.Equal(t, float32(0), s.Snapshot().Roughness)
}

func TestLoadFailuresKeepSnapshot(t *testing.T) {
	dir := t.TempDir()
	s := NewStore()
	before := s.Snapshot()

	for _, path := range []string{
		filepath.Join(dir, "missing.toml"),
		writeFile(t, dir, "glass.ini", "ior=2"),
		writeFile(t, dir, "broken.toml", "ior = ["),
		writeFile(t, dir, "badcolor.yaml", "color: blue\n"),
	} {
		err := s.Load(path)
		var loadErr *common.AssetLoadError
		require.True(t, errors.As(err, &loadErr), path)
		assert.Equal(t, common.AssetKindParams, loadErr.Kind)
		assert.Equal(t, before, s.Snapshot())
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "glass.toml", "ior = 1.2\n")
	s := NewStore()
	require.NoError(t, s.Load(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Watch(ctx, path))

	require.NoError(t, os.WriteFile(path, []byte("ior = 2.5\n"), 0o644))
	assert.Eventually(t, func() bool {
		return s.Snapshot().IOR == 2.5
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 200 {
			_, _ = s.Set("samples", 1+i%32)
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			cfg := s.Snapshot()
			assert.GreaterOrEqual(t, cfg.Samples, 1)
			assert.LessOrEqual(t, cfg.Samples, 32)
		}
	}()
	wg.Wait()
}
