package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerLevels(t *testing.T) {
	l, err := NewLogger(true, true)
	require.NoError(t, err)
	assert.True(t, l.Desugar().Core().Enabled(zap.DebugLevel))

	l, err = NewLogger(false, false)
	require.NoError(t, err)
	assert.False(t, l.Desugar().Core().Enabled(zap.DebugLevel))
	assert.True(t, l.Desugar().Core().Enabled(zap.InfoLevel))
}

func TestNopChildren(t *testing.T) {
	l := NewNop().Named("scene").With("frame", 1)
	require.NotNil(t, l)
	l.Infow("discarded", "k", "v")
}
