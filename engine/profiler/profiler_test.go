package profiler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/reject-ocean/internal/log"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestProfilerReportsPerInterval(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewProfiler(&log.Logger{SugaredLogger: zap.New(core).Sugar()}, time.Second)

	start := time.Unix(100, 0)
	clock := start
	p.now = func() time.Time { return clock }
	p.lastTime = start

	for i := 0; i < 30; i++ {
		p.Tick()
		p.Tick()
		clock = clock.Add(20 * time.Millisecond)
		assert.False(t, p.Frame(), "frame %d", i)
	}
	assert.Zero(t, logs.Len())

	clock = start.Add(2 * time.Second)
	assert.True(t, p.Frame())

	r := p.Last()
	assert.InDelta(t, 15.5, r.FPS, 1e-9)
	assert.InDelta(t, 30, r.TickRate, 1e-9)
	assert.Positive(t, r.SysMB)

	entries := logs.FilterMessage("frame stats").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "profiler", entries[0].LoggerName)
	}

	// counters restart after a report
	clock = clock.Add(time.Second)
	assert.True(t, p.Frame())
	assert.InDelta(t, 1, p.Last().FPS, 1e-9)
	assert.Zero(t, p.Last().TickRate)
}

func TestProfilerDefaults(t *testing.T) {
	p := NewProfiler(nil, 0)
	assert.Equal(t, time.Second, p.updateInterval)
	assert.Equal(t, Report{}, p.Last())
}
