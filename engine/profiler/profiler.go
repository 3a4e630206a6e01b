package profiler

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/reject-ocean/internal/log"
)

// Report is one interval's worth of frame, tick and memory statistics.
type Report struct {
	FPS         float64
	TickRate    float64
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
}

// Profiler tracks frame rate, engine tick rate and memory statistics for performance monitoring.
// Outputs stats to the logger at a configurable interval.
// Tick may be called from another goroutine than Frame.
type Profiler struct {
	logger         *log.Logger
	frameCount     int
	tickCount      atomic.Int64
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Report
	now            func() time.Time
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - logger: the logger reports are written to (nil discards them)
//   - interval: how often a report is produced (<= 0 means one second)
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(logger *log.Logger, interval time.Duration) *Profiler {
	if logger == nil {
		logger = log.NewNop()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		logger:         logger.Named("profiler"),
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick counts one engine tick.
func (p *Profiler) Tick() {
	p.tickCount.Add(1)
}

// Frame should be called once per rendered frame.
// Logs a Report when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this frame, false otherwise
func (p *Profiler) Frame() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	r := Report{
		FPS:      float64(p.frameCount) / elapsed.Seconds(),
		TickRate: float64(p.tickCount.Swap(0)) / elapsed.Seconds(),
		// Alloc is live heap; Sys is what the process took from the OS.
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
	}

	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses.
		r.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			r.MaxPauseUs = max(r.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Infow("frame stats",
		"fps", r.FPS,
		"tickRate", r.TickRate,
		"heapMB", r.HeapMB,
		"allocRateMBps", r.AllocRateMB,
		"gc", r.GCCount,
		"gcLastPauseUs", r.LastPauseUs,
		"gcMaxPauseUs", r.MaxPauseUs,
		"sysMB", r.SysMB,
	)

	p.last = r
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = p.memStats.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent report, zero before the first one.
func (p *Profiler) Last() Report {
	return p.last
}
