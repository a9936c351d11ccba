package profiler

import (
	"fmt"
	"runtime"
	"time"
)

// Phase identifies one timed section of a frame.
type Phase int

const (
	// PhaseEvents is the input drain and camera update.
	PhaseEvents Phase = iota

	// PhaseRender is the compute dispatch, including the optional GPU finish.
	PhaseRender

	// PhaseDraw is the presentation draw and buffer swap.
	PhaseDraw

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseRender:
		return "render"
	case PhaseDraw:
		return "draw"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Phases lists every timed phase in frame order.
var Phases = []Phase{PhaseEvents, PhaseRender, PhaseDraw}

// Report is the averaged timing of one reporting interval.
type Report struct {
	Frames  int
	Elapsed time.Duration
	FPS     float64

	// Average is the mean time per frame spent in each phase.
	Average [phaseCount]time.Duration

	// HeapMB and GCCount are read from the runtime when the report is produced.
	HeapMB  float64
	GCCount uint32
}

func (r Report) String() string {
	return fmt.Sprintf("FPS: %.2f | events: %.3f ms | render: %.3f ms | draw: %.3f ms | Heap: %.2f MB | GC: %d",
		r.FPS, ms(r.Average[PhaseEvents]), ms(r.Average[PhaseRender]), ms(r.Average[PhaseDraw]), r.HeapMB, r.GCCount)
}

// Summary holds lifetime totals. They are never reset.
type Summary struct {
	Frames   int
	WallTime time.Duration
	Total    [phaseCount]time.Duration
}

// Average returns the mean time per frame spent in phase, or 0 before the first frame.
func (s Summary) Average(phase Phase) time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.Total[phase] / time.Duration(s.Frames)
}

// FPS returns the lifetime frame rate.
func (s Summary) FPS() float64 {
	if s.WallTime <= 0 {
		return 0
	}
	return float64(s.Frames) / s.WallTime.Seconds()
}

// Profiler accumulates per-phase frame timings. Interval accumulators reset on every report;
// lifetime totals keep growing. It is owned by the frame loop and not safe for concurrent use.
type Profiler struct {
	interval time.Duration

	start      time.Time
	lastReport time.Time

	frames int
	sums   [phaseCount]time.Duration

	lifetime Summary
	memStats runtime.MemStats
}

// NewProfiler creates a Profiler whose first interval starts at start.
//
// Parameters:
//   - start: the time the frame loop started
//   - interval: the wall-clock time between reports; values <= 0 default to 2 seconds
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(start time.Time, interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Profiler{
		interval:   interval,
		start:      start,
		lastReport: start,
	}
}

// Interval returns the configured reporting interval.
func (p *Profiler) Interval() time.Duration {
	return p.interval
}

// Add accumulates d into phase for the current frame.
func (p *Profiler) Add(phase Phase, d time.Duration) {
	p.sums[phase] += d
	p.lifetime.Total[phase] += d
}

// EndFrame counts a finished frame. When the reporting interval has elapsed it returns the
// averaged report for the interval and resets the interval accumulators.
//
// Parameters:
//   - now: the time the frame finished
//
// Returns:
//   - Report: the interval report, valid only when the bool is true
//   - bool: true if the interval elapsed with this frame
func (p *Profiler) EndFrame(now time.Time) (Report, bool) {
	p.frames++
	p.lifetime.Frames++
	p.lifetime.WallTime = now.Sub(p.start)

	elapsed := now.Sub(p.lastReport)
	if elapsed < p.interval {
		return Report{}, false
	}

	report := Report{
		Frames:  p.frames,
		Elapsed: elapsed,
		FPS:     float64(p.frames) / elapsed.Seconds(),
	}
	for _, phase := range Phases {
		report.Average[phase] = p.sums[phase] / time.Duration(p.frames)
	}

	runtime.ReadMemStats(&p.memStats)
	report.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
	report.GCCount = p.memStats.NumGC

	p.frames = 0
	p.sums = [phaseCount]time.Duration{}
	p.lastReport = now
	return report, true
}

// Summary returns the lifetime totals.
func (p *Profiler) Summary() Summary {
	return p.lifetime
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
