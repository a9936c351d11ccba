package profiler

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportsOnInterval(t *testing.T) {
	start := time.Unix(0, 0)
	p := NewProfiler(start, 2*time.Second)

	now := start
	for i := 0; i < 3; i++ {
		p.Add(PhaseEvents, time.Millisecond)
		p.Add(PhaseRender, 4*time.Millisecond)
		p.Add(PhaseDraw, 2*time.Millisecond)
		now = now.Add(500 * time.Millisecond)
		_, ok := p.EndFrame(now)
		assert.False(t, ok)
	}

	p.Add(PhaseEvents, 5*time.Millisecond)
	p.Add(PhaseRender, 4*time.Millisecond)
	p.Add(PhaseDraw, 2*time.Millisecond)
	now = now.Add(500 * time.Millisecond)
	report, ok := p.EndFrame(now)
	require.True(t, ok)

	assert.Equal(t, 4, report.Frames)
	assert.Equal(t, 2*time.Second, report.Elapsed)
	assert.InDelta(t, 2.0, report.FPS, 1e-9)
	assert.Equal(t, 2*time.Millisecond, report.Average[PhaseEvents])
	assert.Equal(t, 4*time.Millisecond, report.Average[PhaseRender])
	assert.Equal(t, 2*time.Millisecond, report.Average[PhaseDraw])
	assert.True(t, strings.HasPrefix(report.String(), "FPS: 2.00 | events: 2.000 ms | render: 4.000 ms | draw: 2.000 ms"))
}

func TestIntervalResetsButLifetimeAccumulates(t *testing.T) {
	start := time.Unix(100, 0)
	p := NewProfiler(start, time.Second)

	p.Add(PhaseRender, 10*time.Millisecond)
	_, ok := p.EndFrame(start.Add(time.Second))
	require.True(t, ok)

	p.Add(PhaseRender, 30*time.Millisecond)
	report, ok := p.EndFrame(start.Add(2 * time.Second))
	require.True(t, ok)
	assert.Equal(t, 1, report.Frames)
	assert.Equal(t, 30*time.Millisecond, report.Average[PhaseRender])

	summary := p.Summary()
	assert.Equal(t, 2, summary.Frames)
	assert.Equal(t, 2*time.Second, summary.WallTime)
	assert.Equal(t, 40*time.Millisecond, summary.Total[PhaseRender])
	assert.Equal(t, 20*time.Millisecond, summary.Average(PhaseRender))
	assert.InDelta(t, 1.0, summary.FPS(), 1e-9)
}

func TestDefaultsAndEmptySummary(t *testing.T) {
	p := NewProfiler(time.Now(), 0)
	assert.Equal(t, 2*time.Second, p.Interval())

	summary := p.Summary()
	assert.Zero(t, summary.Average(PhaseDraw))
	assert.Zero(t, summary.FPS())
}

func TestPhaseNames(t *testing.T) {
	names := make([]string, len(Phases))
	for i, phase := range Phases {
		names[i] = phase.String()
	}
	assert.Equal(t, []string{"events", "render", "draw"}, names)
	assert.Equal(t, "phase(7)", Phase(7).String())
}
