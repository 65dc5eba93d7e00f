// Package telemetry records per-frame burst statistics and writes them as CSV.
package telemetry

import (
	"github.com/gekko3d/melt/particles"
	"gonum.org/v1/gonum/stat"
)

// FrameRecord is one simulated frame of a burst.
type FrameRecord struct {
	Frame     int     `csv:"frame"`
	Burst     int     `csv:"burst"`
	Clock     float64 `csv:"clock"`
	Dt        float64 `csv:"dt"`
	Live      int     `csv:"live"`
	Falling   int     `csv:"falling"`
	Fading    int     `csv:"fading"`
	Started   int     `csv:"fade_started"`
	Destroyed int     `csv:"destroyed"`
	Dirty     string  `csv:"dirty"`
}

// NewFrameRecord flattens a simulation step report.
func NewFrameRecord(frame, burst int, dt float64, f particles.Frame) FrameRecord {
	return FrameRecord{
		Frame:     frame,
		Burst:     burst,
		Clock:     f.Clock,
		Dt:        dt,
		Live:      f.Live,
		Falling:   f.Falling,
		Fading:    f.Fading,
		Started:   f.Started,
		Destroyed: f.Destroyed,
		Dirty:     f.Dirty.String(),
	}
}

// WindowStats summarises a run of consecutive frames.
type WindowStats struct {
	FirstFrame    int     `csv:"first_frame"`
	LastFrame     int     `csv:"last_frame"`
	Burst         int     `csv:"burst"`
	Frames        int     `csv:"frames"`
	MeanDt        float64 `csv:"mean_dt"`
	StdDevDt      float64 `csv:"stddev_dt"`
	MeanLive      float64 `csv:"mean_live"`
	FadeStarted   int     `csv:"fade_started"`
	Destroyed     int     `csv:"destroyed"`
	LiveAtEnd     int     `csv:"live_at_end"`
	DestroyedRate float64 `csv:"destroyed_per_sec"`
}

// Collector groups frames into fixed-size windows.
type Collector struct {
	window int
	frames []FrameRecord
	dts    []float64
	lives  []float64
}

func NewCollector(window int) *Collector {
	if window < 1 {
		window = 60
	}
	return &Collector{
		window: window,
		frames: make([]FrameRecord, 0, window),
		dts:    make([]float64, 0, window),
		lives:  make([]float64, 0, window),
	}
}

// Record adds a frame and returns the windows it closed: the previous burst's window when r starts
// a new burst, then the current window once it holds Window frames.
func (c *Collector) Record(r FrameRecord) []WindowStats {
	var out []WindowStats
	if len(c.frames) > 0 && c.frames[0].Burst != r.Burst {
		if ws, ok := c.Flush(); ok {
			out = append(out, ws)
		}
	}

	c.frames = append(c.frames, r)
	c.dts = append(c.dts, r.Dt)
	c.lives = append(c.lives, float64(r.Live))

	if len(c.frames) >= c.window {
		if ws, ok := c.Flush(); ok {
			out = append(out, ws)
		}
	}
	return out
}

// Flush summarises whatever has been recorded so far.
func (c *Collector) Flush() (WindowStats, bool) {
	if len(c.frames) == 0 {
		return WindowStats{}, false
	}
	first, last := c.frames[0], c.frames[len(c.frames)-1]
	ws := WindowStats{
		FirstFrame: first.Frame,
		LastFrame:  last.Frame,
		Burst:      first.Burst,
		Frames:     len(c.frames),
		MeanLive:   stat.Mean(c.lives, nil),
		LiveAtEnd:  last.Live,
	}
	ws.MeanDt, ws.StdDevDt = stat.MeanStdDev(c.dts, nil)
	if len(c.dts) < 2 {
		ws.StdDevDt = 0
	}

	span := 0.0
	for _, f := range c.frames {
		ws.FadeStarted += f.Started
		ws.Destroyed += f.Destroyed
		span += f.Dt
	}
	if span > 0 {
		ws.DestroyedRate = float64(ws.Destroyed) / span
	}

	c.frames = c.frames[:0]
	c.dts = c.dts[:0]
	c.lives = c.lives[:0]
	return ws, true
}

func (c *Collector) Pending() int { return len(c.frames) }
