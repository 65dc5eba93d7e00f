package melt

import (
	"time"
)

// Time is the frame clock. Dt is what the simulation sees: either the fixed step or the wall-clock
// delta clamped to MaxDelta.
type Time struct {
	Time    time.Time
	Dt      time.Duration
	Elapsed time.Duration
	Frame   uint64

	FixedStep time.Duration
	MaxDelta  time.Duration

	now func() time.Time
}

// Seconds is Dt in seconds.
func (t *Time) Seconds() float64 { return t.Dt.Seconds() }

type TimeModule struct {
	FixedStep time.Duration // zero uses the wall clock
	MaxDelta  time.Duration // zero disables clamping
	Now       func() time.Time
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	now := mod.Now
	if now == nil {
		now = time.Now
	}
	cmd.AddResources(&Time{
		Time:      now(),
		FixedStep: mod.FixedStep,
		MaxDelta:  mod.MaxDelta,
		now:       now,
	})
	cmd.UseSystem(System(timeSystem).InStage(Prelude).RunAlways())
}

func timeSystem(timeResource *Time) {
	now := timeResource.now()

	dt := now.Sub(timeResource.Time)
	if timeResource.FixedStep > 0 {
		dt = timeResource.FixedStep
	} else if timeResource.MaxDelta > 0 && dt > timeResource.MaxDelta {
		dt = timeResource.MaxDelta
	}
	if dt < 0 {
		dt = 0
	}

	timeResource.Dt = dt
	timeResource.Time = now
	timeResource.Elapsed += dt
	timeResource.Frame++
}
