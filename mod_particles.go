package melt

import (
	"github.com/gekko3d/melt/particles"
)

// BurstRequests queues StartBurst calls so any system can trigger a burst. The particle system
// applies them at the start of its next step.
type BurstRequests struct {
	// Config is used by Start when no explicit config is given.
	Config particles.BurstConfig

	pending []particles.BurstConfig
	started int
	lastErr error
}

// Start queues a burst with the current Config.
func (r *BurstRequests) Start() {
	r.pending = append(r.pending, r.Config)
}

func (r *BurstRequests) StartWith(cfg particles.BurstConfig) {
	r.pending = append(r.pending, cfg)
}

func (r *BurstRequests) Pending() int { return len(r.pending) }

// Started counts bursts that actually began.
func (r *BurstRequests) Started() int { return r.started }

// LastError is the most recent StartBurst failure, if any.
func (r *BurstRequests) LastError() error { return r.lastErr }

// BurstFrame is the last step's report, shared with render and telemetry systems.
type BurstFrame struct {
	particles.Frame
	Dt      float64
	Burst   int  // 1-based number of the burst this frame belongs to; 0 before the first
	Stepped bool // false when Advance had nothing to do
}

// ParticlesModule owns the melt burst. Its system advances the simulation exactly once per frame
// in the Update stage; render systems read the buffer later in the same frame.
type ParticlesModule struct {
	Config particles.BurstConfig
}

func (mod ParticlesModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(
		particles.NewSystem(),
		&BurstRequests{Config: mod.Config},
		&BurstFrame{},
	)
	cmd.UseSystem(System(particlesSystem).InStage(Update).RunAlways())
}

func particlesSystem(t *Time, sys *particles.System, req *BurstRequests, bf *BurstFrame, cmd *Commands) {
	log := cmd.Logger()

	for _, cfg := range req.pending {
		if err := sys.StartBurst(cfg); err != nil {
			req.lastErr = err
			log.Errorf("melt burst rejected: %v", err)
			continue
		}
		req.started++
		log.Infof("melt burst %d started: %d particles", req.started, cfg.ParticleCount)
	}
	req.pending = req.pending[:0]

	wasActive := sys.Active()
	dt := t.Seconds()
	f := sys.Advance(dt)

	*bf = BurstFrame{Frame: f, Dt: dt, Burst: req.started, Stepped: wasActive}

	if f.Started > 0 {
		log.Debugf("melt burst %d: %d particles reached the floor", req.started, f.Started)
	}
	if wasActive && !sys.Active() {
		log.Infof("melt burst %d finished at %.2fs", req.started, f.Clock)
	}
}
