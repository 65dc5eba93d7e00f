package melt

import (
	"testing"
	"time"

	"github.com/gekko3d/melt/particles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallBurst() particles.BurstConfig {
	cfg := particles.DefaultBurstConfig()
	cfg.ParticleCount = 50
	cfg.Seed = 7
	return cfg
}

func newParticlesApp(t *testing.T, extra ...Module) *App {
	t.Helper()
	modules := append([]Module{
		LoggingModule{Logger: NewNopLogger()},
		TimeModule{FixedStep: time.Second / 60},
		ParticlesModule{Config: smallBurst()},
	}, extra...)
	app := NewAppBuilder().UseModule(modules...).Build()
	t.Cleanup(app.Close)
	return app
}

func TestParticlesModule_IdleUntilRequested(t *testing.T) {
	app := newParticlesApp(t)
	sys, ok := Resource[particles.System](app)
	require.True(t, ok)
	bf, _ := Resource[BurstFrame](app)

	app.Step()
	assert.Nil(t, sys.Buffer())
	assert.False(t, bf.Stepped)
	assert.Equal(t, 0, bf.Burst)
	assert.True(t, bf.Dirty.Empty())
}

func TestParticlesModule_RunsBurstToCompletion(t *testing.T) {
	app := newParticlesApp(t)
	sys, _ := Resource[particles.System](app)
	req, _ := Resource[BurstRequests](app)
	bf, _ := Resource[BurstFrame](app)

	req.Start()
	assert.Equal(t, 1, req.Pending())

	app.Step()
	assert.Equal(t, 0, req.Pending())
	assert.Equal(t, 1, req.Started())
	assert.True(t, bf.Stepped)
	assert.Equal(t, 1, bf.Burst)
	assert.Equal(t, 50, bf.Live)
	assert.InDelta(t, 1.0/60, bf.Clock, 1e-9)

	destroyed := 0
	for i := 0; i < 600 && sys.Active(); i++ {
		app.Step()
		destroyed += bf.Destroyed
	}
	assert.False(t, sys.Active())
	assert.Equal(t, 50, destroyed)

	app.Step()
	assert.False(t, bf.Stepped, "a finished burst is not stepped again")
}

func TestParticlesModule_RejectsInvalidRequest(t *testing.T) {
	app := newParticlesApp(t)
	sys, _ := Resource[particles.System](app)
	req, _ := Resource[BurstRequests](app)

	bad := smallBurst()
	bad.FadeDuration = -1
	req.StartWith(bad)
	app.Step()

	assert.ErrorIs(t, req.LastError(), particles.ErrInvalidConfig)
	assert.Equal(t, 0, req.Started())
	assert.Nil(t, sys.Buffer())

	req.Start()
	app.Step()
	assert.Equal(t, 1, req.Started())
	assert.Equal(t, 50, sys.Table().Len())
}

func TestParticlesModule_RestartReplacesBurst(t *testing.T) {
	app := newParticlesApp(t)
	sys, _ := Resource[particles.System](app)
	req, _ := Resource[BurstRequests](app)

	req.Start()
	for i := 0; i < 30; i++ {
		app.Step()
	}
	first := sys.Buffer()

	cfg := smallBurst()
	cfg.ParticleCount = 10
	req.StartWith(cfg)
	app.Step()

	assert.NotSame(t, first, sys.Buffer())
	assert.Equal(t, 10, sys.Table().Len())
	assert.Equal(t, 2, req.Started())
	assert.InDelta(t, 1.0/60, sys.Clock(), 1e-9, "the clock restarts with the burst")
}
