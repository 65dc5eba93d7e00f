package melt

import (
	"testing"

	"github.com/gekko3d/melt/particles"
	"github.com/gekko3d/melt/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderModule_SyncsOncePerFrame(t *testing.T) {
	host := render.NewHostDevice()
	app := newParticlesApp(t, RenderModule{Device: host})
	pb, ok := Resource[ParticleBinding](app)
	require.True(t, ok)
	req, _ := Resource[BurstRequests](app)

	app.Step()
	assert.Equal(t, 0, host.Created, "nothing to upload before a burst")

	req.Start()
	app.Step()
	require.NoError(t, pb.Err)
	assert.Equal(t, particles.AllAttributes, pb.LastDirty)
	assert.Equal(t, particles.AttributeCount, host.Created)
	assert.Equal(t, uint32(50), pb.InstanceCount())

	app.Step()
	assert.Equal(t, particles.SetOf(particles.AttrPosition, particles.AttrAlpha), pb.LastDirty)
	assert.Equal(t, 2, pb.Uploads(particles.AttrPosition))
	assert.Equal(t, 1, pb.Uploads(particles.AttrVelocity))
	assert.Equal(t, 1, pb.Allocations())

	pos := pb.Buffer(particles.AttrPosition).(*render.HostBuffer)
	assert.Equal(t, "Melt position", pos.Label)
}

func TestRenderModule_TracksBurstColor(t *testing.T) {
	host := render.NewHostDevice()
	app := newParticlesApp(t, RenderModule{Device: host})
	pb, _ := Resource[ParticleBinding](app)
	req, _ := Resource[BurstRequests](app)

	cfg := smallBurst()
	cfg.Color = 0xff0000
	req.StartWith(cfg)
	app.Step()

	assert.Equal(t, particles.Color(0xff0000).RGB(), pb.Color())
}

func TestRenderModule_ReleasesOnExit(t *testing.T) {
	host := render.NewHostDevice()
	app := NewAppBuilder().UseModule(
		TimeModule{FixedStep: 1},
		ParticlesModule{Config: smallBurst()},
		RenderModule{Device: host},
	).Build()
	req, _ := Resource[BurstRequests](app)
	pb, _ := Resource[ParticleBinding](app)

	req.Start()
	app.Step()
	buf := pb.Buffer(particles.AttrSize).(*render.HostBuffer)
	require.False(t, buf.Released())

	app.Close()
	assert.True(t, buf.Released())
}

func TestRenderModule_RequiresDevice(t *testing.T) {
	assert.Panics(t, func() {
		NewAppBuilder().UseModule(RenderModule{}).Build()
	})
}
