package melt

import (
	"github.com/gekko3d/melt/particles"
	"github.com/gekko3d/melt/render"
)

// ParticleBinding is the GPU mirror of the particle buffer, synced once per frame in PreRender,
// after every Update-stage system has touched the particles.
type ParticleBinding struct {
	*render.Binding
	LastDirty particles.AttributeSet
	Err       error
}

// RenderModule keeps the particle buffer mirrored on Device. Drawing is left to the client.
type RenderModule struct {
	Device render.Device
}

func (mod RenderModule) Install(app *App, cmd *Commands) {
	if mod.Device == nil {
		panic("RenderModule requires a Device")
	}
	color := particles.DefaultBurstConfig().Color
	if req, ok := Resource[BurstRequests](app); ok {
		color = req.Config.Color
	}
	pb := &ParticleBinding{Binding: render.NewBinding(mod.Device, color)}

	cmd.AddResources(pb)
	cmd.OnExit(pb.Release)
	cmd.UseSystem(System(particleSyncSystem).InStage(PreRender).RunAlways())
}

func particleSyncSystem(sys *particles.System, pb *ParticleBinding, cmd *Commands) {
	if sys.Buffer() == nil {
		return
	}
	pb.SetColor(sys.Config().Color)

	dirty, err := pb.Sync(sys.Buffer())
	pb.LastDirty = dirty
	if err != nil {
		if pb.Err == nil {
			cmd.Logger().Errorf("particle upload failed: %v", err)
		}
		pb.Err = err
		return
	}
	pb.Err = nil
}
