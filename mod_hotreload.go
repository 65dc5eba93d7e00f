package melt

import (
	"context"

	"github.com/gekko3d/melt/config"
	"github.com/gekko3d/melt/particles"
)

// ConfigReloads receives reloaded configuration from a file watcher.
type ConfigReloads struct {
	ch      <-chan config.Reload
	Applied int
}

// HotReloadModule watches Path. A valid new config replaces the burst settings and, if a burst has
// already played, restarts it so the change is visible. Invalid files are logged and ignored.
type HotReloadModule struct {
	Path string
}

func (mod HotReloadModule) Install(app *App, cmd *Commands) {
	if mod.Path == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := config.Watch(ctx, mod.Path)
	if err != nil {
		cancel()
		app.Logger().Warnf("config hot reload disabled: %v", err)
		return
	}
	app.Logger().Infof("watching %s for changes", mod.Path)
	installReloads(cmd, ch)
	cmd.OnExit(cancel)
}

func installReloads(cmd *Commands, ch <-chan config.Reload) {
	cmd.AddResources(&ConfigReloads{ch: ch})
	cmd.UseSystem(System(configReloadSystem).InStage(PreUpdate).RunAlways())
}

func configReloadSystem(r *ConfigReloads, req *BurstRequests, sys *particles.System, cmd *Commands) {
	log := cmd.Logger()
	for {
		select {
		case reload, ok := <-r.ch:
			if !ok {
				r.ch = nil
				return
			}
			if reload.Err != nil {
				log.Warnf("config reload ignored: %v", reload.Err)
				continue
			}
			req.Config = reload.Config.Burst
			log.SetDebug(reload.Config.Debug)
			r.Applied++
			log.Infof("config reloaded: %d particles, fade %.2fs", req.Config.ParticleCount, req.Config.FadeDuration)
			if sys.Buffer() != nil {
				req.Start()
			}
		default:
			return
		}
	}
}
