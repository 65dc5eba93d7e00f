package melt

import (
	"context"
	"io/fs"
	"os"

	"github.com/gekko3d/melt/anim"
	"github.com/gekko3d/melt/assets"
)

// ModelSpec names a model file and the clips it can play.
type ModelSpec struct {
	Name  string
	Path  string
	Clips []anim.Clip
}

// AssetServer tracks named model requests. Results are collected on the main loop so systems never
// see a half-loaded model.
type AssetServer struct {
	loader  *assets.Loader
	ctx     context.Context
	cancel  context.CancelFunc
	pending map[string]<-chan assets.Result
	models  map[string]*assets.Model
	failed  map[string]error
}

func newAssetServer(fsys fs.FS, observer assets.Observer) *AssetServer {
	ctx, cancel := context.WithCancel(context.Background())
	return &AssetServer{
		loader:  assets.NewLoader(fsys, observer),
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[string]<-chan assets.Result),
		models:  make(map[string]*assets.Model),
		failed:  make(map[string]error),
	}
}

// Load starts loading spec in the background. Reloading a name replaces the previous result.
func (s *AssetServer) Load(spec ModelSpec) {
	delete(s.models, spec.Name)
	delete(s.failed, spec.Name)
	s.pending[spec.Name] = s.loader.LoadModel(s.ctx, spec.Path, spec.Clips...)
}

// Model returns the loaded model called name.
func (s *AssetServer) Model(name string) (*assets.Model, bool) {
	m, ok := s.models[name]
	return m, ok
}

func (s *AssetServer) Err(name string) error { return s.failed[name] }

// Settled reports whether every request has either loaded or failed.
func (s *AssetServer) Settled() bool { return len(s.pending) == 0 }

func (s *AssetServer) Progress() (loaded, total int) { return s.loader.Progress() }

// poll moves finished requests out of pending without blocking.
func (s *AssetServer) poll(log Logger) {
	for name, ch := range s.pending {
		select {
		case res := <-ch:
			delete(s.pending, name)
			if res.Err != nil {
				s.failed[name] = res.Err
				log.Errorf("model %q failed to load: %v", name, res.Err)
				continue
			}
			s.models[name] = res.Model
			log.Debugf("model %q loaded: %d voxels, %d clips", name, res.Model.Voxels.VoxelCount(), len(res.Model.Clips))
		default:
		}
	}
}

func (s *AssetServer) close() {
	s.cancel()
	s.loader.Wait()
}

// AssetsModule loads Models from Dir (or FS) at startup. Progress and failures are reported to
// Observer; a failed model is logged and simply left out of the scene.
type AssetsModule struct {
	Dir      string
	FS       fs.FS
	Models   []ModelSpec
	Observer assets.Observer
}

func (mod AssetsModule) Install(app *App, cmd *Commands) {
	fsys := mod.FS
	if fsys == nil {
		fsys = os.DirFS(mod.Dir)
	}
	server := newAssetServer(fsys, mod.Observer)
	for _, spec := range mod.Models {
		server.Load(spec)
	}

	cmd.AddResources(server)
	cmd.OnExit(server.close)
	cmd.UseSystem(System(assetsPollSystem).InStage(PreUpdate).RunAlways())
}

func assetsPollSystem(server *AssetServer, cmd *Commands) {
	if server.Settled() {
		return
	}
	server.poll(cmd.Logger())
}
