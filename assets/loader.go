package assets

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/gekko3d/melt/anim"
	"github.com/google/uuid"
)

type AssetID string

func newAssetID() AssetID {
	return AssetID(uuid.NewString())
}

// Model is a loaded scene element: its voxel data and the animation clips it can play.
type Model struct {
	ID     AssetID
	Path   string
	Voxels *VoxFile
	Clips  []anim.Clip
}

type Result struct {
	Model *Model
	Err   error
}

// Observer receives loading progress. Every callback is optional. Callbacks run on loader
// goroutines and must not block.
type Observer struct {
	OnProgress func(loaded, total int)
	OnComplete func()
	OnError    func(path string, err error)
}

// Loader loads models from fsys in the background. Progress is counted across every request made
// on the loader; OnComplete fires each time the outstanding count drops to zero.
type Loader struct {
	fsys     fs.FS
	observer Observer

	mu     sync.Mutex
	total  int
	loaded int
	wg     sync.WaitGroup
}

func NewLoader(fsys fs.FS, observer Observer) *Loader {
	return &Loader{fsys: fsys, observer: observer}
}

// LoadModel starts loading path and returns a channel that receives exactly one Result.
func (l *Loader) LoadModel(ctx context.Context, path string, clips ...anim.Clip) <-chan Result {
	out := make(chan Result, 1)

	l.mu.Lock()
	l.total++
	l.mu.Unlock()
	l.wg.Add(1)

	go func() {
		defer l.wg.Done()
		model, err := l.load(ctx, path, clips)
		if err != nil && l.observer.OnError != nil {
			l.observer.OnError(path, err)
		}
		l.finish()
		out <- Result{Model: model, Err: err}
		close(out)
	}()
	return out
}

func (l *Loader) load(ctx context.Context, path string, clips []anim.Clip) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := l.fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	vf, err := ParseVox(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Model{
		ID:     newAssetID(),
		Path:   path,
		Voxels: vf,
		Clips:  append([]anim.Clip(nil), clips...),
	}, nil
}

func (l *Loader) finish() {
	l.mu.Lock()
	l.loaded++
	loaded, total := l.loaded, l.total
	l.mu.Unlock()

	if l.observer.OnProgress != nil {
		l.observer.OnProgress(loaded, total)
	}
	if loaded == total && l.observer.OnComplete != nil {
		l.observer.OnComplete()
	}
}

// Progress returns how many requests have settled out of how many were made.
func (l *Loader) Progress() (loaded, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded, l.total
}

// Wait blocks until every request made so far has settled.
func (l *Loader) Wait() {
	l.wg.Wait()
}
