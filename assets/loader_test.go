package assets

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/gekko3d/melt/anim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	progress [][2]int
	complete int
	errors   []string
}

func (r *recorder) observer() Observer {
	return Observer{
		OnProgress: func(loaded, total int) {
			r.mu.Lock()
			r.progress = append(r.progress, [2]int{loaded, total})
			r.mu.Unlock()
		},
		OnComplete: func() {
			r.mu.Lock()
			r.complete++
			r.mu.Unlock()
		},
		OnError: func(path string, err error) {
			r.mu.Lock()
			r.errors = append(r.errors, path)
			r.mu.Unlock()
		},
	}
}

func modelFS() fstest.MapFS {
	return fstest.MapFS{
		"models/shrimp.vox":        {Data: shrimpVox()},
		"models/frozen_shrimp.vox": {Data: shrimpVox()},
		"models/broken.vox":        {Data: []byte("not a model")},
	}
}

func TestLoader_LoadsModelWithClips(t *testing.T) {
	rec := &recorder{}
	l := NewLoader(modelFS(), rec.observer())

	res := <-l.LoadModel(context.Background(), "models/shrimp.vox", anim.Clip{Name: "idle", Duration: 1})
	require.NoError(t, res.Err)
	require.NotNil(t, res.Model)
	assert.Equal(t, "models/shrimp.vox", res.Model.Path)
	assert.NotEmpty(t, res.Model.ID)
	assert.Equal(t, 3, res.Model.Voxels.VoxelCount())
	assert.Equal(t, []anim.Clip{{Name: "idle", Duration: 1}}, res.Model.Clips)

	l.Wait()
	assert.Equal(t, [][2]int{{1, 1}}, rec.progress)
	assert.Equal(t, 1, rec.complete)
	assert.Empty(t, rec.errors)
}

func TestLoader_FailuresAreLocalToTheRequest(t *testing.T) {
	rec := &recorder{}
	l := NewLoader(modelFS(), rec.observer())
	ctx := context.Background()

	good := l.LoadModel(ctx, "models/shrimp.vox")
	broken := l.LoadModel(ctx, "models/broken.vox")
	missing := l.LoadModel(ctx, "models/cat.vox")

	assert.NoError(t, (<-good).Err)
	b := <-broken
	assert.ErrorIs(t, b.Err, ErrNotVox)
	assert.Nil(t, b.Model)
	assert.Error(t, (<-missing).Err)

	l.Wait()
	loaded, total := l.Progress()
	assert.Equal(t, 3, loaded)
	assert.Equal(t, 3, total)
	assert.ElementsMatch(t, []string{"models/broken.vox", "models/cat.vox"}, rec.errors)
	assert.GreaterOrEqual(t, rec.complete, 1)
	assert.Equal(t, 3, rec.progress[len(rec.progress)-1][0])
}

func TestLoader_DistinctIDs(t *testing.T) {
	l := NewLoader(modelFS(), Observer{})
	a := <-l.LoadModel(context.Background(), "models/shrimp.vox")
	b := <-l.LoadModel(context.Background(), "models/frozen_shrimp.vox")
	require.NoError(t, a.Err)
	require.NoError(t, b.Err)
	assert.NotEqual(t, a.Model.ID, b.Model.ID)
}

func TestLoader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewLoader(modelFS(), Observer{})
	res := <-l.LoadModel(ctx, "models/shrimp.vox")
	assert.ErrorIs(t, res.Err, context.Canceled)
}
