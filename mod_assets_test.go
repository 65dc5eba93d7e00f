package melt

import (
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/gekko3d/melt/anim"
	"github.com/gekko3d/melt/assets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetsModule_LoadsAndReportsFailures(t *testing.T) {
	var completed atomic.Int32
	fsys := fstest.MapFS{
		"cat.vox":    {Data: cubeVox()},
		"broken.vox": {Data: []byte("not a vox file")},
	}
	app := NewAppBuilder().UseModule(AssetsModule{
		FS: fsys,
		Models: []ModelSpec{
			{Name: "cat", Path: "cat.vox", Clips: []anim.Clip{{Name: "idle", Duration: 1}}},
			{Name: "broken", Path: "broken.vox"},
			{Name: "missing", Path: "missing.vox"},
		},
		Observer: assets.Observer{OnComplete: func() { completed.Add(1) }},
	}).Build()
	t.Cleanup(app.Close)

	server, ok := Resource[AssetServer](app)
	require.True(t, ok)

	for i := 0; i < 100000 && !server.Settled(); i++ {
		app.Step()
	}
	require.True(t, server.Settled())

	cat, ok := server.Model("cat")
	require.True(t, ok)
	assert.Equal(t, 1, cat.Voxels.VoxelCount())
	assert.Equal(t, "idle", cat.Clips[0].Name)
	assert.NotEmpty(t, cat.ID)

	assert.ErrorIs(t, server.Err("broken"), assets.ErrNotVox)
	assert.Error(t, server.Err("missing"))
	_, ok = server.Model("missing")
	assert.False(t, ok)

	loaded, total := server.Progress()
	assert.Equal(t, 3, total)
	assert.Equal(t, 3, loaded)
	assert.Positive(t, completed.Load())
}

func TestAssetServer_ReloadReplacesResult(t *testing.T) {
	fsys := fstest.MapFS{"a.vox": {Data: cubeVox()}}
	app := NewAppBuilder().UseModule(AssetsModule{FS: fsys}).Build()
	t.Cleanup(app.Close)
	server, _ := Resource[AssetServer](app)

	server.Load(ModelSpec{Name: "a", Path: "a.vox"})
	for i := 0; i < 100000 && !server.Settled(); i++ {
		app.Step()
	}
	first, ok := server.Model("a")
	require.True(t, ok)

	server.Load(ModelSpec{Name: "a", Path: "a.vox"})
	_, ok = server.Model("a")
	assert.False(t, ok, "a pending reload hides the old model")

	for i := 0; i < 100000 && !server.Settled(); i++ {
		app.Step()
	}
	second, ok := server.Model("a")
	require.True(t, ok)
	assert.NotEqual(t, first.ID, second.ID)
}
