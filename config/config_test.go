package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gekko3d/melt/particles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func TestDefaults_MatchBurstDefaults(t *testing.T) {
	cfg := Defaults()
	want := particles.DefaultBurstConfig()
	assert.Equal(t, want, cfg.Burst)
	assert.NoError(t, cfg.Validate())

	cat, ok := cfg.Model("cat")
	require.True(t, ok)
	assert.Len(t, cat.Clips, 3)
	assert.Equal(t, "run", cat.Clips[1].Name)
	assert.Len(t, cfg.Story.Captions, 4)
	assert.Equal(t, float32(9), cfg.Story.Captions[3].At)
	assert.Equal(t, uint32(0x87ceeb), cfg.Scene.Background)
}

func TestLoad_EmptyPathIsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_PartialOverridesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "melt.yaml")
	writeFile(t, path, `
burst:
  particle_count: 50
  fade_duration: 0
  color: 0xff0000
  sparkle: true
unknown_section:
  x: 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Burst.ParticleCount)
	assert.Equal(t, float32(0), cfg.Burst.FadeDuration)
	assert.Equal(t, particles.Color(0xff0000), cfg.Burst.Color)
	assert.Equal(t, float32(2), cfg.Burst.Gravity)
	assert.Equal(t, float32(2), cfg.Burst.SpawnHeight)
	assert.Equal(t, 1280, cfg.Window.Width)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "burst: [not, a, map")
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "burst:\n  fade_duration: -1\nwindow:\n  width: 0\n")
	_, err = Load(invalid)
	assert.ErrorIs(t, err, particles.ErrInvalidConfig)
	assert.ErrorContains(t, err, "window size")
}

func TestValidate_Models(t *testing.T) {
	cfg := Defaults()
	cfg.Models = append(cfg.Models, ModelConfig{Name: "cat", Path: "models/cat2.vox"}, ModelConfig{Name: "dog"})
	err := cfg.Validate()
	assert.ErrorContains(t, err, `"cat" listed twice`)
	assert.ErrorContains(t, err, `"dog" needs a name and a path`)
}

func TestWriteYAML_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Defaults()
	cfg.Burst.ParticleCount = 7
	require.NoError(t, cfg.WriteYAML(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)

	shrimp, ok := back.Model("shrimp")
	require.True(t, ok)
	assert.Nil(t, shrimp.Clips, "models without clips stay without clips")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "clips: []")
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "melt.yaml")
	writeFile(t, path, "burst:\n  particle_count: 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloads, err := Watch(ctx, path)
	require.NoError(t, err)

	// Unrelated files in the same directory are ignored.
	writeFile(t, filepath.Join(dir, "other.yaml"), "x: 1\n")
	writeFile(t, path, "burst:\n  particle_count: 20\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-reloads:
			if r.Err != nil || r.Config.Burst.ParticleCount != 20 {
				continue
			}
			cancel()
			for range reloads {
			}
			return
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestWatch_MissingFile(t *testing.T) {
	_, err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
