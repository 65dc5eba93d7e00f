package particles

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidConfig is wrapped by every BurstConfig validation failure.
var ErrInvalidConfig = errors.New("invalid burst config")

// Color is a packed 0xRRGGBB value.
type Color uint32

// RGB returns the color as normalized floats.
func (c Color) RGB() mgl32.Vec3 {
	return mgl32.Vec3{
		float32((c>>16)&0xff) / 255.0,
		float32((c>>8)&0xff) / 255.0,
		float32(c&0xff) / 255.0,
	}
}

// BurstConfig is fixed for the lifetime of one burst.
type BurstConfig struct {
	ParticleCount int     `yaml:"particle_count"`
	SpawnHeight   float32 `yaml:"spawn_height"`
	SpawnRadius   float32 `yaml:"spawn_radius"`
	Gravity       float32 `yaml:"gravity"` // units/s^2, pulls toward -Y
	BaseSize      float32 `yaml:"base_size"`
	FloorY        float32 `yaml:"floor_y"`
	FadeDuration  float32 `yaml:"fade_duration"` // seconds
	Color         Color   `yaml:"color"`

	// Seed drives spawn sampling. Zero seeds from the wall clock.
	Seed uint64 `yaml:"seed"`
}

func DefaultBurstConfig() BurstConfig {
	return BurstConfig{
		ParticleCount: 1000,
		SpawnHeight:   2,
		SpawnRadius:   1,
		Gravity:       2,
		BaseSize:      0.5,
		FloorY:        0,
		FadeDuration:  1,
		Color:         0x88ffff,
	}
}

// Validate rejects values that would make a burst meaningless. Gravity and heights may be any
// finite number.
func (c BurstConfig) Validate() error {
	if c.ParticleCount < 0 {
		return fmt.Errorf("%w: particle_count %d is negative", ErrInvalidConfig, c.ParticleCount)
	}
	fields := []struct {
		name   string
		v      float32
		nonNeg bool
	}{
		{"spawn_height", c.SpawnHeight, false},
		{"spawn_radius", c.SpawnRadius, true},
		{"gravity", c.Gravity, false},
		{"base_size", c.BaseSize, true},
		{"floor_y", c.FloorY, false},
		{"fade_duration", c.FadeDuration, true},
	}
	for _, f := range fields {
		v := float64(f.v)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidConfig, f.name)
		}
		if f.nonNeg && v < 0 {
			return fmt.Errorf("%w: %s %g is negative", ErrInvalidConfig, f.name, v)
		}
	}
	return nil
}
