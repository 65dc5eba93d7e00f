// Package config loads the vignette configuration from YAML layered over embedded defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/gekko3d/melt/anim"
	"github.com/gekko3d/melt/particles"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Debug     bool                  `yaml:"debug"`
	AssetsDir string                `yaml:"assets_dir"`
	Window    WindowConfig          `yaml:"window"`
	Time      TimeConfig            `yaml:"time"`
	Burst     particles.BurstConfig `yaml:"burst"`
	Render    RenderConfig          `yaml:"render"`
	Scene     SceneConfig           `yaml:"scene"`
	Models    []ModelConfig         `yaml:"models"`
	Story     StoryConfig           `yaml:"story"`
	Telemetry TelemetryConfig       `yaml:"telemetry"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type TimeConfig struct {
	FixedStep float64 `yaml:"fixed_step"`
	MaxDelta  float64 `yaml:"max_delta"`
}

type RenderConfig struct {
	PointScale float32 `yaml:"point_scale"` // world units per unit of particle size
}

type SceneConfig struct {
	Background     uint32     `yaml:"background"`
	FogNear        float32    `yaml:"fog_near"`
	FogFar         float32    `yaml:"fog_far"`
	CameraPosition [3]float32 `yaml:"camera_position"`
	CameraTarget   [3]float32 `yaml:"camera_target"`
}

// ModelConfig places one model in the scene. RotationY is in degrees.
type ModelConfig struct {
	Name      string      `yaml:"name"`
	Path      string      `yaml:"path"`
	Position  [3]float32  `yaml:"position"`
	Scale     float32     `yaml:"scale"`
	RotationY float32     `yaml:"rotation_y"`
	Clips     []anim.Clip `yaml:"clips,omitempty"`
}

type Caption struct {
	At   float32 `yaml:"at"`
	Text string  `yaml:"text"`
}

type StoryConfig struct {
	ShrimpStartX  float32   `yaml:"shrimp_start_x"`
	CatWalkTo     float32   `yaml:"cat_walk_to"`
	ShrimpSlideTo float32   `yaml:"shrimp_slide_to"`
	Crossfade     float32   `yaml:"crossfade"`
	Captions      []Caption `yaml:"captions"`
}

type TelemetryConfig struct {
	Dir    string `yaml:"dir"`
	Window int    `yaml:"window"`
}

// Defaults returns the embedded configuration.
func Defaults() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads path over the embedded defaults. Keys missing from the file keep their default and
// unknown keys are ignored. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse unmarshals data into cfg, overwriting only the fields present in data, then validates.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	if err := c.Burst.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Time.FixedStep < 0 || c.Time.MaxDelta < 0 {
		errs = append(errs, errors.New("time steps must not be negative"))
	}
	if c.Render.PointScale <= 0 {
		errs = append(errs, fmt.Errorf("render.point_scale %v must be positive", c.Render.PointScale))
	}
	seen := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if m.Name == "" || m.Path == "" {
			errs = append(errs, fmt.Errorf("model %q needs a name and a path", m.Name))
		}
		if seen[m.Name] {
			errs = append(errs, fmt.Errorf("model %q listed twice", m.Name))
		}
		seen[m.Name] = true
	}
	return errors.Join(errs...)
}

// Model returns the entry named name.
func (c *Config) Model(name string) (ModelConfig, bool) {
	for _, m := range c.Models {
		if m.Name == name {
			return m, true
		}
	}
	return ModelConfig{}, false
}

// WriteYAML saves the configuration, e.g. next to telemetry output.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
