package main

import (
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/gekko3d/melt"
	"github.com/gekko3d/melt/assets"
	"github.com/gekko3d/melt/config"
	"github.com/gekko3d/melt/render"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to config YAML (empty = use defaults)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	telemetryDir := flag.String("telemetry-dir", "", "Directory for CSV telemetry (overrides config)")
	headless := flag.Bool("headless", false, "Run the vignette without a window at a fixed 60 Hz step")
	maxFrames := flag.Int("frames", 0, "Stop after N frames (0 = until the vignette ends)")
	seed := flag.Uint64("seed", 0, "Burst RNG seed (0 = use config)")
	hold := flag.Bool("hold", false, "Keep the window open after the vignette ends")
	watch := flag.Bool("watch", true, "Reload the config file when it changes")
	flag.Parse()

	logger := melt.NewDefaultLogger("meltdown", *debug)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}
	if *telemetryDir != "" {
		cfg.Telemetry.Dir = *telemetryDir
	}
	if *seed != 0 {
		cfg.Burst.Seed = *seed
	}

	timeMod := melt.TimeModule{
		FixedStep: seconds(cfg.Time.FixedStep),
		MaxDelta:  seconds(cfg.Time.MaxDelta),
	}
	if *headless {
		timeMod.FixedStep = time.Second / 60
	}

	builder := melt.NewAppBuilder().
		UseStates(melt.StateLoading, melt.StateFinished).
		UseModule(
			melt.LoggingModule{Logger: logger, Debug: *debug || cfg.Debug},
			timeMod,
			melt.AssetsModule{
				Dir:    cfg.AssetsDir,
				Models: melt.ModelSpecs(cfg.Models),
				Observer: assets.Observer{
					OnProgress: func(loaded, total int) {
						logger.Infof("loading... %.2f%%", float64(loaded)/float64(total)*100)
					},
				},
			},
			melt.ParticlesModule{Config: cfg.Burst},
			melt.VignetteModule{
				Scene:     cfg.Scene,
				Models:    cfg.Models,
				Story:     cfg.Story,
				Aspect:    float32(cfg.Window.Width) / float32(cfg.Window.Height),
				OnCaption: func(text string) { logger.Infof("%s", text) },
				Hold:      *hold && !*headless,
			},
			melt.TelemetryModule{Dir: cfg.Telemetry.Dir, Window: cfg.Telemetry.Window},
		)

	if *watch && *configPath != "" {
		builder.UseModule(melt.HotReloadModule{Path: *configPath})
	}

	if *headless {
		builder.UseModule(melt.RenderModule{Device: render.NewHostDevice()})
	} else {
		builder.UseModule(melt.ClientModule{
			WindowWidth:  cfg.Window.Width,
			WindowHeight: cfg.Window.Height,
			WindowTitle:  cfg.Window.Title,
			PointScale:   cfg.Render.PointScale,
		})
	}

	app := builder.Build()
	defer app.Close()

	for app.Step() {
		if *maxFrames > 0 && app.Frame() >= uint64(*maxFrames) {
			logger.Infof("stopping after %d frames", app.Frame())
			break
		}
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
