package melt

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/gekko3d/melt/render"
	"github.com/gekko3d/melt/scene"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// ClientModule opens a GLFW window, sets up a wgpu device on it and every frame clears to the scene
// background and draws the particle burst from the scene camera. Models and the ground are not
// drawn; the scene graph only drives the camera, captions and story. It installs RenderModule on
// the new device, so install it after ParticlesModule and VignetteModule.
type ClientModule struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string
	PointScale   float32
}

type clientState struct {
	// glfw
	windowGlfw   *glfw.Window
	windowWidth  int
	windowHeight int
	windowTitle  string
	resized      bool
	caption      string

	// wgpu
	Instance      *wgpu.Instance
	Surface       *wgpu.Surface
	Adapter       *wgpu.Adapter
	Device        *wgpu.Device
	Queue         *wgpu.Queue
	SurfaceConfig *wgpu.SurfaceConfiguration
	Pipeline      *render.Pipeline

	scene      *scene.Scene
	binding    *ParticleBinding
	pointScale float32
	log        Logger
}

func (mod ClientModule) Install(app *App, cmd *Commands) {
	if mod.WindowWidth <= 0 {
		mod.WindowWidth = 1280
	}
	if mod.WindowHeight <= 0 {
		mod.WindowHeight = 720
	}
	if mod.PointScale <= 0 {
		mod.PointScale = render.DefaultPointScale
	}

	// https://github.com/go-gl/glfw
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // wgpu owns the surface, no GL context
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(mod.WindowWidth, mod.WindowHeight, mod.WindowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	state, err := newClientState(win, mod)
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		panic(err)
	}
	state.log = app.Logger()
	cmd.OnExit(state.release)

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		state.windowWidth, state.windowHeight = width, height
		state.resized = true
	})

	RenderModule{Device: render.NewWGPUDevice(state.Device)}.Install(app, cmd)
	state.binding, _ = Resource[ParticleBinding](app)

	v, hasVignette := Resource[Vignette](app)
	if hasVignette {
		state.scene = v.Scene
	} else {
		state.scene = scene.New(float32(mod.WindowWidth) / float32(mod.WindowHeight))
	}
	state.scene.Camera.SetAspect(state.windowWidth, state.windowHeight)
	state.scene.Renderer = state

	app.Logger().Infof("Created window (%dx%d) '%s', surface format %v", state.windowWidth, state.windowHeight, mod.WindowTitle, state.SurfaceConfig.Format)

	cmd.AddResources(state)
	cmd.UseSystem(System(windowEventsSystem).InStage(PreUpdate).RunAlways())
	cmd.UseSystem(System(sceneRenderSystem).InStage(Render).RunAlways())
	if hasVignette {
		cmd.UseSystem(System(captionTitleSystem).InStage(PostRender).RunAlways())
	}
}

func newClientState(win *glfw.Window, mod ClientModule) (*clientState, error) {
	// https://github.com/cogentcore/webgpu
	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win))

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}

	width, height := win.GetFramebufferSize()
	caps := surface.GetCapabilities(adapter)
	surfaceConfig := &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, surfaceConfig)

	pipeline, err := render.NewPipeline(device, surfaceConfig.Format)
	if err != nil {
		return nil, fmt.Errorf("melt pipeline: %w", err)
	}

	return &clientState{
		windowGlfw:    win,
		windowWidth:   width,
		windowHeight:  height,
		windowTitle:   mod.WindowTitle,
		Instance:      instance,
		Surface:       surface,
		Adapter:       adapter,
		Device:        device,
		Queue:         device.GetQueue(),
		SurfaceConfig: surfaceConfig,
		Pipeline:      pipeline,
		pointScale:    mod.PointScale,
	}, nil
}

// RenderScene clears to the scene background and draws the particle burst from the scene camera.
func (c *clientState) RenderScene(s *scene.Scene) error {
	nextTexture, err := c.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := c.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	bg := s.Background.RGB()
	right, up := s.Camera.Billboard()
	err = c.Pipeline.UpdateUniforms(render.Uniforms{
		ViewProj:   s.Camera.ViewProj(),
		CamRight:   right,
		CamUp:      up,
		Color:      c.binding.Color(),
		PointScale: c.pointScale,
	})
	if err != nil {
		return err
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: float64(bg[0]), G: float64(bg[1]), B: float64(bg[2]), A: 1},
		}},
	})
	c.Pipeline.Draw(pass, c.binding.Binding)
	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmdBuf.Release()

	c.Queue.Submit(cmdBuf)
	c.Surface.Present()
	return nil
}

func (c *clientState) resize() {
	c.resized = false
	if c.windowWidth <= 0 || c.windowHeight <= 0 {
		return
	}
	c.SurfaceConfig.Width = uint32(c.windowWidth)
	c.SurfaceConfig.Height = uint32(c.windowHeight)
	c.Surface.Configure(c.Adapter, c.Device, c.SurfaceConfig)
	c.scene.Camera.SetAspect(c.windowWidth, c.windowHeight)
}

func (c *clientState) release() {
	if c.Pipeline != nil {
		c.Pipeline.Release()
	}
	if c.Queue != nil {
		c.Queue.Release()
	}
	if c.Device != nil {
		c.Device.Release()
	}
	if c.Adapter != nil {
		c.Adapter.Release()
	}
	if c.Surface != nil {
		c.Surface.Release()
	}
	if c.Instance != nil {
		c.Instance.Release()
	}
	c.windowGlfw.Destroy()
	glfw.Terminate()
}

func windowEventsSystem(state *clientState, cmd *Commands) {
	glfw.PollEvents()
	if state.windowGlfw.ShouldClose() {
		cmd.Exit()
		return
	}
	if state.resized {
		state.resize()
	}
}

func sceneRenderSystem(state *clientState) {
	if state.windowWidth <= 0 || state.windowHeight <= 0 {
		return
	}
	if err := state.scene.Render(); err != nil {
		state.log.Warnf("frame skipped: %v", err)
	}
}

func captionTitleSystem(state *clientState, v *Vignette) {
	if v.Caption() == state.caption {
		return
	}
	state.caption = v.Caption()
	state.windowGlfw.SetTitle(state.windowTitle + " - " + state.caption)
}
