package melt

import (
	"fmt"

	"github.com/gekko3d/melt/anim"
	"github.com/gekko3d/melt/config"
	"github.com/gekko3d/melt/particles"
	"github.com/gekko3d/melt/scene"
	"github.com/gekko3d/melt/timeline"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	StateLoading State = iota
	StatePlaying
	StateFinished
)

// Scene node names. The cat and the shrimp are groups that the story moves; their models sit inside
// at the offsets from the model config.
const (
	NodeCatGroup     = "cat_group"
	NodeCat          = "cat"
	NodeShrimp       = "shrimp_group"
	NodeShrimpNormal = "shrimp"
	NodeShrimpFrozen = "frozen_shrimp"
)

// Vignette is the scripted scene: a cat runs up to a frozen shrimp, the ice melts into a burst of
// particles and the cat is disappointed.
type Vignette struct {
	Scene    *scene.Scene
	Timeline *timeline.Timeline

	CatGroup     *scene.Node
	Cat          *scene.Node
	Shrimp       *scene.Node
	ShrimpNormal *scene.Node
	ShrimpFrozen *scene.Node

	caption   string
	onCaption func(string)
	story     config.StoryConfig
	models    []config.ModelConfig

	burstRequested bool
	finished       bool
}

// Caption is the text currently on screen.
func (v *Vignette) Caption() string { return v.caption }

func (v *Vignette) Finished() bool { return v.finished }

func (v *Vignette) setCaption(text string) {
	v.caption = text
	if v.onCaption != nil {
		v.onCaption(text)
	}
}

// PlayAnimation cross-fades the cat to clip name. Unknown clips and a missing model are ignored.
func (v *Vignette) PlayAnimation(name string) {
	if v.Cat.Mixer == nil {
		return
	}
	v.Cat.Mixer.Play(name, v.story.Crossfade)
}

// ShowFrozenShrimp swaps the shrimp for its frozen model. Without a frozen model the normal one
// stays on screen.
func (v *Vignette) ShowFrozenShrimp() {
	if v.ShrimpFrozen.Model == nil {
		return
	}
	v.ShrimpNormal.Visible = false
	v.ShrimpFrozen.Visible = true
}

func (v *Vignette) ShowNormalShrimp() {
	if v.ShrimpNormal.Model == nil {
		return
	}
	v.ShrimpNormal.Visible = true
	v.ShrimpFrozen.Visible = false
}

// VignetteModule builds the scene graph and the story timeline. The app must use the states
// StateLoading..StateFinished; ParticlesModule and AssetsModule must be installed first.
type VignetteModule struct {
	Scene     config.SceneConfig
	Models    []config.ModelConfig
	Story     config.StoryConfig
	Aspect    float32
	OnCaption func(text string)

	// Hold keeps the app in StatePlaying after the story ends instead of finishing.
	Hold bool
}

func (mod VignetteModule) Install(app *App, cmd *Commands) {
	req, ok := Resource[BurstRequests](app)
	if !ok {
		panic("VignetteModule requires ParticlesModule")
	}

	v := &Vignette{
		Scene:     newScene(mod.Scene, mod.Aspect),
		onCaption: mod.OnCaption,
		story:     mod.Story,
		models:    mod.Models,
	}
	v.CatGroup = scene.NewNode(NodeCatGroup)
	v.Cat = v.placeNode(NodeCat)
	v.CatGroup.Add(v.Cat)
	v.Shrimp = scene.NewNode(NodeShrimp)
	v.Shrimp.Transform.Position = mgl32.Vec3{mod.Story.ShrimpStartX, 0, 0}
	v.ShrimpNormal = v.placeNode(NodeShrimpNormal)
	v.ShrimpFrozen = v.placeNode(NodeShrimpFrozen)
	v.ShrimpNormal.Visible = false
	v.ShrimpFrozen.Visible = false
	v.Shrimp.Add(v.ShrimpNormal)
	v.Shrimp.Add(v.ShrimpFrozen)
	v.Scene.Add(v.CatGroup)
	v.Scene.Add(v.Shrimp)

	v.Timeline = v.script(req)

	cmd.AddResources(v)
	cmd.UseSystem(System(vignetteLoadingSystem).InStage(Update).InState(OnExecute(StateLoading)))
	cmd.UseSystem(System(vignetteStorySystem).InStage(PreUpdate).InState(OnExecute(StatePlaying)))
	cmd.UseSystem(System(vignetteStatusSystem).InStage(PostUpdate).InState(OnExecute(StatePlaying)))
	if !mod.Hold {
		cmd.UseSystem(System(vignetteDoneSystem).InStage(Finale).InState(OnExecute(StatePlaying)))
	}
}

func newScene(cfg config.SceneConfig, aspect float32) *scene.Scene {
	s := scene.New(aspect)
	s.Background = scene.Color(cfg.Background)
	s.Fog = scene.Fog{Color: scene.Color(cfg.Background), Near: cfg.FogNear, Far: cfg.FogFar}
	s.Camera.Position = cfg.CameraPosition
	s.Camera.LookAt(cfg.CameraTarget)
	return s
}

// placeNode creates a node positioned by the model entry called name. The entry is optional.
func (v *Vignette) placeNode(name string) *scene.Node {
	n := scene.NewNode(name)
	for _, m := range v.models {
		if m.Name != name {
			continue
		}
		n.Transform.Position = m.Position
		if m.Scale != 0 {
			n.Transform.SetUniformScale(m.Scale)
		}
		n.Transform.Rotation = mgl32.QuatRotate(mgl32.DegToRad(m.RotationY), mgl32.Vec3{0, 1, 0})
	}
	return n
}

// script lays out the story: idle, run to the shrimp, the shrimp slides in frozen, then melts.
func (v *Vignette) script(req *BurstRequests) *timeline.Timeline {
	cat, shrimp := v.CatGroup, v.Shrimp
	tl := timeline.New().
		To(timeline.Tween{
			Delay:    1,
			Duration: 3,
			OnStart:  func() { v.PlayAnimation("idle") },
		}).
		To(timeline.Tween{
			Duration: 2,
			Ease:     timeline.Power1InOut,
			From:     func() float32 { return cat.Transform.Position.X() },
			Set:      func(x float32) { cat.Transform.Position[0] = x },
			To:       v.story.CatWalkTo,
			OnStart:  func() { v.PlayAnimation("run") },
		}).
		To(timeline.Tween{
			Delay:    1,
			Duration: 2,
			From:     func() float32 { return shrimp.Transform.Position.X() },
			Set:      func(x float32) { shrimp.Transform.Position[0] = x },
			To:       v.story.ShrimpSlideTo,
			OnStart:  v.ShowFrozenShrimp,
		}).
		To(timeline.Tween{
			Delay:    1,
			Duration: 3,
			OnStart: func() {
				req.Start()
				v.burstRequested = true
				v.ShowNormalShrimp()
				v.PlayAnimation("sad")
			},
		})

	for _, c := range v.story.Captions {
		text := c.Text
		tl.Call(c.At, func() { v.setCaption(text) })
	}
	return tl
}

// attach hands loaded models to their nodes. Models that failed stay nil and are not drawn.
func (v *Vignette) attach(server *AssetServer, log Logger) {
	for _, n := range []*scene.Node{v.Cat, v.ShrimpNormal, v.ShrimpFrozen} {
		m, ok := server.Model(n.Name)
		if !ok {
			log.Warnf("%s has no model, leaving it out of the scene", n.Name)
			n.Visible = false
			continue
		}
		n.Model = m
	}
	if v.Cat.Model != nil && len(v.Cat.Model.Clips) > 0 {
		v.Cat.Mixer = anim.NewMixer(v.Cat.Model.Clips...)
	}
	v.ShowNormalShrimp()
}

func vignetteLoadingSystem(server *AssetServer, v *Vignette, cmd *Commands) {
	if !server.Settled() {
		return
	}
	loaded, total := server.Progress()
	cmd.Logger().Infof("assets settled: %d/%d", loaded, total)
	v.attach(server, cmd.Logger())
	cmd.ChangeState(StatePlaying)
}

func vignetteStorySystem(t *Time, v *Vignette) {
	dt := float32(t.Seconds())
	v.Timeline.Update(dt)
	v.Scene.Update(dt)
}

func vignetteStatusSystem(v *Vignette, sys *particles.System, req *BurstRequests, cmd *Commands) {
	if v.finished || !v.Timeline.Done() || !v.burstRequested {
		return
	}
	if req.Pending() > 0 || sys.Active() {
		return
	}
	v.finished = true
	cmd.Logger().Infof("vignette finished after %.2fs", v.Timeline.Elapsed())
}

func vignetteDoneSystem(v *Vignette, cmd *Commands) {
	if v.finished {
		cmd.ChangeState(StateFinished)
	}
}

// ModelSpecs converts model entries for AssetsModule.
func ModelSpecs(models []config.ModelConfig) []ModelSpec {
	specs := make([]ModelSpec, 0, len(models))
	for _, m := range models {
		specs = append(specs, ModelSpec{Name: m.Name, Path: m.Path, Clips: m.Clips})
	}
	return specs
}

func (v *Vignette) String() string {
	return fmt.Sprintf("vignette t=%.2fs caption=%q", v.Timeline.Elapsed(), v.caption)
}
