// Package scene holds the vignette's scene graph, camera and lights and hands them to a renderer.
package scene

import (
	"errors"

	"github.com/gekko3d/melt/anim"
	"github.com/gekko3d/melt/assets"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrNoRenderer = errors.New("scene: no renderer attached")

// Color is a packed 0xRRGGBB value.
type Color uint32

func (c Color) RGB() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(c>>16&0xff) / 255,
		float32(c>>8&0xff) / 255,
		float32(c&0xff) / 255,
	}
}

type Fog struct {
	Color     Color
	Near, Far float32
}

type Ground struct {
	Size  float32
	Color Color
}

// Node is an element of the scene graph. A node without a Model is a group.
type Node struct {
	Name      string
	Transform Transform
	Visible   bool
	Model     *assets.Model
	Mixer     *anim.Mixer

	parent   *Node
	children []*Node
}

func NewNode(name string) *Node {
	return &Node{Name: name, Transform: NewTransform(), Visible: true}
}

// Add attaches child, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

func (n *Node) Children() []*Node { return n.children }

func (n *Node) Parent() *Node { return n.parent }

// World composes every ancestor transform with this node's own.
func (n *Node) World() mgl32.Mat4 {
	m := n.Transform.ObjectToWorld()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Transform.ObjectToWorld().Mul4(m)
	}
	return m
}

// Renderer draws a scene. Implementations are free to ignore parts they cannot draw.
type Renderer interface {
	RenderScene(s *Scene) error
}

type Scene struct {
	Background Color
	Fog        Fog
	Ground     Ground
	Camera     *Camera
	Lights     []Light
	Renderer   Renderer

	root *Node
}

// New builds the vignette's default stage: sky-blue background with matching fog, the light rig
// and a 20x20 grey ground plane.
func New(aspect float32) *Scene {
	cam := NewCamera(aspect)
	cam.LookAt(mgl32.Vec3{0, 0, 0})
	return &Scene{
		Background: 0x87ceeb,
		Fog:        Fog{Color: 0x87ceeb, Near: 1, Far: 50},
		Ground:     Ground{Size: 20, Color: 0x999999},
		Camera:     cam,
		Lights:     DefaultLights(),
		root:       NewNode("root"),
	}
}

func (s *Scene) Add(n *Node) { s.root.Add(n) }

func (s *Scene) Root() *Node { return s.root }

// Find returns the first node named name in depth-first order.
func (s *Scene) Find(name string) *Node {
	var found *Node
	s.walk(s.root, false, func(n *Node) bool {
		if n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// Visible calls fn for every node whose ancestors are all visible, along with its world matrix.
func (s *Scene) Visible(fn func(n *Node, world mgl32.Mat4)) {
	s.walk(s.root, true, func(n *Node) bool {
		if n != s.root {
			fn(n, n.World())
		}
		return true
	})
}

func (s *Scene) walk(n *Node, visibleOnly bool, fn func(*Node) bool) bool {
	if visibleOnly && !n.Visible {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !s.walk(c, visibleOnly, fn) {
			return false
		}
	}
	return true
}

// Update advances every node's animation mixer.
func (s *Scene) Update(dt float32) {
	s.walk(s.root, false, func(n *Node) bool {
		if n.Mixer != nil {
			n.Mixer.Update(dt)
		}
		return true
	})
}

func (s *Scene) Render() error {
	if s.Renderer == nil {
		return ErrNoRenderer
	}
	return s.Renderer.RenderScene(s)
}
