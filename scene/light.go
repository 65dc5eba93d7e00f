package scene

import "github.com/go-gl/mathgl/mgl32"

type LightKind uint8

const (
	LightAmbient LightKind = iota
	LightDirectional
)

func (k LightKind) String() string {
	switch k {
	case LightAmbient:
		return "ambient"
	case LightDirectional:
		return "directional"
	}
	return "unknown"
}

type Light struct {
	Kind       LightKind
	Position   mgl32.Vec3 // directional lights shine from Position toward the origin
	Color      Color
	Intensity  float32
	CastShadow bool
}

// Direction is the normalised direction light travels. Ambient lights have none.
func (l Light) Direction() mgl32.Vec3 {
	if l.Kind != LightDirectional || l.Position.Len() == 0 {
		return mgl32.Vec3{}
	}
	return l.Position.Mul(-1).Normalize()
}

// DefaultLights is the vignette rig: soft ambient, a shadow-casting key light and a cool fill.
func DefaultLights() []Light {
	return []Light{
		{Kind: LightAmbient, Color: 0xffffff, Intensity: 0.5},
		{Kind: LightDirectional, Position: mgl32.Vec3{5, 5, 5}, Color: 0xffffff, Intensity: 1, CastShadow: true},
		{Kind: LightDirectional, Position: mgl32.Vec3{-5, 3, -5}, Color: 0x9090ff, Intensity: 0.4},
	}
}
