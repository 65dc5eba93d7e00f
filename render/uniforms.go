package render

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformSize is the byte size of the Uniforms struct in melt_points.wgsl.
const UniformSize = 128

// DefaultPointScale turns a particle size of 1 into a quad 0.1 world units wide.
const DefaultPointScale = 0.1

type Uniforms struct {
	ViewProj   mgl32.Mat4
	CamRight   mgl32.Vec3
	CamUp      mgl32.Vec3
	Color      mgl32.Vec3
	PointScale float32
}

// Bytes packs the uniforms in WGSL layout:
//
//	view_proj mat4x4 -- 0
//	cam_right vec4   -- 64
//	cam_up    vec4   -- 80
//	color     vec4   -- 96
//	params    vec4   -- 112
func (u Uniforms) Bytes() []byte {
	buf := make([]byte, UniformSize)
	put := func(offset int, v float32) {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
	}
	for i, v := range u.ViewProj {
		put(i*4, v)
	}
	for i := 0; i < 3; i++ {
		put(64+i*4, u.CamRight[i])
		put(80+i*4, u.CamUp[i])
		put(96+i*4, u.Color[i])
	}
	put(108, 1)
	put(112, u.PointScale)
	return buf
}
