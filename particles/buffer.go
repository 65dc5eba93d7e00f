package particles

import (
	"strings"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// Attribute names one of the four parallel per-slot arrays of a Buffer.
type Attribute uint8

const (
	AttrPosition Attribute = iota
	AttrSize
	AttrAlpha
	AttrVelocity

	AttributeCount = 4
)

var attributeNames = [AttributeCount]string{"position", "size", "alpha", "velocity"}

func (a Attribute) String() string {
	if int(a) < len(attributeNames) {
		return attributeNames[a]
	}
	return "unknown"
}

// Attributes lists every attribute in upload order.
func Attributes() [AttributeCount]Attribute {
	return [AttributeCount]Attribute{AttrPosition, AttrSize, AttrAlpha, AttrVelocity}
}

// AttributeSet is a bitmask of attributes, used as the per-frame dirty report.
type AttributeSet uint8

const AllAttributes AttributeSet = 1<<AttributeCount - 1

func SetOf(attrs ...Attribute) AttributeSet {
	var s AttributeSet
	for _, a := range attrs {
		s |= 1 << a
	}
	return s
}

func (s AttributeSet) Has(a Attribute) bool { return s&(1<<a) != 0 }
func (s AttributeSet) Empty() bool          { return s == 0 }

func (s AttributeSet) String() string {
	var names []string
	for _, a := range Attributes() {
		if s.Has(a) {
			names = append(names, a.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Buffer is the structure-of-arrays storage mirrored on the GPU. All four arrays have the same
// length for the lifetime of a burst; there is no resize.
type Buffer struct {
	Positions  []mgl32.Vec3
	Sizes      []float32
	Alphas     []float32
	Velocities []float32

	generation uint64
	dirty      AttributeSet
}

var generations atomic.Uint64

func newBuffer(n int) *Buffer {
	return &Buffer{
		Positions:  make([]mgl32.Vec3, n),
		Sizes:      make([]float32, n),
		Alphas:     make([]float32, n),
		Velocities: make([]float32, n),
		generation: generations.Add(1),
		// Nothing has been uploaded yet.
		dirty: AllAttributes,
	}
}

func (b *Buffer) Len() int { return len(b.Sizes) }

// Generation identifies the allocation. Every burst gets a new one.
func (b *Buffer) Generation() uint64 { return b.generation }

func (b *Buffer) MarkDirty(a Attribute) { b.dirty |= 1 << a }

func (b *Buffer) Dirty() AttributeSet { return b.dirty }

// ConsumeDirty returns the pending dirty set and clears it.
func (b *Buffer) ConsumeDirty() AttributeSet {
	d := b.dirty
	b.dirty = 0
	return d
}
