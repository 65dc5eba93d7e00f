package render

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/gekko3d/melt/particles"
	"github.com/go-gl/mathgl/mgl32"
)

// Binding mirrors a particles.Buffer on the GPU. It never writes to the particle buffer; it only
// consumes its dirty set once per frame and re-uploads the flagged attributes.
//
// A new buffer generation (a new burst) releases the previous GPU buffers before allocating the
// new ones, so repeated bursts never accumulate GPU memory.
type Binding struct {
	device Device
	color  mgl32.Vec3

	generation uint64
	count      int
	buffers    [particles.AttributeCount]GPUBuffer
	failed     particles.AttributeSet // retried on the next Sync

	uploads     [particles.AttributeCount]int
	allocations int
}

func NewBinding(device Device, color particles.Color) *Binding {
	return &Binding{device: device, color: color.RGB()}
}

// Color is the uniform color the fragment stage outputs.
func (b *Binding) Color() mgl32.Vec3 { return b.color }

func (b *Binding) SetColor(c particles.Color) { b.color = c.RGB() }

// Sync uploads whatever the particle buffer flagged since the last call and returns that set.
// Call it once per frame after the simulation step.
func (b *Binding) Sync(buf *particles.Buffer) (particles.AttributeSet, error) {
	if buf == nil {
		return 0, nil
	}
	dirty := buf.ConsumeDirty() | b.failed
	b.failed = 0
	if buf.Generation() != b.generation {
		b.Release()
		if err := b.allocate(buf); err != nil {
			return 0, err
		}
		b.generation = buf.Generation()
		// Fresh GPU buffers hold nothing yet.
		dirty = particles.AllAttributes
	}

	if b.count == 0 {
		return dirty, nil
	}
	var errs []error
	for _, a := range particles.Attributes() {
		if !dirty.Has(a) {
			continue
		}
		if err := b.device.WriteBuffer(b.buffers[a], 0, attributeBytes(buf, a)); err != nil {
			b.failed |= particles.SetOf(a)
			errs = append(errs, fmt.Errorf("upload %s: %w", a, err))
			continue
		}
		b.uploads[a]++
	}
	return dirty, errors.Join(errs...)
}

func (b *Binding) allocate(buf *particles.Buffer) error {
	n := buf.Len()
	b.count = n
	if n == 0 {
		return nil
	}
	for _, a := range particles.Attributes() {
		size := uint64(n) * attributeStride(a)
		gb, err := b.device.CreateBuffer("Melt "+a.String(), size)
		if err != nil {
			b.Release()
			return err
		}
		b.buffers[a] = gb
	}
	b.allocations++
	return nil
}

// Release frees the GPU buffers. The binding can be synced again afterwards.
func (b *Binding) Release() {
	for i, gb := range b.buffers {
		if gb != nil {
			gb.Release()
			b.buffers[i] = nil
		}
	}
	b.count = 0
	b.generation = 0
	b.failed = 0
}

// InstanceCount is the number of particle slots currently bound.
func (b *Binding) InstanceCount() uint32 { return uint32(b.count) }

// Buffer returns the GPU buffer holding attribute a, or nil if nothing is bound.
func (b *Binding) Buffer(a particles.Attribute) GPUBuffer { return b.buffers[a] }

// Uploads counts writes per attribute since the binding was created.
func (b *Binding) Uploads(a particles.Attribute) int { return b.uploads[a] }

// Allocations counts how many buffer sets have been created.
func (b *Binding) Allocations() int { return b.allocations }

func attributeStride(a particles.Attribute) uint64 {
	if a == particles.AttrPosition {
		return uint64(unsafe.Sizeof(mgl32.Vec3{}))
	}
	return uint64(unsafe.Sizeof(float32(0)))
}

func attributeBytes(buf *particles.Buffer, a particles.Attribute) []byte {
	switch a {
	case particles.AttrPosition:
		return sliceBytes(buf.Positions)
	case particles.AttrSize:
		return sliceBytes(buf.Sizes)
	case particles.AttrAlpha:
		return sliceBytes(buf.Alphas)
	case particles.AttrVelocity:
		return sliceBytes(buf.Velocities)
	}
	return nil
}

func sliceBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}
