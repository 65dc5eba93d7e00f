package particles

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// OffscreenY is where destroyed particles are parked. The slot stays allocated but can no longer
// land inside the camera frustum.
const OffscreenY float32 = -1000

// Frame reports what one Advance call did. Dirty lists the attributes that need re-upload.
type Frame struct {
	Dirty     AttributeSet
	Clock     float64
	Live      int
	Falling   int
	Fading    int
	Started   int // particles that began fading this frame
	Destroyed int // particles retired this frame
}

// System is the one-shot melting burst. It exclusively owns its Buffer and LifecycleTable; it is
// driven from a single goroutine and takes no locks.
type System struct {
	cfg   BurstConfig
	buf   *Buffer
	table *LifecycleTable
	rng   *rand.Rand
	clock float64
}

func NewSystem() *System {
	return &System{}
}

// StartBurst discards any previous burst and spawns cfg.ParticleCount particles. On error the
// previous burst is left as it was.
func (s *System) StartBurst(cfg BurstConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s.cfg = cfg
	s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	s.clock = 0
	s.buf = newBuffer(cfg.ParticleCount)
	s.table = newLifecycleTable(cfg.ParticleCount)
	s.spawnAll()
	return nil
}

// spawnAll places every particle on a disk at SpawnHeight. The radius is sampled linearly, not
// by square root, so density is biased toward the centre.
func (s *System) spawnAll() {
	for i := 0; i < s.cfg.ParticleCount; i++ {
		angle := s.rng.Float64() * 2 * math.Pi
		radius := s.rng.Float64() * float64(s.cfg.SpawnRadius)

		s.buf.Positions[i] = mgl32.Vec3{
			float32(math.Cos(angle) * radius),
			s.cfg.SpawnHeight,
			float32(math.Sin(angle) * radius),
		}
		s.buf.Sizes[i] = s.cfg.BaseSize
		s.buf.Alphas[i] = 1
		s.buf.Velocities[i] = 0
	}
}

// Advance moves the simulation clock forward by dt seconds and steps every live particle.
// It does nothing before the first burst or after every particle has been destroyed.
func (s *System) Advance(dt float64) Frame {
	if s.table == nil || s.table.Len() == 0 {
		return Frame{Clock: s.clock}
	}
	s.clock += dt
	return s.step(float32(dt), s.clock)
}

func (s *System) step(dt float32, now float64) Frame {
	cfg := &s.cfg
	buf := s.buf
	t := s.table
	var f Frame

	live := t.Live()
	for k := 0; k < len(live); {
		i := live[k]
		rec := &t.records[i]

		if rec.State == Falling {
			// Velocity first, then position.
			buf.Velocities[i] += cfg.Gravity * dt
			buf.Positions[i][1] -= buf.Velocities[i] * dt

			if buf.Positions[i][1] <= cfg.FloorY && t.beginFade(i, now) {
				f.Started++
			}
		}

		if rec.State == Fading && now >= rec.FadeStart {
			progress := 1.0
			if cfg.FadeDuration > 0 {
				progress = (now - rec.FadeStart) / float64(cfg.FadeDuration)
			}
			buf.Alphas[i] = float32(clamp01(1 - progress))

			if progress >= 1 {
				buf.Positions[i][1] = OffscreenY
				t.Remove(i)
				f.Destroyed++
				// Remove swapped another live index into slot k.
				live = t.Live()
				continue
			}
		}
		k++
	}

	buf.MarkDirty(AttrPosition)
	buf.MarkDirty(AttrAlpha)

	f.Dirty = SetOf(AttrPosition, AttrAlpha)
	f.Clock = now
	f.Live = t.Len()
	f.Falling = t.Falling()
	f.Fading = t.Fading()
	return f
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Active reports whether a burst still has live particles.
func (s *System) Active() bool { return s.table != nil && s.table.Len() > 0 }

// Buffer returns the current burst's buffer, or nil before the first burst.
func (s *System) Buffer() *Buffer { return s.buf }

// Table returns the current burst's lifecycle table, or nil before the first burst.
func (s *System) Table() *LifecycleTable { return s.table }

func (s *System) Config() BurstConfig { return s.cfg }

// Clock is the simulation time in seconds since the burst started.
func (s *System) Clock() float64 { return s.clock }
