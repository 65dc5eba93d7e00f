// Package anim tracks which animation clip a character is playing and how strongly, including
// cross-fades between clips.
package anim

import "math"

// Clip is a named looping animation.
type Clip struct {
	Name     string  `yaml:"name"`
	Duration float32 `yaml:"duration"`
}

// DefaultFade is the cross-fade used when Play is given a negative fade.
const DefaultFade = 0.2

type action struct {
	clip    Clip
	time    float32
	weight  float32
	playing bool
}

// Mixer plays one clip at a time and cross-fades on change. Not safe for concurrent use.
type Mixer struct {
	actions map[string]*action
	current *action
	prev    *action

	fade    float32
	elapsed float32
}

// NewMixer registers clips and starts playing the first one at full weight.
func NewMixer(clips ...Clip) *Mixer {
	m := &Mixer{actions: make(map[string]*action, len(clips))}
	for _, c := range clips {
		if _, dup := m.actions[c.Name]; dup {
			continue
		}
		m.actions[c.Name] = &action{clip: c}
	}
	if len(clips) > 0 {
		m.current = m.actions[clips[0].Name]
		m.current.playing = true
		m.current.weight = 1
	}
	return m
}

// Play cross-fades from the current clip to name over fade seconds. Unknown names and the clip
// already playing are ignored.
func (m *Mixer) Play(name string, fade float32) {
	next, ok := m.actions[name]
	if !ok || next == m.current {
		return
	}
	if fade < 0 {
		fade = DefaultFade
	}
	if m.prev != nil && m.prev != next {
		m.prev.playing = false
		m.prev.weight = 0
	}

	next.time = 0
	next.playing = true
	m.prev = m.current
	m.current = next
	m.fade = fade
	m.elapsed = 0
	m.applyWeights()
}

// Update advances every playing clip by dt seconds and moves any cross-fade along.
func (m *Mixer) Update(dt float32) {
	for _, a := range m.actions {
		if !a.playing {
			continue
		}
		a.time += dt
		if a.clip.Duration > 0 {
			a.time = float32(math.Mod(float64(a.time), float64(a.clip.Duration)))
			if a.time < 0 {
				a.time += a.clip.Duration
			}
		}
	}
	if m.prev != nil {
		m.elapsed += dt
		m.applyWeights()
	}
}

func (m *Mixer) applyWeights() {
	if m.current == nil {
		return
	}
	t := float32(1)
	if m.fade > 0 {
		t = m.elapsed / m.fade
	}
	if t >= 1 {
		m.current.weight = 1
		if m.prev != nil {
			m.prev.weight = 0
			m.prev.playing = false
			m.prev = nil
		}
		return
	}
	if t < 0 {
		t = 0
	}
	m.current.weight = t
	if m.prev != nil {
		m.prev.weight = 1 - t
	}
}

// Current returns the name of the clip being faded in or playing, or "" if the mixer is empty.
func (m *Mixer) Current() string {
	if m.current == nil {
		return ""
	}
	return m.current.clip.Name
}

func (m *Mixer) Weight(name string) float32 {
	if a, ok := m.actions[name]; ok {
		return a.weight
	}
	return 0
}

// Time is the playback position of name within its clip.
func (m *Mixer) Time(name string) float32 {
	if a, ok := m.actions[name]; ok {
		return a.time
	}
	return 0
}

func (m *Mixer) Fading() bool { return m.prev != nil }
