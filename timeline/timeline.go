// Package timeline sequences tweens and one-shot calls on a clock advanced by the host.
package timeline

import "sort"

// Tween animates a value from its current reading to To. From is read when the tween starts, not
// when it is added.
type Tween struct {
	Delay    float32
	Duration float32
	From     func() float32
	Set      func(float32)
	To       float32
	Ease     Ease

	OnStart    func()
	OnComplete func()
}

type entry struct {
	start float32
	tween Tween

	from     float32
	started  bool
	finished bool
}

type call struct {
	at    float32
	fn    func()
	fired bool
}

// Timeline runs tweens back to back and calls at absolute offsets. Not safe for concurrent use.
type Timeline struct {
	entries []*entry
	calls   []*call
	end     float32
	elapsed float32
}

func New() *Timeline {
	return &Timeline{}
}

// To appends a tween that starts Delay seconds after the previous one ends.
func (tl *Timeline) To(tw Tween) *Timeline {
	if tw.Ease == nil {
		tw.Ease = Linear
	}
	if tw.Duration < 0 {
		tw.Duration = 0
	}
	start := tl.end + tw.Delay
	tl.entries = append(tl.entries, &entry{start: start, tween: tw})
	tl.end = start + tw.Duration
	return tl
}

// Call schedules fn at an absolute time. It does not move the end of the sequence.
func (tl *Timeline) Call(at float32, fn func()) *Timeline {
	tl.calls = append(tl.calls, &call{at: at, fn: fn})
	sort.SliceStable(tl.calls, func(i, j int) bool { return tl.calls[i].at < tl.calls[j].at })
	return tl
}

// Update advances the clock by dt and applies every tween and call that falls inside it.
func (tl *Timeline) Update(dt float32) {
	if dt < 0 {
		dt = 0
	}
	tl.elapsed += dt
	now := tl.elapsed

	for _, c := range tl.calls {
		if !c.fired && now >= c.at {
			c.fired = true
			c.fn()
		}
	}

	for _, e := range tl.entries {
		if e.finished || now < e.start {
			continue
		}
		tw := &e.tween
		if !e.started {
			e.started = true
			if tw.From != nil {
				e.from = tw.From()
			}
			if tw.OnStart != nil {
				tw.OnStart()
			}
		}

		t := float32(1)
		if tw.Duration > 0 {
			t = (now - e.start) / tw.Duration
		}
		if t > 1 {
			t = 1
		}
		if tw.Set != nil {
			tw.Set(e.from + (tw.To-e.from)*tw.Ease(t))
		}
		if t >= 1 {
			e.finished = true
			if tw.OnComplete != nil {
				tw.OnComplete()
			}
		}
	}
}

func (tl *Timeline) Elapsed() float32 { return tl.elapsed }

// Duration is the end of the last tween or call, whichever is later.
func (tl *Timeline) Duration() float32 {
	d := tl.end
	if n := len(tl.calls); n > 0 && tl.calls[n-1].at > d {
		d = tl.calls[n-1].at
	}
	return d
}

// Done reports whether every tween has finished and every call has fired.
func (tl *Timeline) Done() bool {
	for _, e := range tl.entries {
		if !e.finished {
			return false
		}
	}
	for _, c := range tl.calls {
		if !c.fired {
			return false
		}
	}
	return true
}
