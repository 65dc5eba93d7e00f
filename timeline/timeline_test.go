package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEases(t *testing.T) {
	for _, ease := range []Ease{Linear, Power1InOut} {
		assert.Equal(t, float32(0), ease(0))
		assert.Equal(t, float32(1), ease(1))
		assert.InDelta(t, 0.5, ease(0.5), 1e-6)
	}
	assert.Less(t, Power1InOut(0.25), float32(0.25))
	assert.Greater(t, Power1InOut(0.75), float32(0.75))
	assert.InDelta(t, 0.125, Power1InOut(0.25), 1e-6)
	assert.Equal(t, Power1InOut(0.3), EaseByName("power1.inOut")(0.3))
	assert.Equal(t, float32(0.3), EaseByName("bounce")(0.3))
}

func TestTimeline_SequentialTweens(t *testing.T) {
	var x, y float32 = -4, 5
	var log []string

	tl := New().
		To(Tween{Delay: 1, Duration: 3, OnStart: func() { log = append(log, "idle") }}).
		To(Tween{
			Duration: 2,
			From:     func() float32 { return x },
			Set:      func(v float32) { x = v },
			To:       2.5,
			OnStart:  func() { log = append(log, "run") },
		}).
		To(Tween{
			Delay:      1,
			Duration:   2,
			From:       func() float32 { return y },
			Set:        func(v float32) { y = v },
			To:         0,
			OnComplete: func() { log = append(log, "arrived") },
		})

	assert.Equal(t, float32(9), tl.Duration())

	tl.Update(0.5)
	assert.Empty(t, log)
	tl.Update(0.5)
	assert.Equal(t, []string{"idle"}, log)

	tl.Update(3) // t=4
	assert.Equal(t, []string{"idle", "run"}, log)
	assert.Equal(t, float32(-4), x)

	tl.Update(1) // t=5, halfway
	assert.InDelta(t, -0.75, x, 1e-5)

	tl.Update(1) // t=6
	assert.Equal(t, float32(2.5), x)
	assert.Equal(t, float32(5), y, "third tween waits out its delay")

	tl.Update(2) // t=8
	assert.InDelta(t, 2.5, y, 1e-5)
	assert.False(t, tl.Done())

	tl.Update(5)
	assert.Equal(t, float32(0), y)
	assert.True(t, tl.Done())
	assert.Equal(t, []string{"idle", "run", "arrived"}, log)
}

func TestTimeline_FromIsReadAtStart(t *testing.T) {
	x := float32(0)
	tl := New().To(Tween{
		Delay:    1,
		Duration: 1,
		From:     func() float32 { return x },
		Set:      func(v float32) { x = v },
		To:       10,
	})
	x = 4
	tl.Update(1.5)
	assert.InDelta(t, 7, x, 1e-5)
}

func TestTimeline_CallsFireOnceInOrder(t *testing.T) {
	var got []string
	tl := New()
	tl.Call(9, func() { got = append(got, "melt") })
	tl.Call(0, func() { got = append(got, "idle") })
	tl.Call(3, func() { got = append(got, "run") })

	tl.Update(0)
	require.Equal(t, []string{"idle"}, got)
	tl.Update(10)
	assert.Equal(t, []string{"idle", "run", "melt"}, got)
	tl.Update(10)
	assert.Len(t, got, 3)
	assert.True(t, tl.Done())
}

func TestTimeline_ZeroDurationAndLargeStep(t *testing.T) {
	v := float32(0)
	completed := 0
	tl := New().To(Tween{
		Duration:   0,
		Set:        func(f float32) { v = f },
		To:         1,
		OnComplete: func() { completed++ },
	})
	tl.Update(-1)
	assert.Equal(t, float32(1), v)
	assert.Equal(t, 1, completed)
	assert.Equal(t, float32(0), tl.Elapsed())
}
