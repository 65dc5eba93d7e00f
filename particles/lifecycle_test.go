package particles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleTable_RemoveKeepsLiveSetConsistent(t *testing.T) {
	tbl := newLifecycleTable(5)

	tbl.Remove(1)
	tbl.Remove(4)
	tbl.Remove(4) // second removal is ignored
	tbl.Remove(-1)
	tbl.Remove(9)

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, 2, tbl.Destroyed())
	assert.ElementsMatch(t, []int{0, 2, 3}, tbl.Live())

	_, ok := tbl.Get(1)
	assert.False(t, ok)
	_, ok = tbl.Get(5)
	assert.False(t, ok)
	rec, ok := tbl.Get(3)
	assert.True(t, ok)
	assert.Equal(t, Falling, rec.State)
}

func TestLifecycleTable_BeginFadeOnlyOnce(t *testing.T) {
	tbl := newLifecycleTable(2)

	assert.True(t, tbl.beginFade(0, 1.5))
	assert.False(t, tbl.beginFade(0, 3.0))

	rec, _ := tbl.Get(0)
	assert.Equal(t, Fading, rec.State)
	assert.Equal(t, 1.5, rec.FadeStart)
	assert.Equal(t, 1, tbl.Falling())
	assert.Equal(t, 1, tbl.Fading())

	tbl.Remove(0)
	assert.Equal(t, 0, tbl.Fading())
	assert.Equal(t, 1, tbl.Falling())
}

func TestBuffer_DirtyProtocol(t *testing.T) {
	b := newBuffer(3)
	assert.Equal(t, AllAttributes, b.ConsumeDirty())
	assert.True(t, b.Dirty().Empty())

	b.MarkDirty(AttrAlpha)
	b.MarkDirty(AttrAlpha)
	d := b.ConsumeDirty()
	assert.True(t, d.Has(AttrAlpha))
	assert.False(t, d.Has(AttrPosition))
	assert.Equal(t, "{alpha}", d.String())

	other := newBuffer(3)
	assert.NotEqual(t, b.Generation(), other.Generation())
}

func TestColor_RGB(t *testing.T) {
	c := Color(0xff8000).RGB()
	assert.InDelta(t, 1.0, c.X(), 1e-6)
	assert.InDelta(t, 128.0/255.0, c.Y(), 1e-6)
	assert.InDelta(t, 0.0, c.Z(), 1e-6)
}
