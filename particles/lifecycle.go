package particles

import "math"

// State is the logical phase of one particle.
type State uint8

const (
	Falling State = iota
	Fading
	Destroyed
)

func (s State) String() string {
	switch s {
	case Falling:
		return "falling"
	case Fading:
		return "fading"
	case Destroyed:
		return "destroyed"
	}
	return "unknown"
}

// Never is the FadeStart sentinel of a particle that has not touched the floor.
var Never = math.Inf(1)

type Record struct {
	State     State
	FadeStart float64
}

// LifecycleTable holds one Record per buffer slot and a dense set of live slot indices.
// Removal is O(1) and never shrinks the record array, so the live set is always a subset of
// [0, Cap()).
type LifecycleTable struct {
	records []Record
	live    []int
	where   []int // position of a slot inside live, -1 once retired

	falling int
	fading  int
}

func newLifecycleTable(n int) *LifecycleTable {
	t := &LifecycleTable{
		records: make([]Record, n),
		live:    make([]int, n),
		where:   make([]int, n),
		falling: n,
	}
	for i := 0; i < n; i++ {
		t.records[i] = Record{State: Falling, FadeStart: Never}
		t.live[i] = i
		t.where[i] = i
	}
	return t
}

func (t *LifecycleTable) Cap() int { return len(t.records) }

// Len is the number of live (falling or fading) records.
func (t *LifecycleTable) Len() int { return len(t.live) }

func (t *LifecycleTable) Falling() int { return t.falling }
func (t *LifecycleTable) Fading() int  { return t.fading }

// Destroyed counts retired slots.
func (t *LifecycleTable) Destroyed() int { return len(t.records) - len(t.live) }

// Live returns the live slot indices. The slice is owned by the table and its order changes as
// records are removed.
func (t *LifecycleTable) Live() []int { return t.live }

// Get returns the record at index i. ok is false for retired or out of range indices.
func (t *LifecycleTable) Get(i int) (Record, bool) {
	if i < 0 || i >= len(t.records) || t.where[i] < 0 {
		return Record{}, false
	}
	return t.records[i], true
}

// beginFade moves a falling record into the fading phase. It reports false if the record was
// already fading, leaving FadeStart untouched.
func (t *LifecycleTable) beginFade(i int, now float64) bool {
	r := &t.records[i]
	if r.State != Falling {
		return false
	}
	r.State = Fading
	r.FadeStart = now
	t.falling--
	t.fading++
	return true
}

// Remove retires slot i. The slot itself is not reclaimed.
func (t *LifecycleTable) Remove(i int) {
	if i < 0 || i >= len(t.records) {
		return
	}
	pos := t.where[i]
	if pos < 0 {
		return
	}
	switch t.records[i].State {
	case Falling:
		t.falling--
	case Fading:
		t.fading--
	}
	t.records[i].State = Destroyed

	last := len(t.live) - 1
	moved := t.live[last]
	t.live[pos] = moved
	t.where[moved] = pos
	t.live = t.live[:last]
	t.where[i] = -1
}
