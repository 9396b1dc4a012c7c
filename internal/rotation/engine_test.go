package rotation

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct{ n int }

func (s *fakeSource) Len() int { return s.n }

type fakeTask struct {
	interval  time.Duration
	next      time.Duration
	fn        func()
	cancelled bool
}

// fakeScheduler runs callbacks synchronously as virtual time advances.
type fakeScheduler struct {
	now   time.Duration
	tasks []*fakeTask
}

func (s *fakeScheduler) Schedule(interval time.Duration, fn func()) func() {
	t := &fakeTask{interval: interval, next: s.now + interval, fn: fn}
	s.tasks = append(s.tasks, t)
	return func() { t.cancelled = true }
}

func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		live := s.liveTasks()
		sort.Slice(live, func(i, j int) bool { return live[i].next < live[j].next })
		if len(live) == 0 || live[0].next > target {
			break
		}
		t := live[0]
		s.now = t.next
		t.next += t.interval
		t.fn()
	}
	s.now = target
}

func (s *fakeScheduler) liveTasks() []*fakeTask {
	var live []*fakeTask
	for _, t := range s.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	return live
}

func newTestEngine(n int) (*Engine, *fakeSource, *fakeScheduler, *int) {
	src := &fakeSource{n: n}
	sched := &fakeScheduler{}
	ticks := 0
	e := NewEngine(src, sched, DefaultInterval, func(State) { ticks++ })
	return e, src, sched, &ticks
}

func TestEnterRequiresMessages(t *testing.T) {
	e, src, sched, _ := newTestEngine(0)

	assert.False(t, e.Enter())
	assert.False(t, e.State().Active)
	assert.Empty(t, sched.tasks)

	src.n = 2
	assert.True(t, e.Enter())
	assert.True(t, e.Enter(), "entering twice is idempotent")
	assert.Len(t, sched.liveTasks(), 1)
}

func TestTicksAdvanceCursor(t *testing.T) {
	e, _, sched, ticks := newTestEngine(3)
	require.NoError(t, e.SetInterval(5*time.Second))
	require.True(t, e.Enter())

	sched.Advance(16 * time.Second)

	assert.Equal(t, 3, *ticks)
	assert.Equal(t, 0, e.State().Cursor, "three ticks over three messages wraps to the start")
}

func TestTickRereadsLength(t *testing.T) {
	e, src, sched, _ := newTestEngine(5)
	require.True(t, e.Enter())

	sched.Advance(30 * time.Second)
	require.Equal(t, 3, e.State().Cursor)

	src.n = 2
	sched.Advance(10 * time.Second)
	assert.Equal(t, 0, e.State().Cursor, "(3+1) mod 2")
}

func TestExitCancelsAndRewinds(t *testing.T) {
	e, _, sched, ticks := newTestEngine(4)
	require.True(t, e.Enter())
	sched.Advance(20 * time.Second)
	require.Equal(t, 2, e.State().Cursor)

	e.Exit()
	e.Exit()

	st := e.State()
	assert.False(t, st.Active)
	assert.Equal(t, 0, st.Cursor)
	assert.Empty(t, sched.liveTasks())

	sched.Advance(time.Minute)
	assert.Equal(t, 2, *ticks, "no ticks after exit")
}

func TestSetIntervalRestartsSingleTimer(t *testing.T) {
	e, _, sched, ticks := newTestEngine(10)
	require.True(t, e.Enter())

	sched.Advance(8 * time.Second)
	require.NoError(t, e.SetInterval(20*time.Second))
	require.NoError(t, e.SetInterval(20*time.Second))

	assert.Len(t, sched.liveTasks(), 1, "no timer leak")
	assert.Equal(t, 20*time.Second, e.State().Interval)

	sched.Advance(19 * time.Second)
	assert.Equal(t, 0, *ticks, "new period starts from the change")
	sched.Advance(time.Second)
	assert.Equal(t, 1, *ticks)

	assert.ErrorIs(t, e.SetInterval(7*time.Second), ErrInvalidInterval)
	assert.Equal(t, 20*time.Second, e.State().Interval)
}

func TestManualNavigationWraps(t *testing.T) {
	const n = 4
	e, _, _, _ := newTestEngine(n)

	e.Previous()
	assert.Equal(t, n-1, e.State().Cursor, "previous from 0 wraps to the end")

	start := e.State().Cursor
	for k := 0; k < n; k++ {
		e.Next()
	}
	assert.Equal(t, start, e.State().Cursor, "n steps forward return to the start")

	e.Next()
	assert.Equal(t, 0, e.State().Cursor)
}

func TestManualNavigationOnEmpty(t *testing.T) {
	e, _, _, _ := newTestEngine(0)
	e.Next()
	e.Previous()
	assert.Equal(t, 0, e.State().Cursor)
}

func TestEmptyCollectionStopsPresentation(t *testing.T) {
	e, src, sched, _ := newTestEngine(2)
	require.True(t, e.Enter())

	src.n = 0
	e.Sync()
	assert.False(t, e.State().Active)
	assert.Empty(t, sched.liveTasks())

	src.n = 1
	sched.Advance(time.Minute)
	assert.False(t, e.State().Active, "re-entering is required")
	assert.True(t, e.Enter())
}

func TestTickOnEmptyStops(t *testing.T) {
	e, src, sched, ticks := newTestEngine(2)
	require.True(t, e.Enter())

	src.n = 0
	sched.Advance(10 * time.Second)

	assert.Equal(t, 1, *ticks)
	assert.False(t, e.State().Active)
	assert.Empty(t, sched.liveTasks())
}

func TestSyncWrapsCursor(t *testing.T) {
	e, src, _, _ := newTestEngine(5)
	for k := 0; k < 4; k++ {
		e.Next()
	}
	src.n = 3
	e.Sync()
	assert.Equal(t, 1, e.State().Cursor)
}

func TestStaleCallbackIgnored(t *testing.T) {
	src := &fakeSource{n: 3}
	var captured func()
	sched := schedulerFunc(func(_ time.Duration, fn func()) func() {
		captured = fn
		return func() {}
	})
	e := NewEngine(src, sched, DefaultInterval, nil)

	require.True(t, e.Enter())
	stale := captured
	require.NoError(t, e.SetInterval(5*time.Second))

	stale()
	assert.Equal(t, 0, e.State().Cursor, "callback of a cancelled task must not move the cursor")
	captured()
	assert.Equal(t, 1, e.State().Cursor)
}

type schedulerFunc func(time.Duration, func()) func()

func (f schedulerFunc) Schedule(d time.Duration, fn func()) func() { return f(d, fn) }

func TestNewEngineFallsBackToDefaultInterval(t *testing.T) {
	e := NewEngine(&fakeSource{}, &fakeScheduler{}, 3*time.Second, nil)
	assert.Equal(t, DefaultInterval, e.State().Interval)
}
