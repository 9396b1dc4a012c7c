// Package rotation drives the unattended presentation: a cursor over the
// message collection that advances on a repeating timer.
package rotation

import (
	"errors"
	"time"
)

// DefaultInterval is used until the operator picks another one.
const DefaultInterval = 10 * time.Second

// Intervals lists the periods the operator can choose from.
var Intervals = []time.Duration{
	5 * time.Second,
	10 * time.Second,
	15 * time.Second,
	20 * time.Second,
	30 * time.Second,
}

// ErrInvalidInterval is returned for periods outside Intervals.
var ErrInvalidInterval = errors.New("rotation: unsupported interval")

// ValidInterval reports whether d is one of Intervals.
func ValidInterval(d time.Duration) bool {
	for _, v := range Intervals {
		if v == d {
			return true
		}
	}
	return false
}

// Source is the read-only view of the collection being rotated.
type Source interface {
	Len() int
}

// State is a snapshot of the engine.
type State struct {
	Active   bool
	Interval time.Duration
	Cursor   int
}

// Engine moves a cursor over Source. It never touches the collection and is
// owned by a single goroutine; the scheduler's callbacks must be delivered
// on that goroutine too.
type Engine struct {
	source   Source
	sched    Scheduler
	interval time.Duration
	active   bool
	cursor   int

	cancel func()
	// gen invalidates callbacks from cancelled tasks.
	gen uint64

	onTick func(State)
}

// NewEngine creates an idle engine. onTick, if set, is called after every
// timer-driven change.
func NewEngine(source Source, sched Scheduler, interval time.Duration, onTick func(State)) *Engine {
	if !ValidInterval(interval) {
		interval = DefaultInterval
	}
	if onTick == nil {
		onTick = func(State) {}
	}
	return &Engine{
		source:   source,
		sched:    sched,
		interval: interval,
		onTick:   onTick,
	}
}

// State returns the current snapshot.
func (e *Engine) State() State {
	return State{Active: e.active, Interval: e.interval, Cursor: e.cursor}
}

// Enter starts the presentation. It stays idle on an empty collection and
// reports whether the engine is active afterwards.
func (e *Engine) Enter() bool {
	if e.active {
		return true
	}
	if e.source.Len() == 0 {
		return false
	}
	e.active = true
	e.start()
	return true
}

// Exit stops the presentation and rewinds the cursor.
func (e *Engine) Exit() {
	e.stop()
	e.cursor = 0
}

// SetInterval changes the period, restarting the timer when active.
func (e *Engine) SetInterval(d time.Duration) error {
	if !ValidInterval(d) {
		return ErrInvalidInterval
	}
	if d == e.interval {
		return nil
	}
	e.interval = d
	if e.active {
		e.cancelTask()
		e.start()
	}
	return nil
}

// Next moves the cursor forward, wrapping at the end.
func (e *Engine) Next() {
	n := e.source.Len()
	if n == 0 {
		e.cursor = 0
		return
	}
	e.cursor = (e.cursor%n + 1) % n
}

// Previous moves the cursor back, wrapping to the last entry.
func (e *Engine) Previous() {
	n := e.source.Len()
	if n == 0 {
		e.cursor = 0
		return
	}
	e.cursor = (e.cursor%n - 1 + n) % n
}

// Reset rewinds the cursor to the newest entry.
func (e *Engine) Reset() {
	e.cursor = 0
}

// Sync reconciles the engine with a mutated collection. An emptied
// collection ends the presentation.
func (e *Engine) Sync() {
	n := e.source.Len()
	if n == 0 {
		e.stop()
		e.cursor = 0
		return
	}
	e.cursor %= n
}

func (e *Engine) start() {
	e.gen++
	gen := e.gen
	e.cancel = e.sched.Schedule(e.interval, func() { e.tick(gen) })
}

func (e *Engine) stop() {
	e.cancelTask()
	e.active = false
}

func (e *Engine) cancelTask() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.gen++
}

func (e *Engine) tick(gen uint64) {
	if gen != e.gen || !e.active {
		return
	}
	n := e.source.Len()
	if n == 0 {
		e.stop()
		e.cursor = 0
	} else {
		e.cursor = (e.cursor + 1) % n
	}
	e.onTick(e.State())
}
