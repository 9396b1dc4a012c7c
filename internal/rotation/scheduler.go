package rotation

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Scheduler runs fn every interval until the returned cancel func is called.
type Scheduler interface {
	Schedule(interval time.Duration, fn func()) (cancel func())
}

// ClockScheduler schedules on a clock ticker.
type ClockScheduler struct {
	clock clock.Clock
}

// NewClockScheduler creates a scheduler driven by clk.
func NewClockScheduler(clk clock.Clock) *ClockScheduler {
	return &ClockScheduler{clock: clk}
}

// Schedule starts a ticker goroutine. cancel is idempotent and no call to fn
// starts after it returns.
func (s *ClockScheduler) Schedule(interval time.Duration, fn func()) func() {
	ticker := s.clock.Ticker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
