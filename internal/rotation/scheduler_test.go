package rotation

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func waitFired(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected scheduled callback")
	}
}

func TestClockSchedulerTicksAndCancels(t *testing.T) {
	clk := clock.NewMock()
	s := NewClockScheduler(clk)

	fired := make(chan struct{}, 8)
	cancel := s.Schedule(5*time.Second, func() { fired <- struct{}{} })

	for i := 0; i < 3; i++ {
		clk.Add(5 * time.Second)
		waitFired(t, fired)
	}

	cancel()
	cancel()

	clk.Add(time.Minute)
	select {
	case <-fired:
		t.Fatalf("callback after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}
