package display

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv/memory"
	applog "github.com/alejandrobavaro/msjspantallaeventos/internal/log"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
)

type testDisplay struct {
	*Display
	clock    *clock.Mock
	slots    kv.Store
	registry *media.Registry
}

func startDisplay(t *testing.T, slots kv.Store) *testDisplay {
	t.Helper()

	if slots == nil {
		slots = memory.New(0)
	}
	clk := clock.NewMock()
	clk.Set(time.Date(2025, time.November, 23, 21, 0, 0, 0, time.UTC))
	reg := media.NewRegistry()

	d := New(Options{
		Slots:    slots,
		Registry: reg,
		Logger:   applog.Nop(),
		Clock:    clk,
		Location: time.UTC,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)
	t.Cleanup(cancel)

	return &testDisplay{Display: d, clock: clk, slots: slots, registry: reg}
}

func mustState(t *testing.T, ch <-chan *Event, match func(State) bool) State {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("event channel closed")
			}
			if ev.Kind == EventState && match(*ev.State) {
				return *ev.State
			}
		case <-deadline:
			t.Fatalf("expected state event not received")
			return State{}
		}
	}
}

func mustNotice(t *testing.T, ch <-chan *Event) *Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == EventNotice {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected notice event not received")
			return nil
		}
	}
}
