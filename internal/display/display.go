// Package display runs one display instance: the active room's message
// store, the rotation engine and the subscribers rendering them.
//
// All state is owned by the goroutine started with Run. Callers post
// commands and wait for the reply; rotation ticks are delivered on the same
// goroutine, so every mutation and the persist that follows it happen in a
// single turn.
package display

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/guestbook"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/rotation"
)

// Options configures a Display.
type Options struct {
	Slots    kv.Store
	Registry *media.Registry
	Logger   *zerolog.Logger

	// Clock defaults to the wall clock.
	Clock clock.Clock
	// Scheduler defaults to a ticker on Clock.
	Scheduler rotation.Scheduler
	// Interval defaults to rotation.DefaultInterval.
	Interval time.Duration
	// Room is loaded when Run starts. Defaults to guestbook.DefaultRoom.
	Room string
	// Location is used for display dates. Defaults to time.Local.
	Location *time.Location
	// AcceptRoom reports whether a room takes new messages. Nil accepts all.
	AcceptRoom func(room string) bool
}

// Display is a single display instance.
type Display struct {
	commands chan *Command
	tasks    chan func()
	stopped  chan struct{}

	store    *guestbook.Store
	engine   *rotation.Engine
	stamper  *guestbook.Stamper
	registry *media.Registry
	subs     map[*Subscriber]struct{}
	room     string
	accept   func(string) bool
	log      *zerolog.Logger
}

// New creates a display. Nothing happens until Run is called.
func New(opts Options) *Display {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = rotation.NewClockScheduler(opts.Clock)
	}
	if opts.Interval == 0 {
		opts.Interval = rotation.DefaultInterval
	}
	if opts.Room == "" {
		opts.Room = guestbook.DefaultRoom
	}
	if opts.Registry == nil {
		opts.Registry = media.NewRegistry()
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}

	d := &Display{
		commands: make(chan *Command),
		tasks:    make(chan func(), 1),
		stopped:  make(chan struct{}),
		stamper:  guestbook.NewStamper(opts.Clock, opts.Location),
		registry: opts.Registry,
		subs:     make(map[*Subscriber]struct{}),
		room:     opts.Room,
		accept:   opts.AcceptRoom,
		log:      opts.Logger,
	}
	d.store = guestbook.NewStore(opts.Slots, d.onNotice, opts.Logger)
	d.engine = rotation.NewEngine(
		d.store,
		&actorScheduler{inner: opts.Scheduler, post: d.post},
		opts.Interval,
		func(rotation.State) { d.broadcastState() },
	)
	return d
}

// Run processes commands until ctx is cancelled.
func (d *Display) Run(ctx context.Context) {
	defer close(d.stopped)

	d.store.Load(ctx, d.room)
	d.log.Info().Str("room", d.room).Int("messages", d.store.Len()).Msg("display started")

	for {
		select {
		case <-ctx.Done():
			d.shutdown()
			return
		case cmd := <-d.commands:
			d.handle(ctx, cmd)
		case fn := <-d.tasks:
			fn()
		}
	}
}

func (d *Display) shutdown() {
	d.engine.Exit()
	for sub := range d.subs {
		delete(d.subs, sub)
		close(sub.Events)
	}
	d.log.Info().Msg("display stopped")
}

// post runs fn on the display goroutine.
func (d *Display) post(fn func()) {
	select {
	case d.tasks <- fn:
	case <-d.stopped:
	}
}

func (d *Display) handle(ctx context.Context, cmd *Command) {
	var res result

	switch cmd.Kind {
	case CommandSelectRoom:
		d.selectRoom(ctx, cmd.Room)
	case CommandSubmit:
		res.message, res.err = d.submit(ctx, cmd.Draft, cmd.Media)
	case CommandEdit:
		res.message, res.found, res.err = d.edit(ctx, cmd.ID, cmd.Draft, cmd.Media)
	case CommandDelete:
		res.found = d.remove(ctx, cmd.ID)
	case CommandEnterPresentation:
		res.active = d.engine.Enter()
		d.broadcastState()
	case CommandExitPresentation:
		d.engine.Exit()
		d.broadcastState()
	case CommandSetInterval:
		if res.err = d.engine.SetInterval(cmd.Interval); res.err == nil {
			d.broadcastState()
		}
	case CommandNext:
		d.engine.Next()
		d.broadcastState()
	case CommandPrevious:
		d.engine.Previous()
		d.broadcastState()
	case CommandSnapshot:
	case CommandSubscribe:
		d.subs[cmd.Subscriber] = struct{}{}
		state := d.state()
		cmd.Subscriber.send(&Event{Kind: EventState, State: &state})
	case CommandUnsubscribe:
		if _, ok := d.subs[cmd.Subscriber]; ok {
			delete(d.subs, cmd.Subscriber)
			close(cmd.Subscriber.Events)
		}
	}

	res.state = d.state()
	if cmd.reply != nil {
		cmd.reply <- res
	}
}

func (d *Display) submit(ctx context.Context, draft guestbook.Draft, att *media.Attachment) (guestbook.Message, error) {
	draft, err := draft.Validate()
	if err != nil {
		return guestbook.Message{}, err
	}
	if !d.accepting() {
		return guestbook.Message{}, ErrRoomClosed
	}
	if err := d.claim(att); err != nil {
		return guestbook.Message{}, err
	}

	msg := d.stamper.Stamp(draft, att)
	d.releaseAll(d.store.Append(ctx, msg))
	d.engine.Reset()
	d.engine.Sync()
	d.broadcastState()

	d.log.Info().Str("room", d.store.Room()).Int64("id", msg.ID).Str("author", msg.Author).Msg("message submitted")
	return msg, nil
}

// edit deletes the original and submits the edited copy under a new id.
// Without a new attachment the original's one is carried over.
func (d *Display) edit(ctx context.Context, id int64, draft guestbook.Draft, att *media.Attachment) (guestbook.Message, bool, error) {
	draft, err := draft.Validate()
	if err != nil {
		return guestbook.Message{}, false, err
	}
	if !d.accepting() {
		return guestbook.Message{}, false, ErrRoomClosed
	}

	old, ok := d.store.Get(id)
	if !ok {
		return guestbook.Message{}, false, nil
	}
	replaced := att != nil && (old.Media == nil || old.Media.URL != att.URL)
	if replaced {
		if err := d.claim(att); err != nil {
			return guestbook.Message{}, false, err
		}
	}

	d.store.Remove(ctx, id)
	if att == nil {
		att = old.Media
	} else if replaced {
		d.release(old)
	}

	msg := d.stamper.Stamp(draft, att)
	d.releaseAll(d.store.Append(ctx, msg))
	d.engine.Reset()
	d.engine.Sync()
	d.broadcastState()

	d.log.Info().Str("room", d.store.Room()).Int64("old_id", id).Int64("id", msg.ID).Msg("message edited")
	return msg, true, nil
}

func (d *Display) accepting() bool {
	return d.accept == nil || d.accept(d.store.Room())
}

func (d *Display) remove(ctx context.Context, id int64) bool {
	old, ok := d.store.Remove(ctx, id)
	if !ok {
		return false
	}
	d.release(old)
	d.engine.Sync()
	d.broadcastState()

	d.log.Info().Str("room", d.store.Room()).Int64("id", id).Msg("message deleted")
	return true
}

// claim takes ownership of an ephemeral attachment for a new message.
func (d *Display) claim(att *media.Attachment) error {
	if att == nil || !att.Ephemeral() {
		return nil
	}
	return d.registry.Claim(att.URL)
}

func (d *Display) release(m guestbook.Message) {
	if m.Media != nil && m.Media.Ephemeral() {
		d.registry.Revoke(m.Media.URL)
	}
}

func (d *Display) releaseAll(msgs []guestbook.Message) {
	for _, m := range msgs {
		d.release(m)
	}
}

func (d *Display) state() State {
	rs := d.engine.State()
	return State{
		Room:                 d.store.Room(),
		Messages:             d.store.Messages(),
		CurrentIndex:         rs.Cursor,
		IsPresentationActive: rs.Active,
		Interval:             rs.Interval,
	}
}

func (d *Display) broadcastState() {
	if len(d.subs) == 0 {
		return
	}
	state := d.state()
	ev := &Event{Kind: EventState, State: &state}
	for sub := range d.subs {
		sub.send(ev)
	}
}

func (d *Display) onNotice(n guestbook.Notice) {
	d.log.Warn().Str("room", n.Room).Str("kind", string(n.Kind)).Msg(n.Text)
	ev := &Event{Kind: EventNotice, Notice: &n}
	for sub := range d.subs {
		sub.send(ev)
	}
}

// actorScheduler delivers scheduled callbacks on the display goroutine.
type actorScheduler struct {
	inner rotation.Scheduler
	post  func(func())
}

func (s *actorScheduler) Schedule(interval time.Duration, fn func()) func() {
	return s.inner.Schedule(interval, func() { s.post(fn) })
}
