package display

import (
	"context"
	"time"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/guestbook"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
)

func (d *Display) do(ctx context.Context, cmd *Command) (result, error) {
	cmd.reply = make(chan result, 1)

	select {
	case d.commands <- cmd:
	case <-d.stopped:
		return result{}, ErrStopped
	case <-ctx.Done():
		return result{}, ctx.Err()
	}

	select {
	case res := <-cmd.reply:
		return res, nil
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
}

// SelectRoom makes room the active room. An empty room selects the default.
func (d *Display) SelectRoom(ctx context.Context, room string) (State, error) {
	res, err := d.do(ctx, &Command{Kind: CommandSelectRoom, Room: room})
	return res.state, err
}

// Submit validates draft and appends a new message.
func (d *Display) Submit(ctx context.Context, draft guestbook.Draft, att *media.Attachment) (guestbook.Message, error) {
	res, err := d.do(ctx, &Command{Kind: CommandSubmit, Draft: draft, Media: att})
	if err != nil {
		return guestbook.Message{}, err
	}
	return res.message, res.err
}

// Edit replaces message id. found is false when id is not in the active
// room, which is not an error.
func (d *Display) Edit(ctx context.Context, id int64, draft guestbook.Draft, att *media.Attachment) (msg guestbook.Message, found bool, err error) {
	res, err := d.do(ctx, &Command{Kind: CommandEdit, ID: id, Draft: draft, Media: att})
	if err != nil {
		return guestbook.Message{}, false, err
	}
	return res.message, res.found, res.err
}

// Delete removes message id. Unknown ids are a no-op.
func (d *Display) Delete(ctx context.Context, id int64) (found bool, err error) {
	res, err := d.do(ctx, &Command{Kind: CommandDelete, ID: id})
	return res.found, err
}

// EnterPresentation starts the rotation. It reports false when there is
// nothing to show.
func (d *Display) EnterPresentation(ctx context.Context) (bool, error) {
	res, err := d.do(ctx, &Command{Kind: CommandEnterPresentation})
	return res.active, err
}

// ExitPresentation stops the rotation.
func (d *Display) ExitPresentation(ctx context.Context) error {
	_, err := d.do(ctx, &Command{Kind: CommandExitPresentation})
	return err
}

// SetInterval changes the rotation period.
func (d *Display) SetInterval(ctx context.Context, interval time.Duration) error {
	res, err := d.do(ctx, &Command{Kind: CommandSetInterval, Interval: interval})
	if err != nil {
		return err
	}
	return res.err
}

// Next shows the following message.
func (d *Display) Next(ctx context.Context) (State, error) {
	res, err := d.do(ctx, &Command{Kind: CommandNext})
	return res.state, err
}

// Previous shows the preceding message.
func (d *Display) Previous(ctx context.Context) (State, error) {
	res, err := d.do(ctx, &Command{Kind: CommandPrevious})
	return res.state, err
}

// Snapshot returns the current state.
func (d *Display) Snapshot(ctx context.Context) (State, error) {
	res, err := d.do(ctx, &Command{Kind: CommandSnapshot})
	return res.state, err
}

// Subscribe registers sub. The current state is delivered first.
func (d *Display) Subscribe(ctx context.Context, sub *Subscriber) error {
	_, err := d.do(ctx, &Command{Kind: CommandSubscribe, Subscriber: sub})
	return err
}

// Unsubscribe removes sub and closes its channel.
func (d *Display) Unsubscribe(ctx context.Context, sub *Subscriber) error {
	_, err := d.do(ctx, &Command{Kind: CommandUnsubscribe, Subscriber: sub})
	return err
}
