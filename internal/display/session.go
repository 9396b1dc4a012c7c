package display

import (
	"context"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/guestbook"
)

// selectRoom ends any presentation, drops the outgoing room's in-memory
// state and loads the new room from its slot.
func (d *Display) selectRoom(ctx context.Context, room string) {
	if room == "" {
		room = guestbook.DefaultRoom
	}

	d.engine.Exit()
	d.releaseAll(d.store.Messages())
	d.store.Load(ctx, room)
	d.room = room
	d.broadcastState()

	d.log.Info().Str("room", room).Int("messages", d.store.Len()).Msg("room selected")
}
