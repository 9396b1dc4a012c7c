package guestbook

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv"
)

// NoticeKind identifies a guest-facing notice.
type NoticeKind string

// NoticeStorageCleared is emitted when a room's slot was dropped after the
// backend ran out of space.
const NoticeStorageCleared NoticeKind = "storage_cleared"

// Notice is a one-off message for the people looking at the display.
type Notice struct {
	Kind NoticeKind
	Room string
	Text string
}

// Notifier receives notices.
type Notifier func(Notice)

// Store is the in-memory collection of the active room, mirrored into the
// room's slot after every mutation. It is owned by a single goroutine.
type Store struct {
	slots    kv.Store
	room     string
	messages []Message
	notify   Notifier
	log      *zerolog.Logger
}

// NewStore creates an empty store for DefaultRoom. Call Load to select a room.
func NewStore(slots kv.Store, notify Notifier, logger *zerolog.Logger) *Store {
	if notify == nil {
		notify = func(Notice) {}
	}
	return &Store{
		slots:  slots,
		room:   DefaultRoom,
		notify: notify,
		log:    logger,
	}
}

// Room returns the active room.
func (s *Store) Room() string {
	return s.room
}

// Len returns the collection size.
func (s *Store) Len() int {
	return len(s.messages)
}

// Messages returns a copy of the collection, newest first.
func (s *Store) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Get returns the message with the given id.
func (s *Store) Get(id int64) (Message, bool) {
	for _, m := range s.messages {
		if m.ID == id {
			return m, true
		}
	}
	return Message{}, false
}

// Load discards the in-memory collection and reads room's slot. A missing
// or unreadable slot yields an empty collection.
func (s *Store) Load(ctx context.Context, room string) {
	s.room = room
	s.messages = nil

	key := SlotKey(room)
	raw, ok, err := s.slots.Get(ctx, key)
	if err != nil {
		s.log.Error().Err(err).Str("room", room).Msg("failed to read slot")
		return
	}
	if !ok {
		return
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn().Err(err).Str("room", room).Msg("corrupt slot, starting empty")
		return
	}
	if items == nil {
		s.log.Warn().Str("room", room).Msg("slot is not an array, starting empty")
		return
	}

	messages := make([]Message, 0, min(len(items), Capacity))
	for i, item := range items {
		if len(messages) == Capacity {
			break
		}
		var rec record
		if err := json.Unmarshal(item, &rec); err != nil {
			s.log.Warn().Err(err).Str("room", room).Int("index", i).Msg("skipping unreadable record")
			continue
		}
		m, err := rec.message()
		if err != nil {
			s.log.Warn().Err(err).Str("room", room).Int("index", i).Msg("skipping invalid record")
			continue
		}
		messages = append(messages, m)
	}
	s.messages = messages

	s.log.Debug().Str("room", room).Int("count", len(messages)).Msg("room loaded")
}

// Append inserts m at the head, evicting the oldest entries beyond Capacity.
// The evicted messages are returned so their media can be released.
func (s *Store) Append(ctx context.Context, m Message) []Message {
	next := make([]Message, 0, min(len(s.messages)+1, Capacity))
	next = append(next, m)

	var evicted []Message
	for i, old := range s.messages {
		if i+1 >= Capacity {
			evicted = append(evicted, s.messages[i:]...)
			break
		}
		next = append(next, old)
	}
	s.messages = next

	s.persist(ctx)
	return evicted
}

// Remove deletes the message with id. Unknown ids are a no-op.
func (s *Store) Remove(ctx context.Context, id int64) (Message, bool) {
	for i, m := range s.messages {
		if m.ID != id {
			continue
		}
		s.messages = append(s.messages[:i:i], s.messages[i+1:]...)
		s.persist(ctx)
		return m, true
	}
	return Message{}, false
}

// persist mirrors a non-empty collection into the room's slot. When the
// backend is out of space the slot is dropped and a notice is emitted; the
// in-memory collection is kept.
func (s *Store) persist(ctx context.Context) {
	if len(s.messages) == 0 {
		return
	}

	n := min(len(s.messages), Capacity)
	records := make([]record, 0, n)
	for _, m := range s.messages[:n] {
		records = append(records, toRecord(m))
	}

	data, err := json.Marshal(records)
	if err != nil {
		s.log.Error().Err(err).Str("room", s.room).Msg("failed to encode messages")
		return
	}

	key := SlotKey(s.room)
	err = s.slots.Set(ctx, key, string(data))
	if err == nil {
		return
	}

	s.log.Error().Err(err).Str("room", s.room).Msg("failed to save messages")
	if !errors.Is(err, kv.ErrQuotaExceeded) {
		return
	}

	if rmErr := s.slots.Remove(ctx, key); rmErr != nil {
		s.log.Error().Err(rmErr).Str("room", s.room).Msg("failed to clear slot")
	}
	s.notify(Notice{
		Kind: NoticeStorageCleared,
		Room: s.room,
		Text: "Storage limit reached. Old messages were cleared.",
	})
}
