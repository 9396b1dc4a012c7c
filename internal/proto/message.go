package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the presentation client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeHello    = "hello"
	InboundTypeControl  = "control"
	InboundTypeInterval = "interval"
	InboundTypeRoom     = "room"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventHello  = "hello"
	EventState  = "state"
	EventNotice = "notice"
)

// Control actions.
const (
	ActionEnter    = "enter"
	ActionExit     = "exit"
	ActionNext     = "next"
	ActionPrevious = "previous"
)

// HelloData is sent by the client to introduce itself.
type HelloData struct {
	Client   string `json:"client"`
	Protocol int    `json:"protocol,omitempty"`
}

// ControlData drives the presentation.
type ControlData struct {
	Action string `json:"action"`
}

// IntervalData changes the rotation period.
type IntervalData struct {
	IntervalMs int64 `json:"intervalMs"`
}

// RoomData switches the active room.
type RoomData struct {
	Room string `json:"room"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// HelloReply acknowledges a hello.
type HelloReply struct {
	Protocol int `json:"protocol"`
}

// Message is a guestbook message as clients see it.
type Message struct {
	ID        int64   `json:"id"`
	Text      string  `json:"text"`
	Author    string  `json:"author"`
	Date      string  `json:"date"`
	CreatedAt int64   `json:"createdAt"`
	MediaURL  *string `json:"mediaUrl"`
	MediaType *string `json:"mediaType"`
}

// State is a snapshot of the display.
type State struct {
	Room                 string    `json:"room"`
	Messages             []Message `json:"messages"`
	CurrentIndex         int       `json:"currentIndex"`
	IsPresentationActive bool      `json:"isPresentationActive"`
	IntervalMs           int64     `json:"intervalMs"`
	Current              *Message  `json:"current,omitempty"`
}

// Notice is a one-off message for the audience.
type Notice struct {
	Kind string `json:"kind"`
	Room string `json:"room"`
	Text string `json:"text"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
