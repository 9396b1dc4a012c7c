package http

import (
	"context"
	"encoding/json"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/display"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/guestbook"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/proto"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/rotation"
)

func messageToProto(m guestbook.Message) proto.Message {
	out := proto.Message{
		ID:        m.ID,
		Text:      m.Text,
		Author:    m.Author,
		Date:      m.Date,
		CreatedAt: m.CreatedAt,
	}
	if m.Media != nil {
		url := m.Media.URL
		typ := string(m.Media.Type)
		out.MediaURL = &url
		out.MediaType = &typ
	}
	return out
}

func stateToProto(s display.State) proto.State {
	out := proto.State{
		Room:                 s.Room,
		Messages:             make([]proto.Message, 0, len(s.Messages)),
		CurrentIndex:         s.CurrentIndex,
		IsPresentationActive: s.IsPresentationActive,
		IntervalMs:           s.Interval.Milliseconds(),
	}
	for _, m := range s.Messages {
		out.Messages = append(out.Messages, messageToProto(m))
	}
	if cur, ok := s.Current(); ok {
		pm := messageToProto(cur)
		out.Current = &pm
	}
	return out
}

func outboundFromEvent(event *display.Event) proto.Outbound {
	switch event.Kind {
	case display.EventState:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventState,
			Data:  stateToProto(*event.State),
		}
	case display.EventNotice:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNotice,
			Data: proto.Notice{
				Kind: string(event.Notice.Kind),
				Room: event.Notice.Room,
				Text: event.Notice.Text,
			},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func badRequest(msg string) *proto.Error {
	return &proto.Error{Code: "bad_request", Msg: msg}
}

// applyInbound runs a presentation command received over the socket. State
// changes reach the client through its subscription, so only hello has a
// direct reply.
func applyInbound(ctx context.Context, d *display.Display, inbound proto.Inbound) (*proto.Outbound, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeHello:
		var hello proto.HelloData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &hello); err != nil {
				return nil, badRequest("invalid hello payload"), nil
			}
		}
		if hello.Protocol != 0 && hello.Protocol != proto.ProtocolVersion {
			return nil, &proto.Error{Code: "unsupported_protocol", Msg: "unsupported protocol version"}, nil
		}
		return &proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventHello,
			Data:  proto.HelloReply{Protocol: proto.ProtocolVersion},
		}, nil, nil
	case proto.InboundTypeControl:
		var ctl proto.ControlData
		if err := json.Unmarshal(inbound.Data, &ctl); err != nil {
			return nil, badRequest("invalid control payload"), nil
		}
		var err error
		switch ctl.Action {
		case proto.ActionEnter:
			_, err = d.EnterPresentation(ctx)
		case proto.ActionExit:
			err = d.ExitPresentation(ctx)
		case proto.ActionNext:
			_, err = d.Next(ctx)
		case proto.ActionPrevious:
			_, err = d.Previous(ctx)
		default:
			return nil, badRequest("unknown action"), nil
		}
		return nil, nil, err
	case proto.InboundTypeInterval:
		var iv proto.IntervalData
		if err := json.Unmarshal(inbound.Data, &iv); err != nil {
			return nil, badRequest("invalid interval payload"), nil
		}
		err := d.SetInterval(ctx, time.Duration(iv.IntervalMs)*time.Millisecond)
		if errors.Is(err, rotation.ErrInvalidInterval) {
			return nil, badRequest("interval must be 5, 10, 15, 20 or 30 seconds"), nil
		}
		return nil, nil, err
	case proto.InboundTypeRoom:
		var room proto.RoomData
		if err := json.Unmarshal(inbound.Data, &room); err != nil {
			return nil, badRequest("invalid room payload"), nil
		}
		if utf8.RuneCountInString(room.Room) > maxRoomLen {
			return nil, badRequest("room name is too long"), nil
		}
		_, err := d.SelectRoom(ctx, room.Room)
		return nil, nil, err
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}
