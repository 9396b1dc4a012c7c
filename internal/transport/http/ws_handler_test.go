package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/config"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/proto"
)

type rawOutbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func dialWS(t *testing.T, env *testEnv) (*websocket.Conn, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	wsURL := strings.Replace(env.server.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn, ctx
}

func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, match func(rawOutbound) bool) rawOutbound {
	t.Helper()

	for {
		var out rawOutbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read outbound: %v", err)
		}
		if match(out) {
			return out
		}
	}
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, typ string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		t.Fatalf("write inbound: %v", err)
	}
}

func isState(pred func(proto.State) bool) func(rawOutbound) bool {
	return func(out rawOutbound) bool {
		if out.Type != proto.OutboundTypeEvent || out.Event != proto.EventState {
			return false
		}
		var state proto.State
		if err := json.Unmarshal(out.Data, &state); err != nil {
			return false
		}
		return pred(state)
	}
}

func TestWebSocketFeed(t *testing.T) {
	env := startTestServer(t, nil)
	conn, ctx := dialWS(t, env)

	readUntil(t, ctx, conn, isState(func(s proto.State) bool { return s.Room == "boda" }))

	send(t, ctx, conn, proto.InboundTypeHello, proto.HelloData{Client: "screen", Protocol: proto.ProtocolVersion})
	readUntil(t, ctx, conn, func(out rawOutbound) bool { return out.Event == proto.EventHello })

	resp := env.do(t, stdhttp.MethodPost, "/api/messages", MessageRequest{Author: "Ana", Text: "Felicidades!"})
	expectStatus(t, resp, stdhttp.StatusCreated)

	readUntil(t, ctx, conn, isState(func(s proto.State) bool {
		return len(s.Messages) == 1 && s.Messages[0].Author == "Ana"
	}))

	send(t, ctx, conn, proto.InboundTypeControl, proto.ControlData{Action: proto.ActionEnter})
	readUntil(t, ctx, conn, isState(func(s proto.State) bool { return s.IsPresentationActive }))

	send(t, ctx, conn, proto.InboundTypeRoom, proto.RoomData{Room: "despedida"})
	readUntil(t, ctx, conn, isState(func(s proto.State) bool {
		return s.Room == "despedida" && !s.IsPresentationActive && len(s.Messages) == 0
	}))
}

func TestWebSocketErrors(t *testing.T) {
	env := startTestServer(t, nil)
	conn, ctx := dialWS(t, env)

	send(t, ctx, conn, "dance", nil)
	out := readUntil(t, ctx, conn, func(out rawOutbound) bool { return out.Type == proto.OutboundTypeError })
	if out.Error == nil || out.Error.Code != "invalid_message" {
		t.Fatalf("unexpected error: %+v", out.Error)
	}

	send(t, ctx, conn, proto.InboundTypeInterval, proto.IntervalData{IntervalMs: 1234})
	out = readUntil(t, ctx, conn, func(out rawOutbound) bool { return out.Type == proto.OutboundTypeError })
	if out.Error == nil || out.Error.Code != "bad_request" {
		t.Fatalf("unexpected error: %+v", out.Error)
	}
}

func TestWebSocketRateLimit(t *testing.T) {
	env := startTestServer(t, func(cfg *config.Config) {
		cfg.WSRateLimit = 1
	})
	conn, ctx := dialWS(t, env)

	send(t, ctx, conn, proto.InboundTypeHello, proto.HelloData{Client: "screen"})
	readUntil(t, ctx, conn, func(out rawOutbound) bool { return out.Event == proto.EventHello })

	send(t, ctx, conn, proto.InboundTypeHello, proto.HelloData{Client: "screen"})
	out := readUntil(t, ctx, conn, func(out rawOutbound) bool { return out.Type == proto.OutboundTypeError })
	if out.Error == nil || out.Error.Code != "rate_limited" {
		t.Fatalf("unexpected error: %+v", out.Error)
	}
}

func TestWebSocketRoomNameBound(t *testing.T) {
	env := startTestServer(t, nil)
	conn, ctx := dialWS(t, env)

	send(t, ctx, conn, proto.InboundTypeRoom, proto.RoomData{Room: strings.Repeat("x", maxRoomLen+1)})
	out := readUntil(t, ctx, conn, func(out rawOutbound) bool { return out.Type == proto.OutboundTypeError })
	if out.Error == nil || out.Error.Code != "bad_request" {
		t.Fatalf("unexpected error: %+v", out.Error)
	}

	resp := env.do(t, stdhttp.MethodGet, "/api/display", nil)
	if state := decode[proto.State](t, resp); state.Room != "boda" {
		t.Fatalf("room must not change, got %q", state.Room)
	}
}
