package ws

import (
	"encoding/json"
	"math/rand"
	"testing"

	"megamind_api/internal/game"
	"megamind_api/internal/shapes"
)

func newTestHub() *Hub {
	catalog := shapes.NewCatalog(rand.New(rand.NewSource(3)))
	return NewHub(game.NewRegistry(catalog, 40))
}

func recvResult(t *testing.T, c *Client) ResultPayload {
	t.Helper()
	select {
	case msg := <-c.Send:
		var res ResultPayload
		if err := json.Unmarshal(msg, &res); err != nil {
			t.Fatalf("unmarshal %s: %v", msg, err)
		}
		return res
	default:
		t.Fatal("no message queued")
		return ResultPayload{}
	}
}

func TestHub_FrameAdvancesSession(t *testing.T) {
	hub := newTestHub()
	c := NewClient("user-a", nil, hub)

	// pin the shape so the hit coordinates are known
	hub.HandleMessage(c, []byte(`{"type":"reset","shape":"square"}`))
	res := recvResult(t, c)
	if res.Type != MsgResult || res.ShapeName != "square" || res.Progress != 0 {
		t.Fatalf("reset result = %+v", res)
	}

	// first square corner is (200,120)
	hub.HandleMessage(c, []byte(`{"type":"frame","fingertip":{"x":205,"y":118}}`))
	res = recvResult(t, c)
	if res.Progress != 1 {
		t.Fatalf("progress = %d, want 1", res.Progress)
	}

	// absent fingertip is a valid no-detection tick
	hub.HandleMessage(c, []byte(`{"type":"frame"}`))
	res = recvResult(t, c)
	if res.Progress != 1 {
		t.Fatalf("progress after empty frame = %d, want 1", res.Progress)
	}
}

func TestHub_ResetUnknownShape(t *testing.T) {
	hub := newTestHub()
	c := NewClient("user-a", nil, hub)

	hub.HandleMessage(c, []byte(`{"type":"reset","shape":"dodecahedron"}`))

	var errPayload ErrorPayload
	if err := json.Unmarshal(<-c.Send, &errPayload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if errPayload.Type != MsgError {
		t.Fatalf("payload = %+v, want error", errPayload)
	}
}

func TestHub_MalformedAndUnknownMessages(t *testing.T) {
	hub := newTestHub()
	c := NewClient("user-a", nil, hub)

	for _, raw := range []string{`{not json`, `{"type":"teleport"}`} {
		hub.HandleMessage(c, []byte(raw))
		var errPayload ErrorPayload
		if err := json.Unmarshal(<-c.Send, &errPayload); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if errPayload.Type != MsgError {
			t.Fatalf("%q: payload = %+v, want error", raw, errPayload)
		}
	}

	// ping produces no reply
	hub.HandleMessage(c, []byte(`{"type":"ping"}`))
	select {
	case msg := <-c.Send:
		t.Fatalf("ping produced %s", msg)
	default:
	}
}

func TestHub_RegisterReplacesConnection(t *testing.T) {
	hub := newTestHub()

	c1 := NewClient("user-a", nil, hub)
	c2 := NewClient("user-a", nil, hub)
	hub.clients["user-a"] = c1

	hub.mu.Lock()
	got := hub.clients["user-a"]
	hub.mu.Unlock()
	if got != c1 {
		t.Fatal("setup failed")
	}

	// second connection for the same user takes over
	hub.mu.Lock()
	hub.clients["user-a"] = c2
	hub.mu.Unlock()

	hub.OnDisconnect(c1) // stale disconnect must not evict the live client

	hub.mu.Lock()
	got = hub.clients["user-a"]
	hub.mu.Unlock()
	if got != c2 {
		t.Fatal("stale disconnect removed the live connection")
	}
}

func TestHub_SessionSurvivesReconnect(t *testing.T) {
	hub := newTestHub()

	c1 := NewClient("user-a", nil, hub)
	hub.HandleMessage(c1, []byte(`{"type":"reset","shape":"square"}`))
	<-c1.Send
	hub.HandleMessage(c1, []byte(`{"type":"frame","fingertip":{"x":200,"y":120}}`))
	<-c1.Send

	// new connection, same user: progress carries over
	c2 := NewClient("user-a", nil, hub)
	hub.HandleMessage(c2, []byte(`{"type":"frame"}`))
	res := recvResult(t, c2)
	if res.Progress != 1 || res.ShapeName != "square" {
		t.Fatalf("after reconnect: %+v", res)
	}
}
