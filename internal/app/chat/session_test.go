package chat

import (
	"encoding/json"
	"strings"
	"testing"

	"hvchat/internal/pkg/errs"
)

func inboundFrame(t *testing.T, eventType EventType, payload any) []byte {
	t.Helper()
	frame, err := json.Marshal(Envelope{Type: eventType, Payload: mustJSON(t, payload)})
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	return frame
}

func TestProcessInboundEventDispatch(t *testing.T) {
	h := newTestHub(nil)
	s := newTestSession(h, "alice", false)
	peer := newTestSession(h, "bob", false)
	h.Register(s)
	h.Register(peer)
	drainEvents(t, s)
	drainEvents(t, peer)

	s.processInboundEvent(inboundFrame(t, EventMessage, MessagePayload{Text: "hi", Kind: KindEmote}))

	events := drainEvents(t, peer)
	msg, ok := findEvent(events, EventMessage)
	if !ok {
		t.Fatalf("frame not dispatched as a message, events: %v", events)
	}
	var record MessageRecord
	decodePayload(t, msg, &record)
	if record.Kind != KindEmote || record.Text != "hi" {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestProcessInboundEventGarbageIgnored(t *testing.T) {
	h := newTestHub(nil)
	s := newTestSession(h, "alice", false)
	peer := newTestSession(h, "bob", false)
	h.Register(s)
	h.Register(peer)
	drainEvents(t, s)
	drainEvents(t, peer)

	s.processInboundEvent([]byte("{not json"))
	s.processInboundEvent(inboundFrame(t, EventType("teleport"), struct{}{}))
	s.processInboundEvent(inboundFrame(t, EventMessage, "not an object"))

	if events := drainEvents(t, peer); len(events) != 0 {
		t.Fatalf("garbage frames produced broadcasts: %v", events)
	}
	if isQuit(s) {
		t.Fatal("garbage frames terminated the session")
	}
}

func TestHandleMessageEmptyTextDropped(t *testing.T) {
	h := newTestHub(nil)
	s := newTestSession(h, "alice", false)
	peer := newTestSession(h, "bob", false)
	h.Register(s)
	h.Register(peer)
	drainEvents(t, s)
	drainEvents(t, peer)

	s.handleMessage(mustJSON(t, MessagePayload{Text: ""}))

	if events := drainEvents(t, peer); len(events) != 0 {
		t.Fatalf("empty message broadcast: %v", events)
	}
	if events := drainEvents(t, s); len(events) != 0 {
		t.Fatalf("empty message produced sender feedback: %v", events)
	}
}

func TestHandleMessageTooLongRejected(t *testing.T) {
	h := newTestHub(nil)
	s := newTestSession(h, "alice", false)
	peer := newTestSession(h, "bob", false)
	h.Register(s)
	h.Register(peer)
	drainEvents(t, s)
	drainEvents(t, peer)

	s.handleMessage(mustJSON(t, MessagePayload{Text: strings.Repeat("x", MaxContentBytes+1)}))

	events := drainEvents(t, s)
	errEvent, ok := findEvent(events, EventError)
	if !ok {
		t.Fatalf("oversized message got no error event, events: %v", events)
	}
	var ep ErrorPayload
	decodePayload(t, errEvent, &ep)
	if ep.Code != errs.ErrMessageContentTooLong {
		t.Fatalf("error code = %d, want %d", ep.Code, errs.ErrMessageContentTooLong)
	}
	if events := drainEvents(t, peer); len(events) != 0 {
		t.Fatalf("oversized message still broadcast: %v", events)
	}
}

func TestHandleMessageUnknownKindFallsBackToNormal(t *testing.T) {
	h := newTestHub(nil)
	s := newTestSession(h, "alice", false)
	h.Register(s)
	drainEvents(t, s)

	s.handleMessage(mustJSON(t, MessagePayload{Text: "hi", Kind: MessageKind("shout")}))

	msg, ok := findEvent(drainEvents(t, s), EventMessage)
	if !ok {
		t.Fatal("message not delivered")
	}
	var record MessageRecord
	decodePayload(t, msg, &record)
	if record.Kind != KindNormal {
		t.Fatalf("kind = %q, want %q", record.Kind, KindNormal)
	}
}

func TestHandleMessageWhileBannedTerminates(t *testing.T) {
	h := newTestHub(nil)
	s := newTestSession(h, "alice", false)
	peer := newTestSession(h, "bob", false)
	h.Register(s)
	h.Register(peer)
	drainEvents(t, s)
	drainEvents(t, peer)

	// Ban lands after the session bound; the next send enforces it.
	h.banlist.Ban("alice")
	s.handleMessage(mustJSON(t, MessagePayload{Text: "still here?"}))

	if !isQuit(s) {
		t.Fatal("banned sender not terminated")
	}
	banned, ok := findEvent(drainEvents(t, s), EventBanned)
	if !ok {
		t.Fatal("banned sender got no notice")
	}
	var bp BannedPayload
	decodePayload(t, banned, &bp)
	if bp.Reason != BanReasonConnect {
		t.Fatalf("reason = %q, want %q", bp.Reason, BanReasonConnect)
	}
	if events := drainEvents(t, peer); len(events) != 0 {
		t.Fatalf("message from banned sender still broadcast: %v", events)
	}
}

func TestHandleMessageUnboundDropped(t *testing.T) {
	h := newTestHub(nil)
	s := newTestSession(h, "alice", false)
	peer := newTestSession(h, "bob", false)
	h.Register(s)
	h.Register(peer)
	h.Unregister(s)
	drainEvents(t, peer)

	s.handleMessage(mustJSON(t, MessagePayload{Text: "ghost"}))

	if events := drainEvents(t, peer); len(events) != 0 {
		t.Fatalf("unbound session's message broadcast: %v", events)
	}
}

func TestHandleJoinChannelBlankIgnored(t *testing.T) {
	h := newTestHub(nil)
	s := newTestSession(h, "alice", false)
	h.Register(s)

	s.handleJoinChannel(mustJSON(t, JoinChannelPayload{Channel: "   "}))

	if got := h.registry.ChannelOf(s); got != "main" {
		t.Fatalf("blank join moved the binding to %q", got)
	}
}

func TestHandleJoinChannelUnknownAllowed(t *testing.T) {
	h := newTestHub(nil)
	s := newTestSession(h, "alice", false)
	peer := newTestSession(h, "bob", false)
	h.Register(s)
	h.Register(peer)
	drainEvents(t, s)
	drainEvents(t, peer)

	// Unknown names are accepted; the session just hears nothing channel-scoped.
	s.handleJoinChannel(mustJSON(t, JoinChannelPayload{Channel: "limbo"}))
	if got := h.registry.ChannelOf(s); got != "limbo" {
		t.Fatalf("binding = %q, want limbo", got)
	}

	peer.handleMessage(mustJSON(t, MessagePayload{Text: "anyone home"}))
	if events := drainEvents(t, s); len(events) != 0 {
		t.Fatalf("session in unknown channel received %v", events)
	}
}

func TestAdminChannelEventsRequireModerator(t *testing.T) {
	h := newTestHub(nil)
	plain := newTestSession(h, "eve", false)
	h.Register(plain)
	drainEvents(t, plain)

	plain.handleAdminCreateChannel(mustJSON(t, AdminChannelPayload{Name: "lair"}))
	plain.handleAdminDeleteChannel(mustJSON(t, AdminChannelPayload{Name: "general"}))

	if h.directory.Has("lair") {
		t.Fatal("non-moderator created a channel")
	}
	if !h.directory.Has("general") {
		t.Fatal("non-moderator deleted a channel")
	}
	if events := drainEvents(t, plain); len(events) != 0 {
		t.Fatalf("ignored admin events produced feedback: %v", events)
	}
}

func TestAdminChannelEventsFromModerator(t *testing.T) {
	h := newTestHub(nil)
	mod := newTestSession(h, "alice", true)
	h.Register(mod)
	drainEvents(t, mod)

	mod.handleAdminCreateChannel(mustJSON(t, AdminChannelPayload{Name: "Lair"}))
	if !h.directory.Has("lair") {
		t.Fatal("moderator create did not take effect")
	}

	mod.handleAdminDeleteChannel(mustJSON(t, AdminChannelPayload{Name: "lair"}))
	if h.directory.Has("lair") {
		t.Fatal("moderator delete did not take effect")
	}

	events := drainEvents(t, mod)
	if _, ok := findEvent(events, EventChannelCreated); !ok {
		t.Fatalf("no channel_created broadcast, events: %v", events)
	}
	if _, ok := findEvent(events, EventChannelDeleted); !ok {
		t.Fatalf("no channel_deleted broadcast, events: %v", events)
	}
}

func TestTerminateIdempotentAndStopsEnqueue(t *testing.T) {
	h := newTestHub(nil)
	s := newTestSession(h, "alice", false)

	s.Terminate(BanReasonKick)
	s.Terminate(BanReasonKick)

	if !isQuit(s) {
		t.Fatal("quit channel not closed")
	}

	events := drainEvents(t, s)
	notices := 0
	for _, e := range events {
		if e.Type == EventBanned {
			notices++
		}
	}
	if notices != 1 {
		t.Fatalf("got %d banned notices, want exactly 1", notices)
	}

	if s.enqueue([]byte(`{"type":"presence"}`)) {
		t.Fatal("enqueue accepted a frame after termination")
	}
}

func TestEnqueueDropsWhenQueueFull(t *testing.T) {
	h := newTestHub(nil)
	s := newTestSession(h, "alice", false)

	frame := []byte(`{"type":"typing"}`)
	for i := 0; i < sendQueueSize; i++ {
		if !s.enqueue(frame) {
			t.Fatalf("enqueue %d failed below capacity", i)
		}
	}
	if s.enqueue(frame) {
		t.Fatal("enqueue succeeded beyond capacity")
	}
}

func TestMessageKindValid(t *testing.T) {
	for _, k := range []MessageKind{KindNormal, KindEmote, KindOOC} {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	for _, k := range []MessageKind{"", "shout", "NORMAL"} {
		if MessageKind(k).Valid() {
			t.Errorf("%q should be invalid", k)
		}
	}
}
