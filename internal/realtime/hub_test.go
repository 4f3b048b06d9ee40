package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/omdarshan-4964/chat-application-alignbox/internal/db"
)

type stubStore struct {
	mu       sync.Mutex
	messages []db.Message
	appendFn func() error
	listErr  error
}

func (s *stubStore) Append(_ context.Context, msg *db.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendFn != nil {
		if err := s.appendFn(); err != nil {
			return err
		}
	}
	msg.ID = int64(len(s.messages) + 1)
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *stubStore) ListAll(_ context.Context) ([]db.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]db.Message, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

func (s *stubStore) stored() []db.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]db.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func newTestClient(t *testing.T, hub *Hub, store db.Store, name string) *Client {
	t.Helper()
	client := &Client{
		hub:         hub,
		store:       store,
		send:        make(chan []byte, sendBufferSize),
		displayName: name,
	}
	select {
	case hub.register <- client:
	case <-time.After(time.Second):
		t.Fatal("timed out registering client")
	}
	return client
}

func receiveFrame(t *testing.T, client *Client) Envelope {
	t.Helper()
	select {
	case raw := <-client.send:
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("invalid frame: %v", err)
		}
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return Envelope{}
	}
}

func expectNoFrame(t *testing.T, client *Client) {
	t.Helper()
	select {
	case raw := <-client.send:
		t.Fatalf("expected no frame, got %s", raw)
	case <-time.After(100 * time.Millisecond):
	}
}

func decodeMessage(t *testing.T, env Envelope) db.Message {
	t.Helper()
	if env.Event != EventChatMessage {
		t.Fatalf("expected %q event, got %q", EventChatMessage, env.Event)
	}
	var msg db.Message
	if err := json.Unmarshal(env.Payload, &msg); err != nil {
		t.Fatalf("invalid message payload: %v", err)
	}
	return msg
}

func TestBroadcastToOthersExcludesSender(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	store := &stubStore{}
	alice := newTestClient(t, hub, store, "Alice")
	bob := newTestClient(t, hub, store, "Bob")
	carol := newTestClient(t, hub, store, "Carol")

	alice.handleChatMessage(ChatInput{Text: "hello https://a.test"})

	for _, client := range []*Client{bob, carol} {
		msg := decodeMessage(t, receiveFrame(t, client))
		if msg.MessageText != "hello https://a.test" {
			t.Errorf("expected text preserved, got %q", msg.MessageText)
		}
		if msg.SenderName != "Alice" {
			t.Errorf("expected sender Alice, got %q", msg.SenderName)
		}
		if msg.MessageType != db.TypeText {
			t.Errorf("expected type text, got %q", msg.MessageType)
		}
		if msg.FileURL != nil {
			t.Errorf("expected nil file_url, got %v", *msg.FileURL)
		}
	}
	expectNoFrame(t, alice)
}

func TestBroadcastToAllIncludesEveryone(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	store := &stubStore{}
	alice := newTestClient(t, hub, store, "Alice")
	bob := newTestClient(t, hub, store, "Bob")

	fileURL := "/uploads/1-x.png"
	payload, err := MessageEvent(db.Message{
		SenderName:  "Bob",
		MessageText: "photo.png",
		MessageType: db.TypeImage,
		FileURL:     &fileURL,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hub.BroadcastToAll(payload)

	for _, client := range []*Client{alice, bob} {
		msg := decodeMessage(t, receiveFrame(t, client))
		if msg.MessageType != db.TypeImage {
			t.Errorf("expected image message, got %q", msg.MessageType)
		}
	}
}

func TestChatMessagePersistedBeforeBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	store := &stubStore{}
	alice := newTestClient(t, hub, store, "Alice")
	bob := newTestClient(t, hub, store, "Bob")

	alice.handleChatMessage(ChatInput{Text: "hi"})
	receiveFrame(t, bob)

	stored := store.stored()
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(stored))
	}
	if stored[0].SenderName != "Alice" || stored[0].MessageText != "hi" {
		t.Errorf("unexpected stored message: %+v", stored[0])
	}
	if stored[0].CreatedAt.IsZero() {
		t.Error("expected created_at to be assigned")
	}
}

func TestAnonymousMessageHidesSenderName(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	store := &stubStore{}
	alice := newTestClient(t, hub, store, "Alice")
	bob := newTestClient(t, hub, store, "Bob")

	alice.handleChatMessage(ChatInput{Text: "who am I", IsAnonymous: true})

	msg := decodeMessage(t, receiveFrame(t, bob))
	if msg.SenderName != db.AnonymousName {
		t.Errorf("expected sender %q, got %q", db.AnonymousName, msg.SenderName)
	}
	if !msg.IsAnonymous {
		t.Error("expected is_anonymous true")
	}
	stored := store.stored()
	if stored[0].SenderName != db.AnonymousName {
		t.Errorf("expected stored sender %q, got %q", db.AnonymousName, stored[0].SenderName)
	}
}

func TestAppendFailureIsSilent(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	store := &stubStore{appendFn: func() error { return errors.New("database unreachable") }}
	alice := newTestClient(t, hub, store, "Alice")
	bob := newTestClient(t, hub, store, "Bob")

	alice.handleChatMessage(ChatInput{Text: "lost"})

	// No broadcast and no error frame back to the sender.
	expectNoFrame(t, bob)
	expectNoFrame(t, alice)
}

func TestSendHistoryDeliversOrderedBatch(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	store := &stubStore{}
	for _, text := range []string{"first", "second"} {
		msg := db.Message{SenderName: "Alice", MessageText: text, MessageType: db.TypeText}
		if err := store.Append(context.Background(), &msg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	bob := newTestClient(t, hub, store, "Bob")
	bob.sendHistory()

	env := receiveFrame(t, bob)
	if env.Event != EventLoadHistory {
		t.Fatalf("expected %q event, got %q", EventLoadHistory, env.Event)
	}
	var history []db.Message
	if err := json.Unmarshal(env.Payload, &history); err != nil {
		t.Fatalf("invalid history payload: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].MessageText != "first" || history[1].MessageText != "second" {
		t.Errorf("history out of order: %q, %q", history[0].MessageText, history[1].MessageText)
	}
}

func TestSendHistoryFailureLeavesConnectionUp(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	store := &stubStore{listErr: errors.New("database unreachable")}
	alice := newTestClient(t, hub, store, "Alice")
	bob := newTestClient(t, hub, store, "Bob")

	bob.sendHistory()
	expectNoFrame(t, bob)

	// The connection still takes part in fan-out.
	payload, err := MessageEvent(db.Message{SenderName: "Alice", MessageText: "still here", MessageType: db.TypeText})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hub.BroadcastToOthers(alice, payload)
	msg := decodeMessage(t, receiveFrame(t, bob))
	if msg.MessageText != "still here" {
		t.Errorf("expected broadcast after history failure, got %q", msg.MessageText)
	}
}

func TestUnregisterRemovesClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	store := &stubStore{}
	alice := newTestClient(t, hub, store, "Alice")
	bob := newTestClient(t, hub, store, "Bob")

	select {
	case hub.unregister <- bob:
	case <-time.After(time.Second):
		t.Fatal("timed out unregistering client")
	}

	// Wait for the hub to process the unregister: the send channel closes.
	select {
	case _, ok := <-bob.send:
		if ok {
			t.Fatal("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for send channel close")
	}

	payload, err := MessageEvent(db.Message{SenderName: "Alice", MessageText: "bye", MessageType: db.TypeText})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hub.BroadcastToAll(payload)
	receiveFrame(t, alice)
}
