package db

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Store is the append-only message log. Append assigns the ID and, when
// unset, the CreatedAt timestamp on the passed message. ListAll returns
// every message ordered ascending by creation time; it is safe to call
// concurrently with Append, with no snapshot guarantee for in-flight
// appends.
type Store interface {
	Append(ctx context.Context, msg *Message) error
	ListAll(ctx context.Context) ([]Message, error)
}

// Memory keeps the message log in process memory. It backs tests and
// carries the same ordering contract as the Postgres store.
type Memory struct {
	mu       sync.RWMutex
	nextID   int64
	messages []Message
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(_ context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	msg.ID = m.nextID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *Memory) ListAll(_ context.Context) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Message, len(m.messages))
	copy(result, m.messages)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
