package chat

import (
	"sync"
	"time"
)

// Message is a single chat message.
type Message struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// MessageStore is a mutex-guarded in-memory message log. Ids come from a
// counter incremented under the lock, so they strictly increase and serve as
// the stream cursor.
type MessageStore struct {
	mu       sync.Mutex
	messages []Message
	lastID   int
}

// NewMessageStore creates an empty store.
func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

// Add appends a new message and returns it.
func (s *MessageStore) Add(username, content string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	msg := Message{
		ID:        s.lastID,
		Username:  username,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	s.messages = append(s.messages, msg)
	return msg
}

// All returns a copy of every message.
func (s *MessageStore) All() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Since returns messages with id greater than sinceID.
func (s *MessageStore) Since(sinceID int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Message
	for _, msg := range s.messages {
		if msg.ID > sinceID {
			out = append(out, msg)
		}
	}
	return out
}

// Len returns the number of stored messages.
func (s *MessageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
