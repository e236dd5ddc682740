package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// timestampEpsilon keeps insertion order visible when several turns are
// created within the same clock tick.
const timestampEpsilon = time.Millisecond

// Turn is one message in a conversation
type Turn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// History is an ordered, append-only conversation transcript. All
// operations return a new slice; the receiver is never mutated, so a
// History held by a caller stays valid across appends.
type History []Turn

// NewTurnID generates a collision-free turn identifier
func NewTurnID() string {
	return fmt.Sprintf("msg_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Append returns a new history with one additional turn. Timestamps are
// monotonically increasing: a turn created in the same tick as its
// predecessor gets the predecessor's timestamp plus a small epsilon.
func (h History) Append(role, content string) History {
	ts := time.Now()
	if n := len(h); n > 0 && !ts.After(h[n-1].Timestamp) {
		ts = h[n-1].Timestamp.Add(timestampEpsilon)
	}

	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, Turn{
		ID:        NewTurnID(),
		Role:      role,
		Content:   content,
		Timestamp: ts,
	})
}

// AppendStreaming appends a placeholder assistant turn for an in-flight
// streamed response. The caller targets it by the returned placeholder ID
// while chunks arrive, then calls FinalizeStreaming once the stream ends.
func (h History) AppendStreaming() (History, string) {
	placeholder := "streaming_" + uuid.NewString()[:8]

	ts := time.Now()
	if n := len(h); n > 0 && !ts.After(h[n-1].Timestamp) {
		ts = h[n-1].Timestamp.Add(timestampEpsilon)
	}

	out := make(History, len(h), len(h)+1)
	copy(out, h)
	out = append(out, Turn{
		ID:        placeholder,
		Role:      RoleAssistant,
		Timestamp: ts,
	})
	return out, placeholder
}

// UpdateStreaming returns a new history with the content of the turn
// matching id replaced. Used only for the in-flight streaming turn.
func (h History) UpdateStreaming(id, content string) History {
	out := make(History, len(h))
	copy(out, h)
	for i := range out {
		if out[i].ID == id {
			out[i].Content = content
			break
		}
	}
	return out
}

// FinalizeStreaming returns a new history with the placeholder id swapped
// for a permanent unique ID, sealing the streamed turn.
func (h History) FinalizeStreaming(id string) History {
	out := make(History, len(h))
	copy(out, h)
	for i := range out {
		if out[i].ID == id {
			out[i].ID = NewTurnID()
			break
		}
	}
	return out
}

// Find returns the first turn matching the predicate, or nil.
func (h History) Find(pred func(Turn) bool) *Turn {
	for i := range h {
		if pred(h[i]) {
			return &h[i]
		}
	}
	return nil
}
