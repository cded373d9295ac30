// Package session owns per-interview conversational state: the append-only
// utterance history and the per-category idempotency flags that guard the
// persistence gateway.
package session

import (
	"sync"
	"time"

	"github.com/dminalm/filtro-candidatos/internal/llm"
)

// Store is the session state contract. Implementations must serialize
// operations per session id; operations on different ids must not block
// one another.
type Store interface {
	// GetOrCreate registers the id if unseen (empty history, all flags
	// false) and refreshes its last-active timestamp.
	GetOrCreate(id string) error
	AppendUser(id, content string) error
	AppendAssistant(id, content string) error
	History(id string) ([]llm.Message, error)
	IsSaved(id, category string) (bool, error)
	// MarkSaved flips the (id, category) flag to true. Calling it twice
	// has no additional effect; the flag never resets while the session
	// is alive.
	MarkSaved(id, category string) error
	// Lock acquires the per-id exclusion used to serialize a whole turn.
	// The returned func releases it.
	Lock(id string) func()
	Close() error
}

// keyedMutex hands out one mutex per key so unrelated sessions stay
// independently concurrent.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

type sessionState struct {
	entries    []llm.Message
	saved      map[string]bool
	createdAt  time.Time
	lastActive time.Time
}
