package session

import (
	"sync"
	"time"

	"github.com/dminalm/filtro-candidatos/internal/llm"
)

// MemoryStore keeps all session state in-process. State is lost on
// restart, flags included.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState
	turnLock *keyedMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*sessionState),
		turnLock: newKeyedMutex(),
	}
}

// state returns the session, creating it if unseen.
func (m *MemoryStore) state(id string) *sessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		now := time.Now()
		s = &sessionState{saved: make(map[string]bool), createdAt: now, lastActive: now}
		m.sessions[id] = s
	}
	s.lastActive = time.Now()
	return s
}

func (m *MemoryStore) GetOrCreate(id string) error {
	m.state(id)
	return nil
}

func (m *MemoryStore) AppendUser(id, content string) error {
	return m.append(id, llm.Message{Role: "user", Content: content})
}

func (m *MemoryStore) AppendAssistant(id, content string) error {
	return m.append(id, llm.Message{Role: "assistant", Content: content})
}

func (m *MemoryStore) append(id string, msg llm.Message) error {
	s := m.state(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	s.entries = append(s.entries, msg)
	return nil
}

func (m *MemoryStore) History(id string) ([]llm.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	// Copy so callers cannot mutate internal state.
	out := make([]llm.Message, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (m *MemoryStore) IsSaved(id, category string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return false, nil
	}
	return s.saved[category], nil
}

func (m *MemoryStore) MarkSaved(id, category string) error {
	s := m.state(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	s.saved[category] = true
	return nil
}

func (m *MemoryStore) Lock(id string) func() {
	return m.turnLock.lock(id)
}

func (m *MemoryStore) Close() error { return nil }
