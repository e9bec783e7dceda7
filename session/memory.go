package session

import (
	"context"
	"sync"
)

// InMemorySessionStore keeps sessions in a mutex-guarded map, with a
// secondary token->id index so by-token lookups don't scan every live
// session. Sessions are lost on restart & invisible to any other
// process; this store is for the single-instance deployment only.
type InMemorySessionStore struct {
	mutex    sync.Mutex
	sessions map[string]Session
	byToken  map[string]string // access token -> session id
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]Session),
		byToken:  make(map[string]string),
	}
}

// Put stores the supplied session & indexes its access token
func (m *InMemorySessionStore) Put(_ context.Context, sess Session) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[sess.Id] = sess
	m.byToken[sess.AccessToken] = sess.Id
	return nil
}

// Get returns the session for the supplied id, or (nil, nil) if it
// doesn't exist. An expired session is removed & reported as missing.
func (m *InMemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.getLocked(id), nil
}

// GetByToken returns the session holding the supplied access token via
// the secondary index, with the same expired-read semantics as Get.
func (m *InMemorySessionStore) GetByToken(_ context.Context, token string) (*Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	id, ok := m.byToken[token]
	if !ok {
		return nil, nil
	}
	return m.getLocked(id), nil
}

// Delete removes an existing session & its token index entry; deleting
// a session that doesn't exist is not an error
func (m *InMemorySessionStore) Delete(_ context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.deleteLocked(id)
	return nil
}

// Sweep removes every expired session & returns the number removed
func (m *InMemorySessionStore) Sweep(_ context.Context) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	var removed int
	for id, sess := range m.sessions {
		if sess.Expired() {
			m.deleteLocked(id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of entries currently held, expired or not
func (m *InMemorySessionStore) Len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.sessions)
}

func (m *InMemorySessionStore) getLocked(id string) *Session {
	sess, ok := m.sessions[id]
	if !ok {
		return nil
	}
	if sess.Expired() {
		m.deleteLocked(id)
		return nil
	}
	return &sess
}

func (m *InMemorySessionStore) deleteLocked(id string) {
	if sess, ok := m.sessions[id]; ok {
		delete(m.byToken, sess.AccessToken)
	}
	delete(m.sessions, id)
}
