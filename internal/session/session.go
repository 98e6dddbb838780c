package session

import (
	"context"
	"sync"
	"time"
)

type ctxKey struct{}

// WithID returns a copy of ctx carrying the session id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IDFromContext returns the session id stored in ctx, if any.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

type entry struct {
	value   any
	expires time.Time
}

// Memo keeps loaded values per session for a fixed TTL. Expired sessions are
// swept lazily on Set.
type Memo struct {
	ttl  time.Duration
	now  func() time.Time
	mu   sync.Mutex
	data map[string]map[string]entry
}

func NewMemo(ttl time.Duration) *Memo {
	return &Memo{
		ttl:  ttl,
		now:  time.Now,
		data: map[string]map[string]entry{},
	}
}

func (m *Memo) Get(sessionID, key string) (any, bool) {
	if m == nil || m.ttl <= 0 {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[sessionID][key]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expires) {
		delete(m.data[sessionID], key)
		return nil, false
	}
	return e.value, true
}

func (m *Memo) Set(sessionID, key string, value any) {
	if m == nil || m.ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)
	values, ok := m.data[sessionID]
	if !ok {
		values = map[string]entry{}
		m.data[sessionID] = values
	}
	values[key] = entry{value: value, expires: now.Add(m.ttl)}
}

// Forget drops everything memoized for a session.
func (m *Memo) Forget(sessionID string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
}

// Len returns the number of sessions holding at least one entry.
func (m *Memo) Len() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *Memo) sweep(now time.Time) {
	for id, values := range m.data {
		for key, e := range values {
			if now.After(e.expires) {
				delete(values, key)
			}
		}
		if len(values) == 0 {
			delete(m.data, id)
		}
	}
}
