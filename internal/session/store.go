package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store is persistent per-session key/value storage. Get returns "" for a missing key.
type Store interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Put(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID, key string) error
}

// MemoryStore keeps values in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]map[string]string),
	}
}

func (m *MemoryStore) Get(_ context.Context, sessionID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.values[sessionID][key], nil
}

func (m *MemoryStore) Put(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values[sessionID] == nil {
		m.values[sessionID] = make(map[string]string)
	}
	m.values[sessionID][key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values[sessionID], key)
	if len(m.values[sessionID]) == 0 {
		delete(m.values, sessionID)
	}
	return nil
}

// Manager turns stored tokens into Session values
type Manager struct {
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

// NewManager creates a new session manager
func NewManager(store Store, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// Load resolves the session for an id. An empty id is always anonymous.
func (m *Manager) Load(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return NewAnonymous(""), nil
	}

	token, err := m.store.Get(ctx, sessionID, TokenKey)
	if err != nil {
		m.logger.Error("Failed to read session token", zap.Error(err))
		return NewAnonymous(sessionID), err
	}

	sess := Resolve(sessionID, token, m.now())
	if sess.State() == Expired {
		m.logger.Info("Session token expired", zap.String("state", sess.State().String()))
	}
	return sess, nil
}

// SaveToken stores the backend token handed over by the login flow
func (m *Manager) SaveToken(ctx context.Context, sessionID, token string) error {
	return m.store.Put(ctx, sessionID, TokenKey, token)
}

// Forget removes the stored token, e.g. after the backend reported it invalid
func (m *Manager) Forget(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID, TokenKey)
}
