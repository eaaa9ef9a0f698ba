package identity

import (
	"errors"
	"strings"
	"sync"

	"github.com/lithammer/shortuuid/v4"
	"go.uber.org/zap"

	"github.com/spigell/doesmyresumematch/internal/storage"
)

// Key is the storage key holding the client id.
const Key = "client-id"

// Manager hands out the stable per-installation client id.
type Manager struct {
	storage storage.Storage
	logger  *zap.Logger
	newID   func() string

	mu     sync.Mutex
	cached string
}

func New(s storage.Storage, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		storage: s,
		logger:  logger,
		newID:   shortuuid.New,
	}
}

// GetOrCreateClientID returns the persisted client id, generating and persisting one on first use.
// When the storage cannot be read or written, a fresh id is returned on every call.
func (m *Manager) GetOrCreateClientID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != "" {
		return m.cached
	}

	stored, err := m.storage.Get(Key)
	if err == nil && strings.TrimSpace(stored) != "" {
		m.cached = strings.TrimSpace(stored)
		return m.cached
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		m.logger.Warn("client id storage is unavailable, using a temporary id", zap.Error(err))
		return m.newID()
	}

	id := m.newID()
	if err := m.storage.Set(Key, id); err != nil {
		m.logger.Warn("persisting client id failed, using a temporary id", zap.Error(err))
		return id
	}

	m.logger.Debug("generated new client id", zap.String("client_id", id))
	m.cached = id
	return id
}
