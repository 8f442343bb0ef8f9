package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
)

// ErrEmptyToken is returned by SetToken when given an empty string.
var ErrEmptyToken = errors.New("session: empty token")

// State is the client-side session state.
type State int

const (
	// Anonymous means no token is stored.
	Anonymous State = iota
	// Authenticated means a token is stored. It may still be expired.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Store persists the single token slot.
//
// Load returns "" with a nil error when nothing is stored. Delete on an
// empty store is not an error.
type Store interface {
	Load() (string, error)
	Save(token string) error
	Delete() error
	Close() error
}

// Manager is the session context shared by the HTTP client and the
// route guard.
type Manager struct {
	mu    sync.Mutex
	store Store
}

// NewManager creates a Manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// SetToken persists token, replacing any previous one.
func (m *Manager) SetToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Save(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Token returns the stored token. ok is false when there is none or the
// store could not be read.
func (m *Manager) Token() (token string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.store.Load()
	if err != nil {
		logger.Default().Debug("session store unreadable", "error", err)
		return "", false
	}
	return token, token != ""
}

// Clear removes the stored token. Calling it with nothing stored is fine.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether a non-empty token is stored.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Token()
	return ok
}

// State returns the current session state.
func (m *Manager) State() State {
	if m.IsAuthenticated() {
		return Authenticated
	}
	return Anonymous
}

// Close releases the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

// Store returns the backend, e.g. to watch a FileStore for changes.
func (m *Manager) Store() Store {
	return m.store
}
