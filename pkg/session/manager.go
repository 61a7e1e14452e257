package session

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/pairrank/pkg/errors"
)

// Manager creates sessions and keeps the opened ones live.
// It is safe for concurrent use.
type Manager struct {
	store  Store
	logger *log.Logger

	mu   sync.Mutex
	live map[string]*Ranker
}

// NewManager creates a manager over store. A nil logger discards output.
func NewManager(store Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{store: store, logger: logger, live: make(map[string]*Ranker)}
}

// Create starts a new session over items and persists it.
func (m *Manager) Create(ctx context.Context, name string, items []string) (*Ranker, error) {
	sess, err := New(name, items)
	if err != nil {
		return nil, err
	}
	if err := m.store.Set(ctx, sess); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "save session %s", sess.ID)
	}

	r, err := newRanker(sess, m.store, m.logger)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.live[sess.ID] = r
	m.mu.Unlock()

	m.logger.Info("session created", "id", sess.ID, "name", sess.Name, "items", len(items))
	return r, nil
}

// Open returns the live ranker for id, loading and replaying it from the
// store on first use.
func (m *Manager) Open(ctx context.Context, id string) (*Ranker, error) {
	if err := errs.ValidateSessionID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.live[id]; ok {
		return r, nil
	}

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, storageError(err, "load session %s", id)
	}
	if sess == nil {
		return nil, errs.New(errs.ErrCodeSessionNotFound, "session %s not found", id)
	}

	r, err := newRanker(sess, m.store, m.logger)
	if err != nil {
		return nil, err
	}
	m.live[id] = r
	m.logger.Debug("session opened", "id", id, "comparisons", len(sess.Comparisons))
	return r, nil
}

// List returns all stored sessions, most recently updated first.
func (m *Manager) List(ctx context.Context) ([]*Session, error) {
	out, err := m.store.List(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list sessions")
	}
	return out, nil
}

// Delete removes a session from the store and closes its live ranker, so
// callers still holding it can no longer write.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := errs.ValidateSessionID(id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return storageError(err, "load session %s", id)
	}
	if sess == nil {
		return errs.New(errs.ErrCodeSessionNotFound, "session %s not found", id)
	}
	if r, ok := m.live[id]; ok {
		r.close()
		delete(m.live, id)
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete session %s", id)
	}
	m.logger.Info("session deleted", "id", id)
	return nil
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

// storageError tags uncoded store failures as STORAGE_ERROR. Errors that
// already carry a code, such as an invalid session ID, pass through.
func storageError(err error, format string, args ...any) error {
	if errs.GetCode(err) != "" {
		return err
	}
	return errs.Wrap(errs.ErrCodeStorage, err, format, args...)
}
