package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/orgtree"
	"github.com/aretw0/orgtree/internal/logging"
	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/aretw0/orgtree/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker     ports.DistributedLocker // Optional distributed locker
	lockTTL    time.Duration
	engineOpts []orgtree.Option
	logger     *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock survives if it is never released.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithEngineOptions sets the options used for every engine the Manager restores,
// e.g. lifecycle hooks feeding metrics.
func WithEngineOptions(opts ...orgtree.Option) Option {
	return func(m *Manager) {
		m.engineOpts = append(m.engineOpts, opts...)
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Create starts a session on chart with an empty history, replacing any session with
// the same ID.
func (m *Manager) Create(ctx context.Context, sessionID string, chart domain.Chart) (*domain.Session, error) {
	if err := domain.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	if err := chart.Validate(); err != nil {
		return nil, err
	}

	s := domain.NewSession(sessionID, chart)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, s)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session %s: %w", sessionID, err)
	}
	m.logger.Info("session created", "session_id", sessionID, "employees", chart.Size())
	return s, nil
}

// CreateFrom starts a session on the chart provided by loader.
func (m *Manager) CreateFrom(ctx context.Context, sessionID string, loader ports.ChartLoader) (*domain.Session, error) {
	chart, err := loader.LoadChart(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart: %w", err)
	}
	return m.Create(ctx, sessionID, chart)
}

// LoadOrCreate loads a session, creating it from loader when it does not exist yet.
func (m *Manager) LoadOrCreate(ctx context.Context, sessionID string, loader ports.ChartLoader) (*domain.Session, error) {
	s, err := m.Load(ctx, sessionID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check session existence: %w", err)
	}
	return m.CreateFrom(ctx, sessionID, loader)
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var s *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		s, err = m.store.Load(ctx, sessionID)
		return err
	})
	return s, err
}

// View restores the session's engine and passes it to fn without saving afterwards.
func (m *Manager) View(ctx context.Context, sessionID string, fn func(*orgtree.Engine) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		eng, err := m.restore(ctx, sessionID)
		if err != nil {
			return err
		}
		return fn(eng)
	})
}

// Update restores the session's engine, passes it to fn and saves the result.
// When fn fails nothing is saved and its error is returned unchanged.
func (m *Manager) Update(ctx context.Context, sessionID string, fn func(*orgtree.Engine) error) (*domain.Session, error) {
	var saved *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		eng, err := m.restore(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := fn(eng); err != nil {
			return err
		}
		saved = eng.Session(sessionID)
		if err := m.store.Save(ctx, saved); err != nil {
			return fmt.Errorf("failed to save session %s: %w", sessionID, err)
		}
		return nil
	})
	return saved, err
}

func (m *Manager) restore(ctx context.Context, sessionID string) (*orgtree.Engine, error) {
	s, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	opts := append([]orgtree.Option{
		orgtree.WithLogger(m.logger),
		orgtree.WithName(sessionID),
	}, m.engineOpts...)
	eng, err := orgtree.Restore(s, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", sessionID, err)
	}
	return eng, nil
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}
