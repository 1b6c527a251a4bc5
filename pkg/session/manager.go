package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a crashed holder can block a session.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.SnapshotStore

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active per-session locks

	locker  ports.DistributedLocker // optional
	lockTTL time.Duration
	logger  *slog.Logger
	clock   func() time.Time
	newID   func() string

	machineOpts []turing.Option
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
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

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.clock = now
	}
}

// WithIDGenerator overrides the session ID generator (random UUIDs by default).
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// WithMachineOptions passes options, such as metrics hooks, to every machine
// the Manager builds.
func WithMachineOptions(opts ...turing.Option) Option {
	return func(m *Manager) {
		m.machineOpts = append(m.machineOpts, opts...)
	}
}

// NewManager creates a new session Manager with the given persistence store.
func NewManager(store ports.SnapshotStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		clock:   time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result is the outcome of advancing a session.
type Result struct {
	Snapshot *domain.Snapshot     `json:"snapshot"`
	Diff     *domain.SnapshotDiff `json:"diff,omitempty"`
	Applied  int                  `json:"applied"`
}

// Create validates def, starts a machine on its initial tape and persists it
// under a new session ID.
func (m *Manager) Create(ctx context.Context, def *domain.Definition) (*domain.Snapshot, error) {
	return m.CreateWithID(ctx, m.newID(), def)
}

// CreateWithID is Create with a caller-chosen session ID. An existing session
// with the same ID is replaced.
func (m *Manager) CreateWithID(ctx context.Context, sessionID string, def *domain.Definition) (*domain.Snapshot, error) {
	prog, err := schema.Compile(def)
	if err != nil {
		return nil, err
	}
	machine, err := prog.New(m.machineOpts...)
	if err != nil {
		return nil, err
	}

	snap := prog.Capture(sessionID, machine)
	snap.UpdatedAt = m.clock()

	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, snap)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	m.logger.Info("session created", "session_id", sessionID, "machine", def.Name)
	return snap, nil
}

// Get returns the stored snapshot of a session.
func (m *Manager) Get(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, sessionID)
		return err
	})
	return snap, err
}

// Step applies at most n transitions to the session and saves it.
// Stopping short of a halt is not an error.
func (m *Manager) Step(ctx context.Context, sessionID string, n int) (*Result, error) {
	if n < 1 {
		return nil, fmt.Errorf("step count must be positive, got %d", n)
	}
	res, err := m.advance(ctx, sessionID, n)

	var budget *domain.BudgetExceededError
	if errors.As(err, &budget) {
		return res, nil
	}
	return res, err
}

// Run steps the session until it halts, persisting the outcome. With a
// positive budget it stops after that many steps with a
// *domain.BudgetExceededError; progress is saved either way.
func (m *Manager) Run(ctx context.Context, sessionID string, budget int) (*Result, error) {
	return m.advance(ctx, sessionID, budget)
}

func (m *Manager) advance(ctx context.Context, sessionID string, budget int) (*Result, error) {
	var res *Result
	var runErr error

	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		before, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}

		prog, err := schema.Compile(&before.Definition)
		if err != nil {
			return fmt.Errorf("stored definition is invalid: %w", err)
		}
		machine, err := prog.Resume(before, m.machineOpts...)
		if err != nil {
			return fmt.Errorf("failed to resume session: %w", err)
		}

		_, runErr = runner.Run(ctx, machine, runner.WithBudget(budget), runner.WithLogger(m.logger))

		after := prog.Capture(sessionID, machine)
		after.UpdatedAt = m.clock()
		res = &Result{
			Snapshot: after,
			Diff:     domain.Diff(before, after),
			Applied:  after.Steps - before.Steps,
		}

		if res.Applied == 0 {
			return nil
		}
		// Use a fresh context so a cancelled run still records its progress.
		return m.store.Save(context.WithoutCancel(ctx), after)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug("session advanced",
		"session_id", sessionID,
		"applied", res.Applied,
		"state", res.Snapshot.State,
		"halted", res.Snapshot.Halted,
	)
	return res, runErr
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

// Store returns the underlying snapshot store.
func (m *Manager) Store() ports.SnapshotStore {
	return m.store
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

// WithLock executes fn while holding the lock for the session.
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
			return fmt.Errorf("%w: %w", domain.ErrSessionLocked, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
