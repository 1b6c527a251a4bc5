package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func busyBeaver2() *domain.Definition {
	return dsl.New("bb2").
		Blank("0").
		Start("A").
		Halt("H").
		On("A", "0").Write("1").Right().Goto("B").
		On("A", "1").Write("1").Left().Goto("H").
		On("B", "0").Write("1").Left().Goto("A").
		On("B", "1").Write("1").Right().Goto("B").
		Definition()
}

func walker() *domain.Definition {
	return dsl.New("walker").Blank("_").Start("go").On("go", "_").Right().Goto("go").Definition()
}

var fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newManager(store ports.SnapshotStore, opts ...session.Option) *session.Manager {
	ids := 0
	opts = append([]session.Option{
		session.WithClock(func() time.Time { return fixedTime }),
		session.WithIDGenerator(func() string {
			ids++
			return "s" + string(rune('0'+ids))
		}),
	}, opts...)
	return session.NewManager(store, opts...)
}

func TestManager_Create(t *testing.T) {
	store := memory.NewStore()
	mgr := newManager(store)
	ctx := context.Background()

	snap, err := mgr.Create(ctx, busyBeaver2())
	require.NoError(t, err)
	assert.Equal(t, "s1", snap.SessionID)
	assert.Equal(t, "A", snap.State)
	assert.Equal(t, []string{"0"}, snap.Tape)
	assert.Equal(t, fixedTime, snap.UpdatedAt)

	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "bb2", stored.Definition.Name)
}

func TestManager_CreateRejectsInvalid(t *testing.T) {
	mgr := newManager(memory.NewStore())
	def := busyBeaver2()
	def.Initial = "nope"

	_, err := mgr.Create(context.Background(), def)
	assert.Error(t, err)
}

func TestManager_DefaultIDs(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	ctx := context.Background()

	a, err := mgr.Create(ctx, busyBeaver2())
	require.NoError(t, err)
	b, err := mgr.Create(ctx, busyBeaver2())
	require.NoError(t, err)
	assert.Len(t, a.SessionID, 36)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestManager_StepInSlices(t *testing.T) {
	mgr := newManager(memory.NewStore())
	ctx := context.Background()
	_, err := mgr.Create(ctx, busyBeaver2())
	require.NoError(t, err)

	res, err := mgr.Step(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, "B", res.Snapshot.State)
	assert.Equal(t, []string{"1", "0"}, res.Snapshot.Tape)
	require.NotNil(t, res.Diff)
	assert.Equal(t, "B", *res.Diff.State)
	assert.Equal(t, 1, *res.Diff.Head)
	assert.Equal(t, map[int]string{0: "1", 1: "0"}, res.Diff.Cells)

	res, err = mgr.Step(ctx, "s1", 100)
	require.NoError(t, err, "halting before the slice ends is fine")
	assert.Equal(t, 2, res.Applied)
	assert.True(t, res.Snapshot.Halted)
	assert.Equal(t, []string{"0", "1", "1"}, res.Snapshot.Tape)
	assert.Equal(t, -1, res.Snapshot.Position())

	res, err = mgr.Step(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Zero(t, res.Applied)
	assert.Nil(t, res.Diff)
}

func TestManager_StepValidatesCount(t *testing.T) {
	mgr := newManager(memory.NewStore())
	_, err := mgr.Step(context.Background(), "s1", 0)
	assert.Error(t, err)
}

func TestManager_RunBudget(t *testing.T) {
	store := memory.NewStore()
	mgr := newManager(store)
	ctx := context.Background()
	_, err := mgr.Create(ctx, walker())
	require.NoError(t, err)

	res, err := mgr.Run(ctx, "s1", 20)
	var budget *domain.BudgetExceededError
	require.ErrorAs(t, err, &budget)
	assert.Equal(t, 20, res.Applied)

	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 20, stored.Steps, "progress is saved even when the budget runs out")
	assert.Len(t, stored.Tape, 21)
}

func TestManager_RunToHalt(t *testing.T) {
	mgr := newManager(memory.NewStore())
	ctx := context.Background()
	_, err := mgr.Create(ctx, busyBeaver2())
	require.NoError(t, err)

	res, err := mgr.Run(ctx, "s1", 0)
	require.NoError(t, err)
	assert.True(t, res.Snapshot.Halted)
	assert.Equal(t, 3, res.Snapshot.Steps)
}

func TestManager_MissingTransitionSavesProgress(t *testing.T) {
	store := memory.NewStore()
	mgr := newManager(store)
	ctx := context.Background()

	def := dsl.New("partial").Blank("0").Start("A").Halt("H").
		On("A", "0").Write("1").Right().Goto("B").
		Definition()
	_, err := mgr.Create(ctx, def)
	require.NoError(t, err)

	_, err = mgr.Run(ctx, "s1", 0)
	var missing *domain.MissingTransitionError
	require.ErrorAs(t, err, &missing)

	stored, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Steps)
	assert.Equal(t, "B", stored.State)
}

func TestManager_GetDeleteList(t *testing.T) {
	mgr := newManager(memory.NewStore())
	ctx := context.Background()

	_, err := mgr.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)

	_, err = mgr.Create(ctx, busyBeaver2())
	require.NoError(t, err)
	_, err = mgr.Create(ctx, walker())
	require.NoError(t, err)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s2"}, ids)

	snap, err := mgr.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "walker", snap.Definition.Name)

	require.NoError(t, mgr.Delete(ctx, "s2"))
	_, err = mgr.Step(ctx, "s2", 1)
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Load(ctx, sessionID)
}

func (s SlowStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Save(ctx, snap)
}

func TestManager_ConcurrentSteps(t *testing.T) {
	mgr := newManager(SlowStore{memory.NewStore()})
	ctx := context.Background()
	_, err := mgr.Create(ctx, walker())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mgr.Step(ctx, "s1", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := mgr.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 10, snap.Steps, "no step may be lost")
}

type refusingLocker struct{}

func (refusingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	return nil, errors.New("contended")
}

func TestManager_DistributedLockFailure(t *testing.T) {
	mgr := newManager(memory.NewStore(), session.WithLocker(refusingLocker{}))

	_, err := mgr.Create(context.Background(), busyBeaver2())
	assert.ErrorIs(t, err, domain.ErrSessionLocked)
}

type countingLocker struct {
	mu     sync.Mutex
	locks  int
	ttl    time.Duration
	active int
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locks++
	l.active++
	l.ttl = ttl
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.active--
		return nil
	}, nil
}

func TestManager_DistributedLock(t *testing.T) {
	locker := &countingLocker{}
	mgr := newManager(memory.NewStore(), session.WithLocker(locker), session.WithLockTTL(time.Second))
	ctx := context.Background()

	_, err := mgr.Create(ctx, busyBeaver2())
	require.NoError(t, err)
	_, err = mgr.Step(ctx, "s1", 1)
	require.NoError(t, err)

	assert.Equal(t, 2, locker.locks)
	assert.Zero(t, locker.active)
	assert.Equal(t, time.Second, locker.ttl)
}
