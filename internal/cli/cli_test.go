package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const busyBeaver2 = `
name: bb2
states: [A, B, H]
symbols: [0, 1]
blank: 0
initial: A
final: [H]
rules:
  - {state: A, read: 0, write: 1, move: R, next: B}
  - {state: A, read: 1, write: 1, move: L, next: H}
  - {state: B, read: 0, write: 1, move: L, next: A}
  - {state: B, read: 1, write: 1, move: R, next: B}
`

const walker = `
states: [go]
symbols: [_]
blank: _
initial: go
rules:
  - {state: go, read: _, write: _, move: R, next: go}
`

func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunFile_Trace(t *testing.T) {
	var out bytes.Buffer
	err := RunFile(context.Background(), &out, writeDefinition(t, busyBeaver2), RunOptions{Color: trace.ColorNever})
	require.NoError(t, err)

	assert.Equal(t, "A 0 => B 1 Right\n"+
		"B 0 => A 1 Left\n"+
		"A 1 => H 1 Left\n"+
		"[0] 1 1\n"+
		"state=H steps=3 halted=true\n", out.String())
}

func TestRunFile_QuietAndSave(t *testing.T) {
	store := memory.NewStore()
	var out bytes.Buffer

	err := RunFile(context.Background(), &out, writeDefinition(t, busyBeaver2), RunOptions{
		Quiet:  true,
		SaveAs: "done",
		Store:  store,
	})
	require.NoError(t, err)
	assert.Equal(t, "[0] 1 1\n", out.String())

	snap, err := store.Load(context.Background(), "done")
	require.NoError(t, err)
	assert.True(t, snap.Halted)
	assert.Equal(t, "bb2", snap.Definition.Name)
}

func TestRunFile_Budget(t *testing.T) {
	var out bytes.Buffer
	err := RunFile(context.Background(), &out, writeDefinition(t, walker), RunOptions{Budget: 4, Quiet: true})

	var budget *domain.BudgetExceededError
	require.ErrorAs(t, err, &budget)
	assert.Equal(t, "_ _ _ _ [_]\n", out.String())
	assert.Equal(t, 3, ExitCode(err))
}

func TestRunFile_InvalidDefinition(t *testing.T) {
	err := RunFile(context.Background(), &bytes.Buffer{}, writeDefinition(t, "states: [A]\nblank: x\n"), RunOptions{})
	assert.Error(t, err)
}

func TestResolveColor(t *testing.T) {
	assert.Equal(t, trace.ColorAlways, ResolveColor(trace.ColorAlways, &bytes.Buffer{}))
	assert.Equal(t, trace.ColorNever, ResolveColor(trace.ColorAuto, &bytes.Buffer{}))
	assert.Equal(t, trace.ColorNever, ResolveColor("", &bytes.Buffer{}))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 4, ExitCode(fmt.Errorf("run: %w", &domain.MissingTransitionError{State: "A", Symbol: "0"})))
	assert.Equal(t, 130, ExitCode(context.Canceled))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	b, err := OpenBackend(ctx, Options{Store: StoreMemory})
	require.NoError(t, err)
	assert.Nil(t, b.Locker)
	require.NoError(t, b.Close())

	b, err = OpenBackend(ctx, Options{StoreDir: t.TempDir()})
	require.NoError(t, err)
	ids, err := b.Store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = OpenBackend(ctx, Options{Store: "etcd"})
	assert.Error(t, err)
}

func TestOpenBackend_Encrypted(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key := strings.Repeat("ab", 32)

	b, err := OpenBackend(ctx, Options{StoreDir: dir, EncryptionKey: key})
	require.NoError(t, err)
	require.NoError(t, b.Store.Save(ctx, &domain.Snapshot{SessionID: "s1", State: "A", Tape: []string{"1"}}))

	raw, err := OpenBackend(ctx, Options{StoreDir: dir})
	require.NoError(t, err)
	plain, err := raw.Store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, plain.Sealed)
	assert.Empty(t, plain.State)

	loaded, err := b.Store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "A", loaded.State)

	_, err = OpenBackend(ctx, Options{Store: StoreMemory, EncryptionKey: "zz"})
	assert.Error(t, err)
	_, err = OpenBackend(ctx, Options{Store: StoreMemory, EncryptionKey: "abcd"})
	assert.Error(t, err)
}

func TestOpenBackend_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	b, err := OpenBackend(ctx, Options{Store: StoreRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer b.Close()
	assert.NotNil(t, b.Locker)

	require.NoError(t, b.Store.Save(ctx, &domain.Snapshot{SessionID: "s1"}))
	ids, err := b.Store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)

	mr.Close()
	_, err = OpenBackend(ctx, Options{Store: StoreRedis, RedisAddr: mr.Addr()})
	assert.Error(t, err)
}

func TestPrintSnapshot(t *testing.T) {
	snap := &domain.Snapshot{
		SessionID:  "s1",
		Definition: domain.Definition{Name: "bb2"},
		State:      "H",
		Head:       0,
		Offset:     1,
		Tape:       []string{"0", "1", "1"},
		Steps:      3,
		Halted:     true,
	}

	var out bytes.Buffer
	require.NoError(t, PrintSnapshot(&out, snap, false))
	assert.Contains(t, out.String(), "machine:  bb2")
	assert.Contains(t, out.String(), "position: -1")
	assert.Contains(t, out.String(), "tape:     [0] 1 1")

	out.Reset()
	require.NoError(t, PrintSnapshot(&out, snap, true))
	assert.Contains(t, out.String(), `"session_id": "s1"`)
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turing.log")
	var stderr bytes.Buffer

	logger, closeLog, err := NewLogger(Options{LogLevel: "debug", LogFile: path}, &stderr)
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, stderr.String(), "msg=hello")
}
