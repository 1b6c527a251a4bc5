package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/persistence/middleware"
	"github.com/aretw0/turing/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Backend bundles the persistence chosen on the command line.
type Backend struct {
	Store  ports.SnapshotStore
	Locker ports.DistributedLocker // nil unless the store is shared
	Close  func() error
}

// OpenBackend connects the configured snapshot store. Redis also provides a
// distributed locker so several servers can share sessions. With an
// encryption key the store is wrapped so snapshots are sealed at rest.
func OpenBackend(ctx context.Context, opts Options) (*Backend, error) {
	b, err := openStore(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.EncryptionKey == "" {
		return b, nil
	}

	mw, err := encryptionMiddleware(opts.EncryptionKey)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Store = middleware.Chain(b.Store, mw)
	return b, nil
}

func encryptionMiddleware(keyList string) (middleware.Middleware, error) {
	var keys [][]byte
	for i, s := range strings.Split(keyList, ",") {
		key, err := hex.DecodeString(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("encryption key %d is not valid hex: %w", i, err)
		}
		keys = append(keys, key)
	}
	return middleware.NewEncryption(middleware.EncryptionConfig{ActiveKey: keys[0], FallbackKeys: keys[1:]})
}

func openStore(ctx context.Context, opts Options) (*Backend, error) {
	noop := func() error { return nil }

	switch opts.Store {
	case "", StoreFile:
		return &Backend{Store: file.New(opts.StoreDir), Close: noop}, nil
	case StoreMemory:
		return &Backend{Store: memory.NewStore(), Close: noop}, nil
	case StoreRedis:
		client := backend.NewClient(&backend.Options{Addr: opts.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.RedisAddr, err)
		}
		return &Backend{
			Store:  redis.NewFromClient(client),
			Locker: redis.NewLocker(client, redis.DefaultPrefix),
			Close:  client.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store %q (want %s, %s or %s)", opts.Store, StoreFile, StoreMemory, StoreRedis)
	}
}
