package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/logging"
)

// Store backends accepted by Options.Store.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Options are the settings shared by every command (the root persistent flags).
type Options struct {
	LogLevel  string
	LogFile   string
	Store     string
	StoreDir  string
	RedisAddr string

	// EncryptionKey, when set, is a hex-encoded 32-byte key used to seal
	// snapshots at rest. Keys separated by commas after the first are
	// fallbacks for rotation.
	EncryptionKey string
}

// NewLogger builds the application logger. Records go to stderr and, when
// LogFile is set, also to that file as JSON. The returned func closes the file.
func NewLogger(opts Options, stderr io.Writer) (*slog.Logger, func() error, error) {
	closer := func() error { return nil }
	logOpts := logging.Options{Console: stderr}

	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logOpts.File = f
		closer = f.Close
	}

	return logging.New(logging.ParseLevel(opts.LogLevel), logOpts), closer, nil
}
