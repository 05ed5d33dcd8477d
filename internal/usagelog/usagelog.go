// Package usagelog keeps a capped, append-only JSON audit file of bot
// commands.
package usagelog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
)

// DefaultLimit is the number of entries kept when none is configured.
const DefaultLimit = 1000

// Command types recorded in the log.
const (
	CommandReturnLabel  = "return_label"
	CommandParseAddress = "parse_address"
)

// errCorrupt marks a log file whose contents are not a JSON entry list.
var errCorrupt = errors.New("usage log is not valid JSON")

// Entry is one recorded command invocation.
type Entry struct {
	ID          string    `json:"id"`
	CommandType string    `json:"commandType"`
	UserID      string    `json:"userId"`
	ChannelID   string    `json:"channelId"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
}

// Log is a file of entries capped to the newest Limit records.
// Every append rewrites the file through a temp file and rename, so a crash
// leaves either the old or the new contents.
type Log struct {
	mu     sync.Mutex
	path   string
	limit  int
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Log.
type Option func(*Log)

// WithLimit caps the number of retained entries.
func WithLimit(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.limit = n
		}
	}
}

// WithLogger sets the logger used for recoverable problems.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the time source for entries without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// New returns a Log writing to path, creating its directory.
func New(path string, opts ...Option) (*Log, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create usage log dir: %w", err)
		}
	}

	l := &Log{
		path:   path,
		limit:  DefaultLimit,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Append records e, filling in ID and Timestamp when unset, and trims the
// file to the newest entries.
func (l *Log) Append(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = l.now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	switch {
	case errors.Is(err, errCorrupt):
		l.logger.Warn("usage log corrupt, starting a new one", "path", l.path, "error", err)
		entries = nil
	case err != nil:
		return err
	}

	entries = append(entries, e)
	if len(entries) > l.limit {
		entries = entries[len(entries)-l.limit:]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode usage log: %w", err)
	}

	if err := atomic.WriteFile(l.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write usage log: %w", err)
	}
	return nil
}

// Recent returns up to n of the newest entries, oldest first.
// n <= 0 returns every entry.
func (l *Log) Recent(n int) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.read()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// read loads the file. A missing or empty file is an empty log.
func (l *Log) read() ([]Entry, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read usage log: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	return entries, nil
}
