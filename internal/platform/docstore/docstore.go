// Package docstore is a path-keyed JSON document store on BadgerDB.
//
// Documents live at slash-separated paths such as "users/u-1/stats/wellness".
// A collection is the parent path of its documents ("users/u-1/sessions").
// Every write is visible to Subscribe callers watching the same path.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	apperrors "wellness/internal/platform/errors"
	"wellness/internal/platform/id"
	"wellness/internal/platform/logging"
)

// Document is one stored value together with the commit version that
// produced it. Exists is false for a path that has never been written.
type Document struct {
	Path    string
	Exists  bool
	Data    []byte
	Version uint64
}

// Config holds configuration for a store.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is true.
	Path string

	// InMemory disables disk persistence. Useful for testing.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Logger receives BadgerDB's internal logs and subscription errors.
	// If nil, slog.Default() is used and BadgerDB's own logs are dropped.
	Logger *slog.Logger

	// ResubscribeDelay is the pause before re-opening a failed change feed.
	ResubscribeDelay time.Duration
}

func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true, ResubscribeDelay: time.Second}
}

func InMemoryConfig() Config {
	return Config{InMemory: true, ResubscribeDelay: 50 * time.Millisecond}
}

type Store struct {
	db     *badger.DB
	ids    id.Generator
	logger *slog.Logger
	retry  time.Duration
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Open opens (or creates) a store. The caller must Close it.
func Open(cfg Config, ids id.Generator) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent store")
	}
	if ids == nil {
		ids = id.UUID{}
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create store dir %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	retry := cfg.ResubscribeDelay
	if retry <= 0 {
		retry = time.Second
	}
	return &Store{db: db, ids: ids, logger: logging.OrDefault(cfg.Logger), retry: retry}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(_ context.Context, path string) (Document, error) {
	if err := validatePath(path); err != nil {
		return Document{}, err
	}
	doc := Document{Path: path}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(path))
		if err != nil {
			return err
		}
		doc.Version = item.Version()
		doc.Data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Document{Path: path}, fmt.Errorf("document %s: %w", path, apperrors.ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("%w: get %s: %v", apperrors.ErrRemoteUnavailable, path, err)
	}
	doc.Exists = true
	return doc, nil
}

// Set replaces the document at path.
func (s *Store) Set(_ context.Context, path string, data []byte) error {
	if err := validatePath(path); err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty document for %s", apperrors.ErrInvalidArgument, path)
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(path), data)
	})
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", apperrors.ErrRemoteUnavailable, path, err)
	}
	return nil
}

// Add stores data under a freshly generated id inside collection.
func (s *Store) Add(ctx context.Context, collection string, data []byte) (string, error) {
	docID := s.ids.New()
	if err := s.Set(ctx, collection+"/"+docID, data); err != nil {
		return "", err
	}
	return docID, nil
}

// List returns the direct children of collection ordered by path.
func (s *Store) List(_ context.Context, collection string) ([]Document, error) {
	if err := validatePath(collection); err != nil {
		return nil, err
	}
	prefix := []byte(collection + "/")
	out := []Document{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, PrefetchSize: 32, Prefix: prefix})
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			if strings.Contains(strings.TrimPrefix(key, string(prefix)), "/") {
				continue
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			out = append(out, Document{Path: key, Exists: true, Data: data, Version: item.Version()})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", apperrors.ErrRemoteUnavailable, collection, err)
	}
	return out, nil
}

func validatePath(path string) error {
	if path == "" || strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") || strings.Contains(path, "//") {
		return fmt.Errorf("%w: document path %q", apperrors.ErrInvalidArgument, path)
	}
	return nil
}
