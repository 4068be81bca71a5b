package docstore

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"

	apperrors "wellness/internal/platform/errors"
)

const (
	readyPrefix   = "\x00sys/ready/"
	readyInterval = 10 * time.Millisecond
)

// Subscribe streams the document at path: first its current value (Exists
// false when absent), then every later write. Snapshots are delivered in
// strictly increasing version order. A dropped change feed is re-opened
// after Config.ResubscribeDelay. The channel is closed once ctx is done.
func (s *Store) Subscribe(ctx context.Context, path string) (<-chan Document, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	out := make(chan Document, 4)
	go func() {
		defer close(out)
		var (
			last uint64
			sent bool
		)
		emit := func(doc Document) error {
			if sent && doc.Version <= last {
				return nil
			}
			select {
			case out <- doc:
				sent = true
				last = doc.Version
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		for {
			err := s.watch(ctx, path, emit)
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("document subscription dropped", "path", path, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.retry):
			}
		}
	}()
	return out, nil
}

// watch runs one BadgerDB change feed for path. The initial read happens only
// once the feed has observed a private marker key, so no write committed
// after the read can be missed.
func (s *Store) watch(ctx context.Context, path string, emit func(Document) error) error {
	key := []byte(path)
	readyKey := []byte(readyPrefix + s.ids.New())
	ready := make(chan struct{})
	readySeen := false

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		errc <- s.db.Subscribe(subCtx, func(list *badger.KVList) error {
			for _, kv := range list.Kv {
				switch {
				case bytes.Equal(kv.Key, readyKey):
					if readySeen {
						continue
					}
					readySeen = true
					close(ready)
					doc, err := s.Get(subCtx, path)
					if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
						return err
					}
					if err := emit(doc); err != nil {
						return err
					}
				case bytes.Equal(kv.Key, key):
					if !readySeen {
						continue
					}
					value := append([]byte(nil), kv.Value...)
					if err := emit(Document{Path: path, Exists: len(value) > 0, Data: value, Version: kv.Version}); err != nil {
						return err
					}
				}
			}
			return nil
		}, []pb.Match{{Prefix: key}, {Prefix: readyKey}})
	}()

	go s.announce(subCtx, readyKey, ready)

	err := <-errc
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// announce writes the marker key until the feed reports it, then removes it.
func (s *Store) announce(ctx context.Context, readyKey []byte, ready <-chan struct{}) {
	ticker := time.NewTicker(readyInterval)
	defer ticker.Stop()
	for {
		_ = s.db.Update(func(txn *badger.Txn) error {
			return txn.Set(readyKey, []byte{1})
		})
		select {
		case <-ready:
			_ = s.db.Update(func(txn *badger.Txn) error {
				return txn.Delete(readyKey)
			})
			return
		case <-ctx.Done():
			_ = s.db.Update(func(txn *badger.Txn) error {
				return txn.Delete(readyKey)
			})
			return
		case <-ticker.C:
		}
	}
}
