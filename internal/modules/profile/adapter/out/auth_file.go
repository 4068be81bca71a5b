package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"wellness/internal/modules/profile/domain"
	profileout "wellness/internal/modules/profile/port/out"
	"wellness/internal/platform/logging"
)

type authFile struct {
	UID string `json:"uid"`
}

// FileAuthSource keeps the signed-in identity in a small JSON file and turns
// changes to that file, from this or any other process, into auth events.
type FileAuthSource struct {
	path   string
	logger *slog.Logger
}

func NewFileAuthSource(path string, logger *slog.Logger) profileout.AuthSource {
	return &FileAuthSource{path: path, logger: logging.OrDefault(logger)}
}

func (s *FileAuthSource) Current(_ context.Context) (domain.AuthEvent, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.AuthEvent{}, nil
		}
		return domain.AuthEvent{}, fmt.Errorf("read auth state: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return domain.AuthEvent{}, nil
	}
	state := authFile{}
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.AuthEvent{}, fmt.Errorf("decode auth state: %w", err)
	}
	return domain.AuthEvent{UID: strings.TrimSpace(state.UID)}, nil
}

// Save replaces the auth file atomically.
func (s *FileAuthSource) Save(_ context.Context, event domain.AuthEvent) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create auth dir: %w", err)
	}
	payload, err := json.Marshal(authFile{UID: event.UID})
	if err != nil {
		return fmt.Errorf("marshal auth state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write auth state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace auth state: %w", err)
	}
	return nil
}

func (s *FileAuthSource) Events(ctx context.Context) (<-chan domain.AuthEvent, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create auth dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create auth watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch auth dir: %w", err)
	}

	out := make(chan domain.AuthEvent, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		last, err := s.Current(ctx)
		if err != nil {
			s.logger.Warn("auth state unreadable", "path", s.path, "error", err)
		}
		if !s.send(ctx, out, last) {
			return
		}
		name := filepath.Clean(s.path)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != name {
					continue
				}
				current, err := s.Current(ctx)
				if err != nil {
					s.logger.Warn("auth state unreadable", "path", s.path, "error", err)
					continue
				}
				if current == last {
					continue
				}
				last = current
				if !s.send(ctx, out, current) {
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("auth watcher error", "error", err)
			}
		}
	}()
	return out, nil
}

func (s *FileAuthSource) send(ctx context.Context, out chan<- domain.AuthEvent, event domain.AuthEvent) bool {
	select {
	case out <- event:
		return true
	case <-ctx.Done():
		return false
	}
}
