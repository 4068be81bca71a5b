package out

import (
	"context"
	"encoding/json"
	"fmt"

	"wellness/internal/modules/profile/domain"
	profileout "wellness/internal/modules/profile/port/out"
	"wellness/internal/platform/docstore"
)

// DocumentStore is the subset of docstore.Store the profile module uses.
type DocumentStore interface {
	Get(ctx context.Context, path string) (docstore.Document, error)
	Set(ctx context.Context, path string, data []byte) error
	Add(ctx context.Context, collection string, data []byte) (string, error)
	List(ctx context.Context, collection string) ([]docstore.Document, error)
	Subscribe(ctx context.Context, path string) (<-chan docstore.Document, error)
}

type DocumentProfileStore struct {
	docs DocumentStore
}

func NewDocumentProfileStore(docs DocumentStore) profileout.ProfileStore {
	return &DocumentProfileStore{docs: docs}
}

func profilePath(uid string) string {
	return "users/" + uid + "/stats/wellness"
}

func sessionsPath(uid string) string {
	return "users/" + uid + "/sessions"
}

func (s *DocumentProfileStore) GetProfile(ctx context.Context, uid string) (domain.Profile, error) {
	doc, err := s.docs.Get(ctx, profilePath(uid))
	if err != nil {
		return domain.Profile{}, err
	}
	return decodeProfile(doc.Data)
}

func (s *DocumentProfileStore) SetProfile(ctx context.Context, uid string, profile domain.Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return s.docs.Set(ctx, profilePath(uid), payload)
}

// AppendSession stores the record under its own id when it has one, so a
// replayed completion overwrites instead of duplicating.
func (s *DocumentProfileStore) AppendSession(ctx context.Context, record domain.SessionRecord) (string, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal session record: %w", err)
	}
	if record.ID == "" {
		return s.docs.Add(ctx, sessionsPath(record.UID), payload)
	}
	if err := s.docs.Set(ctx, sessionsPath(record.UID)+"/"+record.ID, payload); err != nil {
		return "", err
	}
	return record.ID, nil
}

func (s *DocumentProfileStore) ListSessions(ctx context.Context, uid string) ([]domain.SessionRecord, error) {
	docs, err := s.docs.List(ctx, sessionsPath(uid))
	if err != nil {
		return nil, err
	}
	out := make([]domain.SessionRecord, 0, len(docs))
	for _, doc := range docs {
		record := domain.SessionRecord{}
		if err := json.Unmarshal(doc.Data, &record); err != nil {
			return nil, fmt.Errorf("decode session record %s: %w", doc.Path, err)
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *DocumentProfileStore) WatchProfile(ctx context.Context, uid string) (<-chan domain.Snapshot, error) {
	docs, err := s.docs.Subscribe(ctx, profilePath(uid))
	if err != nil {
		return nil, err
	}
	out := make(chan domain.Snapshot)
	go func() {
		defer close(out)
		for doc := range docs {
			snap := domain.Snapshot{Exists: doc.Exists, Version: doc.Version}
			if doc.Exists {
				p, err := decodeProfile(doc.Data)
				if err != nil {
					continue
				}
				snap.Profile = p
			}
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func decodeProfile(data []byte) (domain.Profile, error) {
	p := domain.Profile{}
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}
