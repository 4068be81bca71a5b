package out

import (
	"context"

	"wellness/internal/modules/profile/domain"
)

// ProfileStore is the remote document store as seen by the profile module.
// GetProfile returns apperrors.ErrNotFound when the document does not exist.
type ProfileStore interface {
	GetProfile(ctx context.Context, uid string) (domain.Profile, error)
	SetProfile(ctx context.Context, uid string, profile domain.Profile) error
	AppendSession(ctx context.Context, record domain.SessionRecord) (string, error)
	ListSessions(ctx context.Context, uid string) ([]domain.SessionRecord, error)
	WatchProfile(ctx context.Context, uid string) (<-chan domain.Snapshot, error)
}

// AuthSource is the auth-state source. Events emits the current identity
// first, then every change, until ctx ends.
type AuthSource interface {
	Current(ctx context.Context) (domain.AuthEvent, error)
	Save(ctx context.Context, event domain.AuthEvent) error
	Events(ctx context.Context) (<-chan domain.AuthEvent, error)
}
