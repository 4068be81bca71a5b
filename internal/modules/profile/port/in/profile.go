package in

import (
	"context"

	"wellness/internal/modules/profile/dto"
)

type Usecase interface {
	Login(ctx context.Context, uid string) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) (string, error)
	Follow(ctx context.Context) error
	Close()
	Complete(ctx context.Context, input dto.CompleteInput) (dto.CompleteOutput, error)
	State(ctx context.Context) dto.StateOutput
	Watch(ctx context.Context) <-chan dto.StateOutput
	GetProfile(ctx context.Context) (dto.ProfileOutput, error)
	ListSessions(ctx context.Context) ([]dto.SessionRecordOutput, error)
}
