package in

import (
	"context"

	"wellness/internal/modules/session/dto"
)

type Usecase interface {
	Begin(ctx context.Context, input dto.BeginInput) (dto.StateOutput, error)
	Cancel(ctx context.Context) error
	Reset(ctx context.Context) error
	State(ctx context.Context) dto.StateOutput
	Watch(ctx context.Context) <-chan dto.StateOutput
	LastResult(ctx context.Context) (dto.CompletionOutput, bool)
	AwaitResult(ctx context.Context, runID string) (dto.CompletionOutput, error)
	Close()
}
