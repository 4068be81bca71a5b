package in

import (
	"context"

	sessiondto "wellness/internal/modules/session/dto"
	sessionin "wellness/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Begin(ctx context.Context, kind string, minutes int) (sessiondto.StateOutput, error) {
	return h.usecase.Begin(ctx, sessiondto.BeginInput{Kind: kind, Minutes: minutes})
}

func (h CLIHandler) Cancel(ctx context.Context) error {
	return h.usecase.Cancel(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) error {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) State(ctx context.Context) sessiondto.StateOutput {
	return h.usecase.State(ctx)
}

func (h CLIHandler) Watch(ctx context.Context) <-chan sessiondto.StateOutput {
	return h.usecase.Watch(ctx)
}

func (h CLIHandler) LastResult(ctx context.Context) (sessiondto.CompletionOutput, bool) {
	return h.usecase.LastResult(ctx)
}

func (h CLIHandler) AwaitResult(ctx context.Context, runID string) (sessiondto.CompletionOutput, error) {
	return h.usecase.AwaitResult(ctx, runID)
}

func (h CLIHandler) Close() {
	h.usecase.Close()
}
