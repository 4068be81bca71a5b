package in

import (
	"context"

	profiledto "wellness/internal/modules/profile/dto"
	profilein "wellness/internal/modules/profile/port/in"
)

type CLIHandler struct {
	usecase profilein.Usecase
}

func NewCLIHandler(usecase profilein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, uid string) error {
	return h.usecase.Login(ctx, uid)
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Whoami(ctx context.Context) (string, error) {
	return h.usecase.Whoami(ctx)
}

func (h CLIHandler) Follow(ctx context.Context) error {
	return h.usecase.Follow(ctx)
}

func (h CLIHandler) Close() {
	h.usecase.Close()
}

func (h CLIHandler) GetProfile(ctx context.Context) (profiledto.ProfileOutput, error) {
	return h.usecase.GetProfile(ctx)
}

func (h CLIHandler) ListSessions(ctx context.Context) ([]profiledto.SessionRecordOutput, error) {
	return h.usecase.ListSessions(ctx)
}

func (h CLIHandler) State(ctx context.Context) profiledto.StateOutput {
	return h.usecase.State(ctx)
}

func (h CLIHandler) Watch(ctx context.Context) <-chan profiledto.StateOutput {
	return h.usecase.Watch(ctx)
}
