package in

import (
	"context"

	"wellness/internal/modules/checkin/dto"
)

type Usecase interface {
	Submit(ctx context.Context, input dto.SubmitInput) (dto.SubmitOutput, error)
	History(ctx context.Context, uid string, limit int) ([]dto.CheckInOutput, error)
}
