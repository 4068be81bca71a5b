package out

import (
	"context"

	"wellness/internal/modules/checkin/domain"
)

type CheckInStore interface {
	Save(ctx context.Context, checkIn domain.CheckIn) error
	// List returns at most limit check-ins of uid, newest first.
	List(ctx context.Context, uid string, limit int) ([]domain.CheckIn, error)
}
