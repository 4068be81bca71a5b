package service

import (
	"context"
	"fmt"
	"strings"

	"wellness/internal/modules/checkin/domain"
	checkinout "wellness/internal/modules/checkin/port/out"
	"wellness/internal/platform/clock"
	apperrors "wellness/internal/platform/errors"
	"wellness/internal/platform/id"
)

type CheckInService struct {
	clock clock.Clock
	idGen id.Generator
	store checkinout.CheckInStore
}

func NewCheckInService(clock clock.Clock, idGen id.Generator, store checkinout.CheckInStore) *CheckInService {
	return &CheckInService{clock: clock, idGen: idGen, store: store}
}

// Record classifies the answers and stores the result.
func (s *CheckInService) Record(ctx context.Context, uid string, answers []int, sentiment float64) (domain.CheckIn, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return domain.CheckIn{}, fmt.Errorf("%w: uid is required", apperrors.ErrInvalidArgument)
	}
	result, err := domain.Classify(answers, sentiment)
	if err != nil {
		return domain.CheckIn{}, err
	}
	checkIn := domain.CheckIn{
		ID:        s.idGen.New(),
		UID:       uid,
		Answers:   append([]int(nil), answers...),
		Sentiment: sentiment,
		Score:     result.Score,
		State:     result.State,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.Save(ctx, checkIn); err != nil {
		return domain.CheckIn{}, err
	}
	checkInsTotal.WithLabelValues(string(result.State)).Inc()
	return checkIn, nil
}

func (s *CheckInService) History(ctx context.Context, uid string, limit int) ([]domain.CheckIn, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", apperrors.ErrInvalidArgument)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", apperrors.ErrInvalidArgument)
	}
	return s.store.List(ctx, uid, limit)
}
