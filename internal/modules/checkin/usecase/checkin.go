package usecase

import (
	"context"
	"log/slog"
	"strings"

	"wellness/internal/modules/checkin/domain"
	checkindto "wellness/internal/modules/checkin/dto"
	checkinin "wellness/internal/modules/checkin/port/in"
	"wellness/internal/modules/checkin/service"
	sentimentdto "wellness/internal/modules/sentiment/dto"
	sentimentin "wellness/internal/modules/sentiment/port/in"
	"wellness/internal/platform/logging"
)

const (
	SentimentProvided = "provided"
	SentimentAnalyzed = "analyzed"
	SentimentNeutral  = "neutral"
)

type Interactor struct {
	svc       *service.CheckInService
	sentiment sentimentin.Usecase
	logger    *slog.Logger
}

func NewInteractor(svc *service.CheckInService, sentiment sentimentin.Usecase, logger *slog.Logger) checkinin.Usecase {
	return &Interactor{svc: svc, sentiment: sentiment, logger: logging.OrDefault(logger)}
}

// Submit classifies and stores one check-in. An explicit sentiment wins over
// free text; text that cannot be analyzed counts as neutral.
func (i *Interactor) Submit(ctx context.Context, input checkindto.SubmitInput) (checkindto.SubmitOutput, error) {
	sentiment, source := i.resolveSentiment(ctx, input)
	checkIn, err := i.svc.Record(ctx, input.UID, input.Answers, sentiment)
	if err != nil {
		return checkindto.SubmitOutput{}, err
	}
	i.logger.Info("check-in recorded", "uid", checkIn.UID, "state", checkIn.State, "score", checkIn.Score, "sentiment_source", source)
	return checkindto.SubmitOutput{
		ID:              checkIn.ID,
		Score:           checkIn.Score,
		State:           string(checkIn.State),
		Sentiment:       checkIn.Sentiment,
		SentimentSource: source,
		CreatedAt:       checkIn.CreatedAt,
	}, nil
}

func (i *Interactor) resolveSentiment(ctx context.Context, input checkindto.SubmitInput) (float64, string) {
	if input.Sentiment != nil {
		return *input.Sentiment, SentimentProvided
	}
	if strings.TrimSpace(input.Text) == "" || i.sentiment == nil {
		return 0, SentimentNeutral
	}
	out, err := i.sentiment.Analyze(ctx, sentimentdto.AnalyzeInput{Text: input.Text})
	if err != nil {
		i.logger.Warn("sentiment unavailable, using neutral", "error", err)
		return 0, SentimentNeutral
	}
	return out.Score, SentimentAnalyzed
}

func (i *Interactor) History(ctx context.Context, uid string, limit int) ([]checkindto.CheckInOutput, error) {
	items, err := i.svc.History(ctx, uid, limit)
	if err != nil {
		return nil, err
	}
	out := make([]checkindto.CheckInOutput, 0, len(items))
	for _, item := range items {
		out = append(out, toOutput(item))
	}
	return out, nil
}

func toOutput(c domain.CheckIn) checkindto.CheckInOutput {
	return checkindto.CheckInOutput{
		ID:        c.ID,
		Answers:   append([]int(nil), c.Answers...),
		Sentiment: c.Sentiment,
		Score:     c.Score,
		State:     string(c.State),
		CreatedAt: c.CreatedAt,
	}
}
