package in

import (
	"context"

	checkindto "wellness/internal/modules/checkin/dto"
	checkinin "wellness/internal/modules/checkin/port/in"
)

type CLIHandler struct {
	usecase checkinin.Usecase
}

func NewCLIHandler(usecase checkinin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Submit(ctx context.Context, uid string, answers []int, sentiment *float64, text string) (checkindto.SubmitOutput, error) {
	return h.usecase.Submit(ctx, checkindto.SubmitInput{UID: uid, Answers: answers, Sentiment: sentiment, Text: text})
}

func (h CLIHandler) History(ctx context.Context, uid string, limit int) ([]checkindto.CheckInOutput, error) {
	return h.usecase.History(ctx, uid, limit)
}
