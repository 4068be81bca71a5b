package in

import (
	"context"

	sentimentdto "wellness/internal/modules/sentiment/dto"
	sentimentin "wellness/internal/modules/sentiment/port/in"
)

type CLIHandler struct {
	usecase sentimentin.Usecase
}

func NewCLIHandler(usecase sentimentin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Analyze(ctx context.Context, text string) (sentimentdto.AnalyzeOutput, error) {
	return h.usecase.Analyze(ctx, sentimentdto.AnalyzeInput{Text: text})
}

func (h CLIHandler) Describe(ctx context.Context) (sentimentdto.AnalyzerInfo, error) {
	return h.usecase.Describe(ctx)
}
