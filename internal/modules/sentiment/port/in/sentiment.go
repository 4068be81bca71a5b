package in

import (
	"context"

	"wellness/internal/modules/sentiment/dto"
)

type Usecase interface {
	Analyze(ctx context.Context, input dto.AnalyzeInput) (dto.AnalyzeOutput, error)
	Describe(ctx context.Context) (dto.AnalyzerInfo, error)
}
