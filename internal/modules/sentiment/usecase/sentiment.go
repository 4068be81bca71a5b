package usecase

import (
	"context"

	sentimentdto "wellness/internal/modules/sentiment/dto"
	sentimentin "wellness/internal/modules/sentiment/port/in"
	"wellness/internal/modules/sentiment/service"
)

type Interactor struct {
	svc *service.AnalyzerService
}

func NewInteractor(svc *service.AnalyzerService) sentimentin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Analyze(ctx context.Context, input sentimentdto.AnalyzeInput) (sentimentdto.AnalyzeOutput, error) {
	score, err := i.svc.Analyze(ctx, input.Text)
	if err != nil {
		return sentimentdto.AnalyzeOutput{}, err
	}
	return sentimentdto.AnalyzeOutput{Score: score}, nil
}

func (i *Interactor) Describe(ctx context.Context) (sentimentdto.AnalyzerInfo, error) {
	meta, err := i.svc.Describe(ctx)
	if err != nil {
		return sentimentdto.AnalyzerInfo{}, err
	}
	return sentimentdto.AnalyzerInfo{Name: meta.Name, Version: meta.Version}, nil
}
