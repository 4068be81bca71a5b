package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"wellness/internal/modules/sentiment/domain"
	sentimentout "wellness/internal/modules/sentiment/port/out"
	apperrors "wellness/internal/platform/errors"
	"wellness/internal/platform/logging"
)

// MaxTextLength bounds the text sent to an analyzer, in bytes.
const MaxTextLength = 4096

type AnalyzerService struct {
	analyzer sentimentout.Analyzer
	logger   *slog.Logger
}

func NewAnalyzerService(analyzer sentimentout.Analyzer, logger *slog.Logger) *AnalyzerService {
	return &AnalyzerService{analyzer: analyzer, logger: logging.OrDefault(logger)}
}

// Analyze returns a score in [-1, 1]. Analyzer failures are wrapped with
// ErrRemoteUnavailable.
func (s *AnalyzerService) Analyze(ctx context.Context, text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("%w: text is required", apperrors.ErrInvalidArgument)
	}
	if len(text) > MaxTextLength {
		text = text[:MaxTextLength]
	}
	score, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		s.logger.Warn("sentiment analysis failed", "error", err)
		return 0, fmt.Errorf("analyze sentiment: %w: %v", apperrors.ErrRemoteUnavailable, err)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("analyze sentiment: %w: analyzer returned %v", apperrors.ErrRemoteUnavailable, score)
	}
	clamped := domain.Clamp(score)
	if clamped != score {
		s.logger.Debug("sentiment score clamped", "raw", score, "score", clamped)
	}
	return clamped, nil
}

func (s *AnalyzerService) Describe(ctx context.Context) (domain.Metadata, error) {
	meta, err := s.analyzer.Metadata(ctx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("describe analyzer: %w: %v", apperrors.ErrRemoteUnavailable, err)
	}
	return meta, nil
}
