package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"wellness/internal/modules/sentiment/domain"
	apperrors "wellness/internal/platform/errors"
)

type stubAnalyzer struct {
	score float64
	err   error
	seen  string
}

func (s *stubAnalyzer) Metadata(context.Context) (domain.Metadata, error) {
	return domain.Metadata{Name: "stub", Version: "0.1.0"}, s.err
}

func (s *stubAnalyzer) Analyze(_ context.Context, text string) (float64, error) {
	s.seen = text
	return s.score, s.err
}

func TestAnalyzeClampsScores(t *testing.T) {
	t.Parallel()
	stub := &stubAnalyzer{score: 3.5}
	svc := NewAnalyzerService(stub, nil)
	score, err := svc.Analyze(context.Background(), "  great day  ")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if score != 1 {
		t.Fatalf("expected clamp to 1, got %v", score)
	}
	if stub.seen != "great day" {
		t.Fatalf("expected trimmed text, got %q", stub.seen)
	}
}

func TestAnalyzeTruncatesLongText(t *testing.T) {
	t.Parallel()
	stub := &stubAnalyzer{}
	svc := NewAnalyzerService(stub, nil)
	if _, err := svc.Analyze(context.Background(), strings.Repeat("a", MaxTextLength+100)); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(stub.seen) != MaxTextLength {
		t.Fatalf("expected %d bytes, got %d", MaxTextLength, len(stub.seen))
	}
}

func TestAnalyzeErrors(t *testing.T) {
	t.Parallel()
	svc := NewAnalyzerService(&stubAnalyzer{}, nil)
	if _, err := svc.Analyze(context.Background(), "   "); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	failing := NewAnalyzerService(&stubAnalyzer{err: errors.New("plugin exited")}, nil)
	if _, err := failing.Analyze(context.Background(), "tired"); !errors.Is(err, apperrors.ErrRemoteUnavailable) {
		t.Fatalf("expected remote unavailable, got %v", err)
	}

	nan := NewAnalyzerService(&stubAnalyzer{score: math.NaN()}, nil)
	if _, err := nan.Analyze(context.Background(), "tired"); !errors.Is(err, apperrors.ErrRemoteUnavailable) {
		t.Fatalf("expected remote unavailable for NaN, got %v", err)
	}
}
