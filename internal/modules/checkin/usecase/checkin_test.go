package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"wellness/internal/modules/checkin/domain"
	checkindto "wellness/internal/modules/checkin/dto"
	checkinin "wellness/internal/modules/checkin/port/in"
	"wellness/internal/modules/checkin/service"
	"wellness/internal/modules/checkin/usecase"
	sentimentdto "wellness/internal/modules/sentiment/dto"
	sentimentin "wellness/internal/modules/sentiment/port/in"
	"wellness/internal/platform/clock"
	apperrors "wellness/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time                       { return f.now }
func (f fixedClock) NewTicker(time.Duration) clock.Ticker { return nil }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("chk-%d", s.n)
}

type memoryStore struct {
	saved []domain.CheckIn
	err   error
}

func (m *memoryStore) Save(_ context.Context, c domain.CheckIn) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, c)
	return nil
}

func (m *memoryStore) List(_ context.Context, uid string, limit int) ([]domain.CheckIn, error) {
	out := []domain.CheckIn{}
	for _, c := range m.saved {
		if c.UID == uid {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeSentiment struct {
	score float64
	err   error
	calls int
}

func (f *fakeSentiment) Analyze(context.Context, sentimentdto.AnalyzeInput) (sentimentdto.AnalyzeOutput, error) {
	f.calls++
	return sentimentdto.AnalyzeOutput{Score: f.score}, f.err
}

func (f *fakeSentiment) Describe(context.Context) (sentimentdto.AnalyzerInfo, error) {
	return sentimentdto.AnalyzerInfo{Name: "fake"}, nil
}

func newInteractor(store *memoryStore, sentiment sentimentin.Usecase) checkinin.Usecase {
	clk := fixedClock{now: time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC)}
	svc := service.NewCheckInService(clk, &seqID{}, store)
	return usecase.NewInteractor(svc, sentiment, nil)
}

func TestSubmitWithExplicitSentimentSkipsAnalyzer(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	analyzer := &fakeSentiment{score: -1}
	uc := newInteractor(store, analyzer)

	sentiment := 0.9
	out, err := uc.Submit(context.Background(), checkindto.SubmitInput{
		UID: "u-1", Answers: []int{1, 1, 1, 1, 1}, Sentiment: &sentiment, Text: "awful",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Score != 15 || out.State != "STABLE" || out.SentimentSource != usecase.SentimentProvided {
		t.Fatalf("unexpected output: %+v", out)
	}
	if analyzer.calls != 0 {
		t.Fatalf("analyzer must not run when sentiment is given")
	}
	if len(store.saved) != 1 || store.saved[0].UID != "u-1" || store.saved[0].Score != 15 {
		t.Fatalf("unexpected stored check-ins: %+v", store.saved)
	}
}

func TestSubmitAnalyzesTextWhenSentimentMissing(t *testing.T) {
	t.Parallel()
	analyzer := &fakeSentiment{score: -0.8}
	uc := newInteractor(&memoryStore{}, analyzer)

	out, err := uc.Submit(context.Background(), checkindto.SubmitInput{
		UID: "u-1", Answers: []int{3, 3, 3, 3}, Text: "overwhelmed",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Score != 75 || out.State != "HIGH_STRESS" || out.SentimentSource != usecase.SentimentAnalyzed {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestSubmitFallsBackToNeutral(t *testing.T) {
	t.Parallel()
	failing := &fakeSentiment{err: apperrors.ErrRemoteUnavailable}
	uc := newInteractor(&memoryStore{}, failing)

	out, err := uc.Submit(context.Background(), checkindto.SubmitInput{UID: "u-1", Answers: []int{3, 3, 3, 3}, Text: "meh"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Score != 60 || out.SentimentSource != usecase.SentimentNeutral {
		t.Fatalf("expected neutral fallback, got %+v", out)
	}

	noText := newInteractor(&memoryStore{}, &fakeSentiment{score: 1})
	out, err = noText.Submit(context.Background(), checkindto.SubmitInput{UID: "u-1", Answers: []int{3, 3, 3, 3}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Sentiment != 0 || out.SentimentSource != usecase.SentimentNeutral {
		t.Fatalf("expected neutral sentiment without text, got %+v", out)
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	uc := newInteractor(store, nil)

	if _, err := uc.Submit(context.Background(), checkindto.SubmitInput{UID: "u-1"}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty answers, got %v", err)
	}
	if _, err := uc.Submit(context.Background(), checkindto.SubmitInput{UID: " ", Answers: []int{2}}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty uid, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("rejected check-ins must not be stored")
	}
}

func TestHistoryReturnsNewestFirst(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	store := &memoryStore{saved: []domain.CheckIn{
		{ID: "a", UID: "u-1", Answers: []int{1}, Score: 20, State: domain.RiskStable, CreatedAt: base},
		{ID: "b", UID: "u-1", Answers: []int{5}, Score: 100, State: domain.RiskBurnoutRisk, CreatedAt: base.Add(24 * time.Hour)},
		{ID: "c", UID: "u-2", Answers: []int{3}, Score: 60, State: domain.RiskMildStress, CreatedAt: base},
	}}
	uc := newInteractor(store, nil)

	items, err := uc.History(context.Background(), "u-1", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(items) != 2 || items[0].ID != "b" || items[1].ID != "a" {
		t.Fatalf("unexpected history: %+v", items)
	}
	if _, err := uc.History(context.Background(), "u-1", 0); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for zero limit, got %v", err)
	}
}
