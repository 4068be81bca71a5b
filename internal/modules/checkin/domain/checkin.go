package domain

import (
	"fmt"
	"math"
	"time"

	apperrors "wellness/internal/platform/errors"
)

type RiskState string

const (
	RiskStable      RiskState = "STABLE"
	RiskMildStress  RiskState = "MILD_STRESS"
	RiskHighStress  RiskState = "HIGH_STRESS"
	RiskBurnoutRisk RiskState = "BURNOUT_RISK"
)

const (
	MinAnswer = 1
	MaxAnswer = 5

	stableBelow     = 35
	mildStressBelow = 65
	highStressBelow = 85
)

type RiskResult struct {
	Score int
	State RiskState
}

// Classify turns ordinal answers (1 best, 5 worst) and a sentiment score in
// [-1, 1] into a risk score and state. Negative sentiment can raise the
// score by up to 15; positive sentiment lowers it by at most 5.
func Classify(answers []int, sentiment float64) (RiskResult, error) {
	if len(answers) == 0 {
		return RiskResult{}, fmt.Errorf("%w: at least one answer is required", apperrors.ErrInvalidArgument)
	}
	if math.IsNaN(sentiment) || sentiment < -1 || sentiment > 1 {
		return RiskResult{}, fmt.Errorf("%w: sentiment must be in [-1, 1], got %v", apperrors.ErrInvalidArgument, sentiment)
	}
	raw := 0
	for i, a := range answers {
		if a < MinAnswer || a > MaxAnswer {
			return RiskResult{}, fmt.Errorf("%w: answer %d must be in [%d, %d], got %d", apperrors.ErrInvalidArgument, i+1, MinAnswer, MaxAnswer, a)
		}
		raw += a
	}
	maxPossible := MaxAnswer * len(answers)
	score := int(math.Round(100 * float64(raw) / float64(maxPossible)))

	switch {
	case sentiment < -0.6:
		score += 15
	case sentiment < -0.3:
		score += 5
	case sentiment > 0.7:
		score -= 5
	}
	score = max(0, min(100, score))
	return RiskResult{Score: score, State: stateFor(score)}, nil
}

func stateFor(score int) RiskState {
	switch {
	case score < stableBelow:
		return RiskStable
	case score < mildStressBelow:
		return RiskMildStress
	case score < highStressBelow:
		return RiskHighStress
	default:
		return RiskBurnoutRisk
	}
}

// CheckIn is one stored classification.
type CheckIn struct {
	ID        string
	UID       string
	Answers   []int
	Sentiment float64
	Score     int
	State     RiskState
	CreatedAt time.Time
}
