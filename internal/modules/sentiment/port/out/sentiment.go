package out

import (
	"context"

	"wellness/internal/modules/sentiment/domain"
)

// Analyzer scores free text. Implementations may return values outside
// [-1, 1]; callers clamp.
type Analyzer interface {
	Metadata(ctx context.Context) (domain.Metadata, error)
	Analyze(ctx context.Context, text string) (float64, error)
}
