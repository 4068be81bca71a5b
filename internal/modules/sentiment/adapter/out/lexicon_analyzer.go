package out

import (
	"context"

	"wellness/internal/modules/sentiment/domain"
	sentimentout "wellness/internal/modules/sentiment/port/out"
)

const lexiconVersion = "1.0.0"

// LexiconAnalyzer scores text in process with a word-polarity table. It is
// the analyzer used when no plugin binary is configured, and the engine the
// lexicon plugin serves over gRPC.
type LexiconAnalyzer struct {
	lexicon domain.Lexicon
}

func NewLexiconAnalyzer(lexicon domain.Lexicon) sentimentout.Analyzer {
	if lexicon == nil {
		lexicon = domain.DefaultLexicon
	}
	return &LexiconAnalyzer{lexicon: lexicon}
}

func (a *LexiconAnalyzer) Metadata(context.Context) (domain.Metadata, error) {
	return domain.Metadata{Name: "lexicon", Version: lexiconVersion}, nil
}

func (a *LexiconAnalyzer) Analyze(_ context.Context, text string) (float64, error) {
	return a.lexicon.Score(text), nil
}
