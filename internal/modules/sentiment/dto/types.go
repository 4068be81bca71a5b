package dto

type AnalyzeInput struct {
	Text string
}

type AnalyzeOutput struct {
	Score float64
}

type AnalyzerInfo struct {
	Name    string
	Version string
}
