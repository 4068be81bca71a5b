package dto

import "time"

type SubmitInput struct {
	UID     string
	Answers []int
	// Sentiment overrides text analysis when set.
	Sentiment *float64
	Text      string
}

type SubmitOutput struct {
	ID              string
	Score           int
	State           string
	Sentiment       float64
	SentimentSource string
	CreatedAt       time.Time
}

type CheckInOutput struct {
	ID        string
	Answers   []int
	Sentiment float64
	Score     int
	State     string
	CreatedAt time.Time
}
