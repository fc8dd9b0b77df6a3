package ai

// Sentiment is the overall tone reported by a provider. Providers may
// return free text outside the three known values.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Analysis is the structured result of analyzing page content.
type Analysis struct {
	Summary        string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Keywords       []string  `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Classification string    `json:"classification,omitempty" yaml:"classification,omitempty"`
	Sentiment      Sentiment `json:"sentiment,omitempty" yaml:"sentiment,omitempty"`
}
