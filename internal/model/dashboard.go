package model

// StockPricePoint represents one day of opening and closing prices.
// The analytics service returns points in chronological order and that
// order is preserved everywhere downstream.
type StockPricePoint struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	Close float64 `json:"close"`
}

// RedditPost represents a collected Reddit post with its sentiment score.
// The analytics service sends posts as [title, content|null, score] tuples;
// a missing content is normalized to "N/A" at decode time.
type RedditPost struct {
	Title          string  `json:"title"`
	Content        string  `json:"content"`
	SentimentScore float64 `json:"sentiment_score"`
}

// SentimentPoint represents the aggregated sentiment for one calendar day.
type SentimentPoint struct {
	Date      string  `json:"date"`
	Score     float64 `json:"score"`
	Sentiment string  `json:"sentiment"`
}

// Thresholds holds the user-adjustable bounds sent to the trade-decision
// endpoint. Lower is conventionally <= Upper but that is never enforced;
// a violated pair is forwarded to the decision endpoint as-is.
type Thresholds struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
}

// DefaultThresholds returns the threshold pair applied on every symbol change.
func DefaultThresholds() Thresholds {
	return Thresholds{Lower: -10, Upper: 10}
}

// DecisionResult holds the opaque labels returned by the trade-decision
// endpoint. Both labels are display strings with no enumerated contract.
type DecisionResult struct {
	Action          string `json:"action"`
	ModelPrediction string `json:"model_prediction"`
}

// MarketSentiment is the directional prediction returned by the market
// sentiment endpoint, plus the model accuracy used for the derived
// margin-of-error display figure.
type MarketSentiment struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
	Accuracy   float64 `json:"accuracy"`
}

// StageResult tags the outcome of one orchestration stage. Err is empty
// when the stage succeeded, and holds the error text otherwise.
type StageResult struct {
	Name string `json:"name"`
	Err  string `json:"error,omitempty"`
}

// Failed reports whether the stage ended in an error.
func (r StageResult) Failed() bool {
	return r.Err != ""
}
