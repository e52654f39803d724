package utils

import "fmt"

// Sentiment display bands.
const (
	BandPositive = "positive"
	BandNegative = "negative"
	BandNeutral  = "neutral"
)

// maxContentRunes is the display cutoff for post content.
const maxContentRunes = 200

// readMoreMarker is appended to truncated post content.
const readMoreMarker = "... (read more)"

// TruncateContent shortens post content to the first 200 characters and
// appends a read-more marker. Content at or under the limit is returned
// unchanged. The function is idempotent: a previously truncated string
// truncates to itself.
func TruncateContent(content string) string {
	runes := []rune(content)
	if len(runes) <= maxContentRunes {
		return content
	}
	return string(runes[:maxContentRunes]) + readMoreMarker
}

// SentimentBand classifies an average sentiment value for display.
// Above 60 is positive and below 40 is negative; everything in between
// is neutral. The negative boundary is 40, matching the primary
// dashboard view.
func SentimentBand(average float64) string {
	switch {
	case average > 60:
		return BandPositive
	case average < 40:
		return BandNegative
	default:
		return BandNeutral
	}
}

// ScoreBand classifies a signed sentiment score for display. Used for
// both per-post and per-day score coloring.
func ScoreBand(score float64) string {
	switch {
	case score > 0:
		return BandPositive
	case score < 0:
		return BandNegative
	default:
		return BandNeutral
	}
}

// MarketOutlookMessage formats the market-sentiment prediction into the
// display sentence shown to the user. The margin-of-error figure is a
// display heuristic carried over from the product, not a statistically
// derived quantity.
func MarketOutlookMessage(prediction string, confidence, accuracy float64) string {
	margin := (0.9999999 - accuracy) * 100 * 0.05
	return fmt.Sprintf(
		"Stock to go %s with a %v %% confidence and with a margin of error of about %v %%.",
		prediction, confidence, margin,
	)
}
