// internal/client/analytics_client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yourorg/stock-dashboard/internal/model"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// AnalyticsClient handles communication with the external analytics service
// that performs price retrieval, sentiment scoring, market prediction and
// trade-decision modeling.
type AnalyticsClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAnalyticsClient creates a new analytics service client
func NewAnalyticsClient(baseURL string, timeout time.Duration, logger *zap.Logger) *AnalyticsClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AnalyticsClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// WaitReady probes the analytics service with exponential backoff until it
// answers or the context is cancelled. Used once at startup; individual
// fetches are never retried.
func (c *AnalyticsClient) WaitReady(ctx context.Context) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("Analytics service not reachable yet", zap.Error(err))
			return err
		}
		resp.Body.Close()
		return nil
	}

	return backoff.Retry(operation, backoff.WithContext(backoff.NewExponentialBackOff(), ctx))
}

// StockPrices fetches the daily price series for a company. The company
// string is forwarded verbatim, including an empty value.
func (c *AnalyticsClient) StockPrices(ctx context.Context, company string) ([]model.StockPricePoint, error) {
	var response struct {
		DailyPrices []model.StockPricePoint `json:"daily_prices"`
	}

	if err := c.post(ctx, "/stock_prices", map[string]string{"company": company}, &response); err != nil {
		c.logger.Error("Failed to fetch stock prices", zap.String("company", company), zap.Error(err))
		return nil, err
	}

	return response.DailyPrices, nil
}

// redditPostTuple decodes the [title, content|null, score] wire shape used
// by the collect_reddit_posts endpoint.
type redditPostTuple struct {
	Title   string
	Content *string
	Score   float64
}

func (t *redditPostTuple) UnmarshalJSON(data []byte) error {
	fields := []interface{}{&t.Title, &t.Content, &t.Score}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 3 {
		return fmt.Errorf("expected 3 tuple fields, got %d", len(fields))
	}
	return nil
}

// RedditPosts collects the Reddit posts gathered for a company. A post with
// null content is normalized to "N/A".
func (c *AnalyticsClient) RedditPosts(ctx context.Context, company string) ([]model.RedditPost, error) {
	var tuples []redditPostTuple

	if err := c.post(ctx, "/collect_reddit_posts", map[string]string{"company": company}, &tuples); err != nil {
		c.logger.Error("Failed to collect reddit posts", zap.String("company", company), zap.Error(err))
		return nil, err
	}

	posts := make([]model.RedditPost, 0, len(tuples))
	for _, t := range tuples {
		content := "N/A"
		if t.Content != nil && *t.Content != "" {
			content = *t.Content
		}
		posts = append(posts, model.RedditPost{
			Title:          t.Title,
			Content:        content,
			SentimentScore: t.Score,
		})
	}

	return posts, nil
}

// SentimentScores fetches the daily sentiment series and its average.
// The endpoint is global: it is not parameterized by company, so the
// returned series always reflects the most recently collected posts
// service-side.
func (c *AnalyticsClient) SentimentScores(ctx context.Context) ([]model.SentimentPoint, float64, error) {
	url := fmt.Sprintf("%s/daily_sentiment_scores", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to fetch sentiment scores", zap.Error(err))
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("analytics service returned status code %d", resp.StatusCode)
	}

	var response struct {
		DailySentimentScores []model.SentimentPoint `json:"daily_sentiment_scores"`
		AverageSentiment     float64                `json:"average_sentiment"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		c.logger.Error("Failed to decode sentiment scores response", zap.Error(err))
		return nil, 0, err
	}

	return response.DailySentimentScores, response.AverageSentiment, nil
}

// MarketSentiment fetches the directional market prediction for a symbol
// over a fixed historical window.
func (c *AnalyticsClient) MarketSentiment(ctx context.Context, symbol, startDate, endDate string) (*model.MarketSentiment, error) {
	payload := struct {
		Symbol    string `json:"symbol"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}{
		Symbol:    symbol,
		StartDate: startDate,
		EndDate:   endDate,
	}

	var response struct {
		Prediction string  `json:"prediction"`
		Confidence float64 `json:"confidence"`
		Report     struct {
			Accuracy float64 `json:"accuracy"`
		} `json:"report"`
	}

	if err := c.post(ctx, "/market_sentiment", payload, &response); err != nil {
		c.logger.Error("Failed to fetch market sentiment", zap.String("symbol", symbol), zap.Error(err))
		return nil, err
	}

	return &model.MarketSentiment{
		Prediction: response.Prediction,
		Confidence: response.Confidence,
		Accuracy:   response.Report.Accuracy,
	}, nil
}

// TradeDecision submits the current thresholds, sentiment scores and closing
// prices and returns the recommended action labels. Arrays are sent in their
// original order with no client-side validation.
func (c *AnalyticsClient) TradeDecision(ctx context.Context, thresholds model.Thresholds, scores, closes []float64) (*model.DecisionResult, error) {
	payload := struct {
		ThresholdHigh   int       `json:"threshold_high"`
		ThresholdLow    int       `json:"threshold_low"`
		SentimentScores []float64 `json:"sentiment_scores"`
		ClosingPrices   []float64 `json:"closing_prices"`
	}{
		ThresholdHigh:   thresholds.Upper,
		ThresholdLow:    thresholds.Lower,
		SentimentScores: scores,
		ClosingPrices:   closes,
	}

	var decision model.DecisionResult
	if err := c.post(ctx, "/trade_decisions", payload, &decision); err != nil {
		c.logger.Error("Failed to calculate trade decision", zap.Error(err))
		return nil, err
	}

	return &decision, nil
}

// post sends a JSON POST request and decodes the JSON response into out.
func (c *AnalyticsClient) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	url := fmt.Sprintf("%s%s", c.baseURL, path)

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("analytics service returned status code %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
