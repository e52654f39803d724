package service

import (
	"github.com/yourorg/stock-dashboard/internal/model"
	"github.com/yourorg/stock-dashboard/internal/utils"
)

// PostRow is one Reddit post prepared for display: content truncated,
// score band attached.
type PostRow struct {
	Title          string  `json:"title"`
	Content        string  `json:"content"`
	SentimentScore float64 `json:"sentiment_score"`
	ScoreBand      string  `json:"score_band"`
}

// SentimentRow is one daily sentiment entry prepared for display.
type SentimentRow struct {
	Date      string  `json:"date"`
	Score     float64 `json:"score"`
	Sentiment string  `json:"sentiment"`
	ScoreBand string  `json:"score_band"`
}

// DashboardView is the read-only snapshot handed to the presentation
// layer. PriceSeries carries the full unsliced series for charting while
// StockRows carries only the current page.
type DashboardView struct {
	Symbol               string                   `json:"symbol"`
	Loading              bool                     `json:"loading"`
	DecisionLoading      bool                     `json:"decision_loading"`
	Notification         string                   `json:"notification,omitempty"`
	PriceSeries          []model.StockPricePoint  `json:"price_series"`
	StockRows            []model.StockPricePoint  `json:"stock_rows"`
	StockPagination      utils.PaginationMetadata `json:"stock_pagination"`
	PostRows             []PostRow                `json:"post_rows"`
	PostPagination       utils.PaginationMetadata `json:"post_pagination"`
	SentimentRows        []SentimentRow           `json:"sentiment_rows"`
	AverageSentiment     float64                  `json:"average_sentiment"`
	AverageSentimentBand string                   `json:"average_sentiment_band"`
	Thresholds           model.Thresholds         `json:"thresholds"`
	Decision             model.DecisionResult     `json:"decision"`
	MarketOutlook        string                   `json:"market_outlook"`
	Stages               []model.StageResult      `json:"stages,omitempty"`
}

// View builds the presentation snapshot from the current state.
func (s *DashboardService) View() DashboardView {
	state := s.store.Snapshot()

	stockStart, stockEnd := utils.PageBounds(state.StockPage, s.cfg.StocksPerPage, len(state.StockPrices))
	postStart, postEnd := utils.PageBounds(state.PostPage, s.cfg.PostsPerPage, len(state.Posts))

	postRows := make([]PostRow, 0, postEnd-postStart)
	for _, post := range state.Posts[postStart:postEnd] {
		postRows = append(postRows, PostRow{
			Title:          post.Title,
			Content:        utils.TruncateContent(post.Content),
			SentimentScore: post.SentimentScore,
			ScoreBand:      utils.ScoreBand(post.SentimentScore),
		})
	}

	sentimentRows := make([]SentimentRow, 0, len(state.SentimentPoints))
	for _, point := range state.SentimentPoints {
		sentimentRows = append(sentimentRows, SentimentRow{
			Date:      point.Date,
			Score:     point.Score,
			Sentiment: point.Sentiment,
			ScoreBand: utils.ScoreBand(point.Score),
		})
	}

	marketOutlook := "N/A"
	if state.Market != nil {
		marketOutlook = utils.MarketOutlookMessage(state.Market.Prediction, state.Market.Confidence, state.Market.Accuracy)
	}

	return DashboardView{
		Symbol:               state.Symbol,
		Loading:              state.Loading,
		DecisionLoading:      state.DecisionLoading,
		Notification:         state.Notification,
		PriceSeries:          state.StockPrices,
		StockRows:            state.StockPrices[stockStart:stockEnd],
		StockPagination:      utils.NewPaginationMetadata(len(state.StockPrices), state.StockPage, s.cfg.StocksPerPage),
		PostRows:             postRows,
		PostPagination:       utils.NewPaginationMetadata(len(state.Posts), state.PostPage, s.cfg.PostsPerPage),
		SentimentRows:        sentimentRows,
		AverageSentiment:     state.AverageSentiment,
		AverageSentimentBand: utils.SentimentBand(state.AverageSentiment),
		Thresholds:           state.Thresholds,
		Decision:             state.Decision,
		MarketOutlook:        marketOutlook,
		Stages:               state.Stages,
	}
}
