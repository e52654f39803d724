package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yourorg/stock-dashboard/internal/client"
	"github.com/yourorg/stock-dashboard/internal/config"
	"github.com/yourorg/stock-dashboard/internal/events"
	"github.com/yourorg/stock-dashboard/internal/model"
	"github.com/yourorg/stock-dashboard/internal/utils"

	"go.uber.org/zap"
)

// Orchestration stage names, in execution order.
const (
	StageStockPrices     = "stock_prices"
	StageRedditPosts     = "reddit_posts"
	StageSentimentScores = "sentiment_scores"
	StageMarketSentiment = "market_sentiment"
)

// User-facing notification strings.
const (
	refreshFailedNotification  = "Error fetching data. Please try again."
	decisionFailedNotification = "Error calculating trade decision. Please try again."
)

// Threshold field names accepted by the threshold hooks.
const (
	ThresholdFieldLower = "lower"
	ThresholdFieldUpper = "upper"
)

// Table names accepted by the page-selection hook.
const (
	TableStocks = "stocks"
	TablePosts  = "posts"
)

// DashboardService orchestrates the remote fetch pipeline and owns the
// dashboard view-model for the presentation layer.
type DashboardService struct {
	store    *Store
	client   *client.AnalyticsClient
	producer *events.Producer
	cfg      config.DashboardConfig
	logger   *zap.Logger
}

// NewDashboardService creates a new dashboard service. The events producer
// may be nil when event publishing is disabled.
func NewDashboardService(
	analyticsClient *client.AnalyticsClient,
	producer *events.Producer,
	cfg config.DashboardConfig,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		store:    NewStore(),
		client:   analyticsClient,
		producer: producer,
		cfg:      cfg,
		logger:   logger,
	}
}

// stage is one named step of the refresh pipeline. A stage marked
// abortOnError stops the remaining pipeline when it fails; other stages
// only record their failure.
type stage struct {
	name         string
	abortOnError bool
	run          func(ctx context.Context, gen uint64) error
}

// Symbol returns the symbol the current state was built for.
func (s *DashboardService) Symbol() string {
	return s.store.Snapshot().Symbol
}

// NeedsRefresh reports whether a snapshot request for symbol should start
// a new refresh: either nothing has been fetched yet, or the requested
// symbol differs from the one the current state was built for.
func (s *DashboardService) NeedsRefresh(symbol string) bool {
	return s.store.Generation() == 0 || s.store.Snapshot().Symbol != symbol
}

// Refresh runs the four-stage fetch pipeline for a symbol, strictly in
// order with each stage awaited before the next. The symbol is forwarded
// verbatim, including an empty value: the analytics service owns symbol
// validation. The loading flag spans the whole pipeline and resolves
// exactly once.
func (s *DashboardService) Refresh(ctx context.Context, symbol string) {
	gen := s.store.BeginRefresh(symbol)
	start := time.Now()

	stages := []stage{
		{
			name:         StageStockPrices,
			abortOnError: true,
			run: func(ctx context.Context, gen uint64) error {
				prices, err := s.client.StockPrices(ctx, symbol)
				if err != nil {
					return err
				}
				if !s.store.Commit(gen, func(st *State) { st.StockPrices = prices }) {
					return errStaleGeneration
				}
				return nil
			},
		},
		{
			name:         StageRedditPosts,
			abortOnError: true,
			run: func(ctx context.Context, gen uint64) error {
				posts, err := s.client.RedditPosts(ctx, symbol)
				if err != nil {
					return err
				}
				if !s.store.Commit(gen, func(st *State) { st.Posts = posts }) {
					return errStaleGeneration
				}
				return nil
			},
		},
		{
			name: StageSentimentScores,
			run: func(ctx context.Context, gen uint64) error {
				points, average, err := s.client.SentimentScores(ctx)
				if err != nil {
					return err
				}
				if !s.store.Commit(gen, func(st *State) {
					st.SentimentPoints = points
					st.AverageSentiment = average
				}) {
					return errStaleGeneration
				}
				return nil
			},
		},
		{
			name: StageMarketSentiment,
			run: func(ctx context.Context, gen uint64) error {
				market, err := s.client.MarketSentiment(ctx, symbol, s.cfg.MarketStartDate, s.cfg.MarketEndDate)
				if err != nil {
					return err
				}
				if !s.store.Commit(gen, func(st *State) { st.Market = market }) {
					return errStaleGeneration
				}
				return nil
			},
		},
	}

	var results []model.StageResult
	aborted := false

	for _, st := range stages {
		err := st.run(ctx, gen)
		if err == nil {
			results = append(results, model.StageResult{Name: st.name})
			continue
		}

		if errors.Is(err, errStaleGeneration) {
			// A newer refresh took over; this run's remaining results
			// must not reach the store.
			s.logger.Debug("Discarding stale refresh",
				zap.String("symbol", symbol),
				zap.String("stage", st.name))
			return
		}

		results = append(results, model.StageResult{Name: st.name, Err: err.Error()})

		s.logger.Error("Refresh stage failed",
			zap.String("symbol", symbol),
			zap.String("stage", st.name),
			zap.Error(err))

		if st.abortOnError {
			aborted = true
			break
		}
	}

	committed := s.store.Commit(gen, func(st *State) {
		st.Stages = results
		st.Loading = false
		if aborted {
			st.Notification = refreshFailedNotification
		} else {
			st.Notification = ""
		}
	})
	if !committed {
		return
	}

	s.publishRefreshEvent(ctx, symbol, results, time.Since(start))
}

// errStaleGeneration marks a pipeline run that lost its generation to a
// newer refresh.
var errStaleGeneration = errors.New("refresh superseded by a newer symbol selection")

// CalculateDecision submits the current thresholds, sentiment scores and
// closing prices to the trade-decision endpoint and stores the returned
// labels verbatim. The arrays are sent in their original order; emptiness
// and length correspondence are deliberately not validated client-side.
func (s *DashboardService) CalculateDecision(ctx context.Context) {
	gen := s.store.Generation()
	snapshot := s.store.Snapshot()

	scores := make([]float64, 0, len(snapshot.SentimentPoints))
	for _, point := range snapshot.SentimentPoints {
		scores = append(scores, point.Score)
	}

	closes := make([]float64, 0, len(snapshot.StockPrices))
	for _, point := range snapshot.StockPrices {
		closes = append(closes, point.Close)
	}

	if !s.store.Commit(gen, func(st *State) { st.DecisionLoading = true }) {
		return
	}

	decision, err := s.client.TradeDecision(ctx, snapshot.Thresholds, scores, closes)
	if err != nil {
		// The previously displayed labels stay visible; only the
		// notification signals the failure.
		s.store.Commit(gen, func(st *State) {
			st.DecisionLoading = false
			st.Notification = decisionFailedNotification
		})
		return
	}

	committed := s.store.Commit(gen, func(st *State) {
		st.Decision = *decision
		st.DecisionLoading = false
		st.Notification = "Trade Decision: " + strings.ToUpper(decision.Action)
	})
	if !committed {
		return
	}

	s.publishDecisionEvent(ctx, snapshot.Symbol, decision)
}

// AdjustThreshold shifts one threshold field by delta. The lower <= upper
// convention is not enforced; a crossed pair is kept and forwarded as-is.
func (s *DashboardService) AdjustThreshold(field string, delta int) error {
	return s.applyThreshold(field, func(value int) int { return value + delta })
}

// SetThreshold assigns an absolute value to one threshold field.
func (s *DashboardService) SetThreshold(field string, value int) error {
	return s.applyThreshold(field, func(int) int { return value })
}

func (s *DashboardService) applyThreshold(field string, apply func(int) int) error {
	switch field {
	case ThresholdFieldLower:
		s.store.Update(func(st *State) { st.Thresholds.Lower = apply(st.Thresholds.Lower) })
	case ThresholdFieldUpper:
		s.store.Update(func(st *State) { st.Thresholds.Upper = apply(st.Thresholds.Upper) })
	default:
		return errors.New("unknown threshold field: " + field)
	}
	return nil
}

// SetPage selects the current page of one of the two paginated tables.
// Out-of-range requests clamp to the nearest valid page.
func (s *DashboardService) SetPage(table string, page int) error {
	switch table {
	case TableStocks:
		s.store.Update(func(st *State) {
			st.StockPage = utils.ClampPage(page, utils.PageCount(len(st.StockPrices), s.cfg.StocksPerPage))
		})
	case TablePosts:
		s.store.Update(func(st *State) {
			st.PostPage = utils.ClampPage(page, utils.PageCount(len(st.Posts), s.cfg.PostsPerPage))
		})
	default:
		return errors.New("unknown table: " + table)
	}
	return nil
}

func (s *DashboardService) publishRefreshEvent(ctx context.Context, symbol string, results []model.StageResult, elapsed time.Duration) {
	if s.producer == nil {
		return
	}

	event := events.RefreshCompleted{
		Symbol:   symbol,
		Stages:   results,
		Duration: elapsed.String(),
	}
	if err := s.producer.Publish(ctx, events.TypeRefreshCompleted, symbol, event); err != nil {
		s.logger.Warn("Failed to publish refresh event", zap.Error(err))
	}
}

func (s *DashboardService) publishDecisionEvent(ctx context.Context, symbol string, decision *model.DecisionResult) {
	if s.producer == nil {
		return
	}

	event := events.DecisionCalculated{
		Symbol: symbol,
		Action: decision.Action,
	}
	if err := s.producer.Publish(ctx, events.TypeDecisionCalculated, symbol, event); err != nil {
		s.logger.Warn("Failed to publish decision event", zap.Error(err))
	}
}
