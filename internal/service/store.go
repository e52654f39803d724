package service

import (
	"sync"

	"github.com/yourorg/stock-dashboard/internal/model"
)

// decisionPlaceholder is the label shown before the first decision
// calculation and after every symbol change.
const decisionPlaceholder = "Click on Calculate Decisions."

// State is the single explicit view-model for the dashboard. All async
// updates flow through the owning Store so that ordering is testable.
type State struct {
	Symbol           string
	Loading          bool
	DecisionLoading  bool
	Notification     string
	StockPrices      []model.StockPricePoint
	Posts            []model.RedditPost
	SentimentPoints  []model.SentimentPoint
	AverageSentiment float64
	Market           *model.MarketSentiment
	Thresholds       model.Thresholds
	Decision         model.DecisionResult
	StockPage        int
	PostPage         int
	Stages           []model.StageResult
}

// Store guards the dashboard state and attaches a generation counter to
// every refresh. Responses arriving for a stale generation are discarded,
// so a rapid symbol change can never be overwritten by an older in-flight
// fetch (last write wins by generation, not by arrival time).
type Store struct {
	mu         sync.RWMutex
	state      State
	generation uint64
}

// NewStore creates a store with empty collections and default thresholds.
func NewStore() *Store {
	return &Store{
		state: State{
			Thresholds: model.DefaultThresholds(),
			Decision: model.DecisionResult{
				Action:          decisionPlaceholder,
				ModelPrediction: decisionPlaceholder,
			},
			StockPage: 1,
			PostPage:  1,
		},
	}
}

// BeginRefresh resets the state for a new symbol and returns the new
// generation. Collections are emptied, thresholds and pages return to
// their defaults, and the loading flag is raised.
func (s *Store) BeginRefresh(symbol string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.state = State{
		Symbol:     symbol,
		Loading:    true,
		Thresholds: model.DefaultThresholds(),
		Decision: model.DecisionResult{
			Action:          decisionPlaceholder,
			ModelPrediction: decisionPlaceholder,
		},
		StockPage: 1,
		PostPage:  1,
	}

	return s.generation
}

// Commit applies fn to the state if gen is still the current generation.
// It reports whether the update was applied.
func (s *Store) Commit(gen uint64, fn func(*State)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}

	fn(&s.state)
	return true
}

// Update applies fn to the state unconditionally, for interactions that
// are not tied to a refresh generation (thresholds, page selection).
func (s *Store) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
}

// Generation returns the current refresh generation.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.generation
}

// Snapshot returns a deep copy of the current state, safe to read while
// a refresh is in flight.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state
	snapshot.StockPrices = append([]model.StockPricePoint(nil), s.state.StockPrices...)
	snapshot.Posts = append([]model.RedditPost(nil), s.state.Posts...)
	snapshot.SentimentPoints = append([]model.SentimentPoint(nil), s.state.SentimentPoints...)
	snapshot.Stages = append([]model.StageResult(nil), s.state.Stages...)
	if s.state.Market != nil {
		market := *s.state.Market
		snapshot.Market = &market
	}

	return snapshot
}
