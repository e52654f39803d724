package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yourorg/stock-dashboard/internal/client"
	"github.com/yourorg/stock-dashboard/internal/config"
	"github.com/yourorg/stock-dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// fakeAnalytics serves minimal valid responses for every endpoint the
// orchestrator touches.
func fakeAnalytics(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/stock_prices", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily_prices":[{"date":"2024-11-18","open":150,"close":151},{"date":"2024-11-19","open":151,"close":152}]}`))
	})
	mux.HandleFunc("/collect_reddit_posts", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[["a post", "some content", 0.5]]`))
	})
	mux.HandleFunc("/daily_sentiment_scores", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily_sentiment_scores":[{"date":"2024-11-19","score":2,"sentiment":"positive"}],"average_sentiment":72}`))
	})
	mux.HandleFunc("/market_sentiment", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prediction":"up","confidence":80,"report":{"accuracy":0.88}}`))
	})
	mux.HandleFunc("/trade_decisions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"action":"buy","model_prediction":"hold"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := fakeAnalytics(t)
	logger := zap.NewNop()

	analyticsClient := client.NewAnalyticsClient(backend.URL, 5*time.Second, logger)
	dashboardService := service.NewDashboardService(analyticsClient, nil, config.DashboardConfig{
		StocksPerPage:   5,
		PostsPerPage:    10,
		MarketStartDate: "2020-01-01",
		MarketEndDate:   "2024-11-20",
	}, logger)

	dashboardHandler := NewDashboardHandler(dashboardService, logger)
	overviewHandler := NewOverviewHandler(config.OverviewConfig{
		PopularSymbols: []string{"AAPL", "GOOGL"},
		TopSymbols:     []string{"NVDA"},
	})

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/overview", overviewHandler.GetOverview)
	dashboard := v1.Group("/dashboard")
	dashboard.GET("", dashboardHandler.GetDashboard)
	dashboard.POST("/refresh", dashboardHandler.RefreshDashboard)
	dashboard.POST("/decision", dashboardHandler.CalculateDecision)
	dashboard.PUT("/thresholds", dashboardHandler.SetThreshold)
	dashboard.POST("/thresholds/adjust", dashboardHandler.AdjustThreshold)
	dashboard.PUT("/pages", dashboardHandler.SetPage)

	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) service.DashboardView {
	t.Helper()

	var response struct {
		Data service.DashboardView `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return response.Data
}

func TestRefreshEndpointReturnsSettledSnapshot(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/v1/dashboard/refresh", `{"name":"AAPL"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	view := decodeView(t, w)
	if view.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", view.Symbol)
	}
	if view.Loading {
		t.Error("loading = true in a settled snapshot")
	}
	if len(view.PriceSeries) != 2 {
		t.Errorf("price series length = %d, want 2", len(view.PriceSeries))
	}
	if view.AverageSentimentBand != "positive" {
		t.Errorf("average sentiment band = %q, want positive for 72", view.AverageSentimentBand)
	}
}

func TestGetDashboardReturnsSnapshotForLoadedSymbol(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodPost, "/api/v1/dashboard/refresh", `{"name":"AAPL"}`)

	w := doRequest(t, router, http.MethodGet, "/api/v1/dashboard?name=AAPL", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	view := decodeView(t, w)
	if view.Symbol != "AAPL" || view.Loading {
		t.Errorf("snapshot = symbol %q loading %v, want loaded AAPL", view.Symbol, view.Loading)
	}
	if view.Thresholds.Lower != -10 || view.Thresholds.Upper != 10 {
		t.Errorf("thresholds = %+v, want defaults", view.Thresholds)
	}
}

func TestDecisionEndpoint(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodPost, "/api/v1/dashboard/refresh", `{"name":"AAPL"}`)

	w := doRequest(t, router, http.MethodPost, "/api/v1/dashboard/decision", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	view := decodeView(t, w)
	if view.Decision.Action != "buy" {
		t.Errorf("decision action = %q, want buy", view.Decision.Action)
	}
	if view.Notification != "Trade Decision: BUY" {
		t.Errorf("notification = %q", view.Notification)
	}
}

func TestSetThresholdEndpoint(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodPost, "/api/v1/dashboard/refresh", `{"name":"AAPL"}`)

	w := doRequest(t, router, http.MethodPut, "/api/v1/dashboard/thresholds", `{"field":"lower","value":-5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if view := decodeView(t, w); view.Thresholds.Lower != -5 {
		t.Errorf("lower threshold = %d, want -5", view.Thresholds.Lower)
	}

	// Zero is a legitimate threshold value.
	w = doRequest(t, router, http.MethodPut, "/api/v1/dashboard/thresholds", `{"field":"upper","value":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for zero value", w.Code)
	}
	if view := decodeView(t, w); view.Thresholds.Upper != 0 {
		t.Errorf("upper threshold = %d, want 0", view.Thresholds.Upper)
	}
}

func TestSetThresholdBindingErrors(t *testing.T) {
	router := newTestRouter(t)

	for _, body := range []string{
		`{}`,
		`{"field":"lower"}`,
		`{"field":"sideways","value":1}`,
		`not json`,
	} {
		w := doRequest(t, router, http.MethodPut, "/api/v1/dashboard/thresholds", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}

func TestAdjustThresholdEndpoint(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodPost, "/api/v1/dashboard/refresh", `{"name":"AAPL"}`)

	doRequest(t, router, http.MethodPost, "/api/v1/dashboard/thresholds/adjust", `{"field":"upper","delta":1}`)
	w := doRequest(t, router, http.MethodPost, "/api/v1/dashboard/thresholds/adjust", `{"field":"upper","delta":1}`)

	if view := decodeView(t, w); view.Thresholds.Upper != 12 {
		t.Errorf("upper threshold = %d, want 12 after two +1 adjustments", view.Thresholds.Upper)
	}
}

func TestSetPageEndpoint(t *testing.T) {
	router := newTestRouter(t)
	doRequest(t, router, http.MethodPost, "/api/v1/dashboard/refresh", `{"name":"AAPL"}`)

	w := doRequest(t, router, http.MethodPut, "/api/v1/dashboard/pages", `{"table":"stocks","page":50}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if view := decodeView(t, w); view.StockPagination.CurrentPage != 1 {
		t.Errorf("current page = %d, want clamped to 1 (single page of data)", view.StockPagination.CurrentPage)
	}

	w = doRequest(t, router, http.MethodPut, "/api/v1/dashboard/pages", `{"table":"orders","page":1}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown table: status = %d, want 400", w.Code)
	}
}

func TestOverviewEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/v1/overview", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var response struct {
		Data struct {
			PopularSymbols []string   `json:"popular_symbols"`
			TopSymbols     []string   `json:"top_symbols"`
			LatestNews     []NewsCard `json:"latest_news"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode overview: %v", err)
	}

	if len(response.Data.PopularSymbols) != 2 || response.Data.PopularSymbols[0] != "AAPL" {
		t.Errorf("popular symbols = %v", response.Data.PopularSymbols)
	}
	if len(response.Data.LatestNews) == 0 {
		t.Error("latest news empty, want curated headlines")
	}
}
