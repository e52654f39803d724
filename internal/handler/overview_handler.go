package handler

import (
	"net/http"

	"github.com/yourorg/stock-dashboard/internal/config"

	"github.com/gin-gonic/gin"
)

// NewsCard is one curated headline shown on the landing page.
type NewsCard struct {
	ID       int    `json:"id"`
	Headline string `json:"headline"`
	Datetime string `json:"datetime"`
	Summary  string `json:"summary"`
}

// Curated landing-page headlines. Static content, like the rest of the
// overview; the live feed lives in the analytics service.
var latestNews = []NewsCard{
	{
		ID:       1,
		Headline: "Tesla Announces New EV Model",
		Datetime: "2024-11-19",
		Summary:  "Tesla unveils its latest electric vehicle, promising unprecedented range and performance.",
	},
	{
		ID:       2,
		Headline: "Apple's Q4 Earnings Exceed Expectations",
		Datetime: "2024-11-18",
		Summary:  "Apple reports strong Q4 earnings, surpassing analyst predictions with record-breaking iPhone sales.",
	},
	{
		ID:       3,
		Headline: "Amazon Expands into Healthcare Sector",
		Datetime: "2024-11-17",
		Summary:  "Amazon makes a bold move into healthcare with the acquisition of a major pharmacy chain.",
	},
	{
		ID:       4,
		Headline: "Microsoft Launches New AI Tool",
		Datetime: "2024-11-16",
		Summary:  "Microsoft introduces a new AI tool designed to improve productivity and streamline workflows.",
	},
}

// OverviewHandler serves the curated landing-page content
type OverviewHandler struct {
	cfg config.OverviewConfig
}

// NewOverviewHandler creates a new overview handler
func NewOverviewHandler(cfg config.OverviewConfig) *OverviewHandler {
	return &OverviewHandler{cfg: cfg}
}

// GetOverview handles retrieving the landing-page overview.
// GET /api/v1/overview
func (h *OverviewHandler) GetOverview(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"popular_symbols": h.cfg.PopularSymbols,
			"top_symbols":     h.cfg.TopSymbols,
			"latest_news":     latestNews,
		},
	})
}
