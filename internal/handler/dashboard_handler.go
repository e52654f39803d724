package handler

import (
	"context"
	"net/http"

	"github.com/yourorg/stock-dashboard/internal/service"
	"github.com/yourorg/stock-dashboard/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetDashboard handles retrieving the dashboard snapshot for a symbol.
// GET /api/v1/dashboard?name=AAPL
//
// The name parameter is read verbatim; an absent name resolves to the
// empty symbol, which is still forwarded to the analytics service. When
// the requested symbol differs from the current one a refresh starts in
// the background and the snapshot is returned immediately with the
// loading flag raised.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	symbol := c.Query("name")

	if h.dashboardService.NeedsRefresh(symbol) {
		h.logger.Info("Symbol selected, starting refresh", zap.String("symbol", symbol))
		// Detached from the request context: the refresh outlives
		// this snapshot request.
		go h.dashboardService.Refresh(context.Background(), symbol)
	}

	c.JSON(http.StatusOK, gin.H{"data": h.dashboardService.View()})
}

// RefreshDashboard handles a synchronous refresh for a symbol.
// POST /api/v1/dashboard/refresh
func (h *DashboardHandler) RefreshDashboard(c *gin.Context) {
	var request struct {
		Name string `json:"name"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.dashboardService.Refresh(c.Request.Context(), request.Name)

	c.JSON(http.StatusOK, gin.H{"data": h.dashboardService.View()})
}

// CalculateDecision handles the explicit decision-calculation trigger.
// POST /api/v1/dashboard/decision
func (h *DashboardHandler) CalculateDecision(c *gin.Context) {
	h.dashboardService.CalculateDecision(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"data": h.dashboardService.View()})
}

// SetThreshold handles assigning an absolute threshold value.
// PUT /api/v1/dashboard/thresholds
func (h *DashboardHandler) SetThreshold(c *gin.Context) {
	var request struct {
		Field string `json:"field" binding:"required,oneof=lower upper"`
		Value *int   `json:"value" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.dashboardService.SetThreshold(request.Field, *request.Value); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": h.dashboardService.View()})
}

// AdjustThreshold handles shifting a threshold by a delta.
// POST /api/v1/dashboard/thresholds/adjust
func (h *DashboardHandler) AdjustThreshold(c *gin.Context) {
	var request struct {
		Field string `json:"field" binding:"required,oneof=lower upper"`
		Delta *int   `json:"delta" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.dashboardService.AdjustThreshold(request.Field, *request.Delta); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": h.dashboardService.View()})
}

// SetPage handles selecting the current page of a paginated table.
// PUT /api/v1/dashboard/pages
func (h *DashboardHandler) SetPage(c *gin.Context) {
	var request struct {
		Table string `json:"table" binding:"required,oneof=stocks posts"`
		Page  *int   `json:"page" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.dashboardService.SetPage(request.Table, *request.Page); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": h.dashboardService.View()})
}
