package handler

import (
	"context"
	"net/http"
	"strconv"

	reportapp "github.com/gestor/backend/internal/application/report"
	"github.com/gestor/backend/internal/domain/identity"
	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gestor/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ReportService is the application surface used by ReportHandler
type ReportService interface {
	GetRevenueAnalysis(ctx context.Context, caller identity.Caller, filter reportapp.ReportFilter) (*reportapp.RevenueAnalysisResponse, error)
	GetDRE(ctx context.Context, caller identity.Caller, filter reportapp.ReportFilter) (*reportapp.DREResponse, error)
	GetFinancialSummary(ctx context.Context, caller identity.Caller, filter reportapp.ReportFilter) (*reportapp.FinancialSummaryResponse, error)
	GetConsolidatedOverview(ctx context.Context, caller identity.Caller, filter reportapp.ReportFilter) (*reportapp.ConsolidatedOverviewResponse, error)
}

// ReportHandlerConfig bounds the trailing month window
type ReportHandlerConfig struct {
	DefaultMonths int
	MaxMonths     int
}

// ReportHandler handles report-related API endpoints
type ReportHandler struct {
	BaseHandler
	reportService ReportService
	config        ReportHandlerConfig
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService ReportService, cfg ReportHandlerConfig) *ReportHandler {
	if cfg.DefaultMonths <= 0 {
		cfg.DefaultMonths = 3
	}
	if cfg.MaxMonths < cfg.DefaultMonths {
		cfg.MaxMonths = 120
	}
	return &ReportHandler{
		reportService: reportService,
		config:        cfg,
	}
}

// ReportQuery defines the query string shared by every report
type ReportQuery struct {
	TenantID  string `form:"tenant_id" example:"42"`
	StartDate string `form:"start_date" binding:"omitempty,iso_date" example:"2026-01-01"`
	EndDate   string `form:"end_date" binding:"omitempty,iso_date" example:"2026-03-31"`
	Months    *int   `form:"months" binding:"omitempty,min=1" example:"3"`
}

// GetRevenueAnalysis godoc
// @Summary      Get revenue analysis
// @Description  Monthly sales KPIs with month-over-month variance
// @Tags         reports
// @Produce      json
// @Param        tenant_id query string false "Company id, or a marker for all companies"
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD)"
// @Param        months query int false "Trailing months when no dates are given"
// @Success      200 {object} dto.Response{data=reportapp.RevenueAnalysisResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reports/revenue-analysis [get]
func (h *ReportHandler) GetRevenueAnalysis(c *gin.Context) {
	caller, filter, ok := h.bind(c)
	if !ok {
		return
	}

	resp, err := h.reportService.GetRevenueAnalysis(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetDRE godoc
// @Summary      Get income statement
// @Description  Monthly DRE over paid sales and expenses
// @Tags         reports
// @Produce      json
// @Param        tenant_id query string false "Company id, or a marker for all companies"
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD)"
// @Param        months query int false "Trailing months when no dates are given"
// @Success      200 {object} dto.Response{data=reportapp.DREResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reports/dre [get]
func (h *ReportHandler) GetDRE(c *gin.Context) {
	caller, filter, ok := h.bind(c)
	if !ok {
		return
	}

	resp, err := h.reportService.GetDRE(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetFinancialSummary godoc
// @Summary      Get financial summary
// @Description  Paid and pending totals, category breakdown and the trailing sales chart
// @Tags         reports
// @Produce      json
// @Param        tenant_id query string false "Company id"
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=reportapp.FinancialSummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reports/financial-summary [get]
func (h *ReportHandler) GetFinancialSummary(c *gin.Context) {
	caller, filter, ok := h.bind(c)
	if !ok {
		return
	}

	resp, err := h.reportService.GetFinancialSummary(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetConsolidatedOverview godoc
// @Summary      Get consolidated overview
// @Description  Per-company totals across every active company. Chief admin only.
// @Tags         reports
// @Produce      json
// @Param        start_date query string false "Start date (YYYY-MM-DD)"
// @Param        end_date query string false "End date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=reportapp.ConsolidatedOverviewResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /reports/consolidated [get]
func (h *ReportHandler) GetConsolidatedOverview(c *gin.Context) {
	caller, filter, ok := h.bind(c)
	if !ok {
		return
	}

	resp, err := h.reportService.GetConsolidatedOverview(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// bind resolves the caller and query filter, writing the error response itself
func (h *ReportHandler) bind(c *gin.Context) (identity.Caller, reportapp.ReportFilter, bool) {
	caller, ok := h.caller(c)
	if !ok {
		return identity.Caller{}, reportapp.ReportFilter{}, false
	}

	var q ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.HandleValidationError(c, err)
		return identity.Caller{}, reportapp.ReportFilter{}, false
	}

	months := h.config.DefaultMonths
	if q.Months != nil {
		months = *q.Months
	}
	if months > h.config.MaxMonths {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed",
			middleware.GetRequestID(c),
			[]dto.ValidationDetail{{Field: "months", Message: "Must be at most " + strconv.Itoa(h.config.MaxMonths)}},
		))
		return identity.Caller{}, reportapp.ReportFilter{}, false
	}

	return caller, reportapp.ReportFilter{
		TenantID:  q.TenantID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Months:    months,
	}, true
}
