package report

import (
	"time"

	"github.com/gestor/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// ReportFilter is the request filter shared by every report
type ReportFilter struct {
	// TenantID is the raw tenant selector; empty or a non-numeric marker means all tenants
	TenantID  string
	StartDate string
	EndDate   string
	Months    int
}

// PeriodResponse represents the bounds of a report
type PeriodResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// RevenueAnalysisMonth represents one month of the revenue analysis
type RevenueAnalysisMonth struct {
	MonthLabel string `json:"month_label"`
	MonthKey   string `json:"month_key"`
	RevenueAnalysisTotals
	VarianceSaleCount           *float64 `json:"variance_sale_count,omitempty"`
	VarianceGrossRevenue        *float64 `json:"variance_gross_revenue,omitempty"`
	VarianceDiscounts           *float64 `json:"variance_discounts,omitempty"`
	VarianceChargeback          *float64 `json:"variance_chargeback,omitempty"`
	VarianceNetOperatingRevenue *float64 `json:"variance_net_operating_revenue,omitempty"`
	VarianceAverageTicket       *float64 `json:"variance_average_ticket,omitempty"`
}

// RevenueAnalysisTotals represents the KPI figures of a month or of the whole span
type RevenueAnalysisTotals struct {
	SaleCount                  int64   `json:"sale_count"`
	GrossRevenue               float64 `json:"gross_revenue"`
	Discounts                  float64 `json:"discounts"`
	DiscountPct                float64 `json:"discount_pct"`
	Chargeback                 float64 `json:"chargeback"`
	ChargebackPct              float64 `json:"chargeback_pct"`
	ChargebackReversal         float64 `json:"chargeback_reversal"`
	ChargebackReversalPct      float64 `json:"chargeback_reversal_pct"`
	NetRevenueBeforeChargeback float64 `json:"net_revenue_before_chargeback"`
	NetOperatingRevenue        float64 `json:"net_operating_revenue"`
	AverageTicket              float64 `json:"average_ticket"`
}

// RevenueAnalysisResponse represents the KPI revenue analysis report
type RevenueAnalysisResponse struct {
	Period       PeriodResponse         `json:"period"`
	Consolidated bool                   `json:"consolidated"`
	TenantID     *int64                 `json:"tenant_id,omitempty"`
	Months       []RevenueAnalysisMonth `json:"months"`
	Totals       RevenueAnalysisTotals  `json:"totals"`
}

// CategoryAmountResponse represents the expense sum of one category
type CategoryAmountResponse struct {
	Category string  `json:"category"`
	Color    string  `json:"color"`
	Amount   float64 `json:"amount"`
	Count    int64   `json:"count"`
}

// ExpenseGroupResponse represents a DRE expense group line
type ExpenseGroupResponse struct {
	Group      string                   `json:"group"`
	Amount     float64                  `json:"amount"`
	Categories []CategoryAmountResponse `json:"categories"`
}

// DRETotals represents the income statement lines of a month or of the whole span
type DRETotals struct {
	SalesRevenue       float64                  `json:"sales_revenue"`
	OtherRevenue       float64                  `json:"other_revenue"`
	GrossRevenue       float64                  `json:"gross_revenue"`
	Discounts          float64                  `json:"discounts"`
	Chargeback         float64                  `json:"chargeback"`
	ChargebackReversal float64                  `json:"chargeback_reversal"`
	Deductions         float64                  `json:"deductions"`
	NetRevenue         float64                  `json:"net_revenue"`
	ExpenseByCategory  []CategoryAmountResponse `json:"expense_by_category"`
	ExpenseGroups      []ExpenseGroupResponse   `json:"expense_groups"`
	TotalExpenses      float64                  `json:"total_expenses"`
	GrossProfit        float64                  `json:"gross_profit"`
	NetProfit          float64                  `json:"net_profit"`
	GrossMarginPct     float64                  `json:"gross_margin_pct"`
	NetMarginPct       float64                  `json:"net_margin_pct"`
}

// DREMonth represents one month of the DRE
type DREMonth struct {
	MonthLabel string `json:"month_label"`
	MonthKey   string `json:"month_key"`
	DRETotals
	VarianceGrossRevenue  *float64 `json:"variance_gross_revenue,omitempty"`
	VarianceNetRevenue    *float64 `json:"variance_net_revenue,omitempty"`
	VarianceTotalExpenses *float64 `json:"variance_total_expenses,omitempty"`
	VarianceNetProfit     *float64 `json:"variance_net_profit,omitempty"`
}

// DREResponse represents the DRE income statement
type DREResponse struct {
	Period       PeriodResponse `json:"period"`
	Consolidated bool           `json:"consolidated"`
	TenantID     *int64         `json:"tenant_id,omitempty"`
	Months       []DREMonth     `json:"months"`
	Totals       DRETotals      `json:"totals"`
}

// TenantRef identifies a tenant in responses
type TenantRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MonthlyTotalResponse represents a single amount of one month
type MonthlyTotalResponse struct {
	MonthLabel string  `json:"month_label"`
	MonthKey   string  `json:"month_key"`
	Total      float64 `json:"total"`
}

// FinancialSummaryResponse represents the settlement overview of one tenant
type FinancialSummaryResponse struct {
	Tenant              TenantRef                `json:"tenant"`
	Period              *PeriodResponse          `json:"period,omitempty"`
	ExpensesPaid        float64                  `json:"expenses_paid"`
	ExpensesPending     float64                  `json:"expenses_pending"`
	PendingExpenseCount int64                    `json:"pending_expense_count"`
	SalesPaid           float64                  `json:"sales_paid"`
	SalesPending        float64                  `json:"sales_pending"`
	RevenuesReceived    float64                  `json:"revenues_received"`
	RevenuesPending     float64                  `json:"revenues_pending"`
	Balance             float64                  `json:"balance"`
	ExpensesByCategory  []CategoryAmountResponse `json:"expenses_by_category"`
	SalesByMonth        []MonthlyTotalResponse   `json:"sales_by_month"`
}

// TenantOverviewResponse represents one tenant row of the consolidated overview
type TenantOverviewResponse struct {
	TenantID  int64   `json:"tenant_id"`
	Name      string  `json:"name"`
	UserCount int64   `json:"user_count"`
	Expenses  float64 `json:"expenses"`
	Sales     float64 `json:"sales"`
	Revenues  float64 `json:"revenues"`
	Balance   float64 `json:"balance"`
}

// OverviewTotalsResponse represents the grand totals of the consolidated overview
type OverviewTotalsResponse struct {
	TenantCount int     `json:"tenant_count"`
	UserCount   int64   `json:"user_count"`
	Expenses    float64 `json:"expenses"`
	Sales       float64 `json:"sales"`
	Revenues    float64 `json:"revenues"`
	Balance     float64 `json:"balance"`
}

// ConsolidatedOverviewResponse represents the per-tenant overview for chief admins
type ConsolidatedOverviewResponse struct {
	Period  *PeriodResponse          `json:"period,omitempty"`
	Tenants []TenantOverviewResponse `json:"tenants"`
	Totals  OverviewTotalsResponse   `json:"totals"`
}

// ===================== conversions =====================

const dateLayout = "2006-01-02"

func toFloat64(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// money converts an amount for display, rounded to cents
func money(d decimal.Decimal) float64 {
	return toFloat64(d.Round(2))
}

func floatPtr(f float64) *float64 {
	return &f
}

func toPeriodResponse(p report.Period) PeriodResponse {
	return PeriodResponse{StartDate: p.Start.Format(dateLayout), EndDate: p.End.Format(dateLayout)}
}

func toOptionalPeriod(p *report.Period) *PeriodResponse {
	if p == nil {
		return nil
	}
	resp := toPeriodResponse(*p)
	return &resp
}

func toKPITotals(m report.KPIMetrics) RevenueAnalysisTotals {
	return RevenueAnalysisTotals{
		SaleCount:                  m.SaleCount,
		GrossRevenue:               money(m.GrossRevenue),
		Discounts:                  money(m.Discounts),
		DiscountPct:                toFloat64(m.DiscountPct),
		Chargeback:                 money(m.Chargeback),
		ChargebackPct:              toFloat64(m.ChargebackPct),
		ChargebackReversal:         money(m.ChargebackReversal),
		ChargebackReversalPct:      toFloat64(m.ChargebackReversalPct),
		NetRevenueBeforeChargeback: money(m.NetRevenueBeforeChargeback),
		NetOperatingRevenue:        money(m.NetOperatingRevenue),
		AverageTicket:              money(m.AverageTicket),
	}
}

func toRevenueAnalysisResponse(rep report.KPIReport) *RevenueAnalysisResponse {
	months := make([]RevenueAnalysisMonth, 0, len(rep.Months))
	for _, b := range rep.Months {
		m := RevenueAnalysisMonth{
			MonthLabel:            b.Label(),
			MonthKey:              b.Key(),
			RevenueAnalysisTotals: toKPITotals(b.KPIMetrics),
		}
		if v := b.Variance; v != nil {
			m.VarianceSaleCount = floatPtr(toFloat64(v.SaleCount))
			m.VarianceGrossRevenue = floatPtr(toFloat64(v.GrossRevenue))
			m.VarianceDiscounts = floatPtr(toFloat64(v.Discounts))
			m.VarianceChargeback = floatPtr(toFloat64(v.Chargeback))
			m.VarianceNetOperatingRevenue = floatPtr(toFloat64(v.NetOperatingRevenue))
			m.VarianceAverageTicket = floatPtr(money(v.AverageTicket))
		}
		months = append(months, m)
	}

	return &RevenueAnalysisResponse{
		Period:       toPeriodResponse(rep.Period),
		Consolidated: rep.Scope.Consolidated,
		TenantID:     rep.Scope.TenantID,
		Months:       months,
		Totals:       toKPITotals(rep.Totals),
	}
}

func toCategoryResponses(cats []report.CategoryAmount) []CategoryAmountResponse {
	out := make([]CategoryAmountResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryAmountResponse{
			Category: c.Category,
			Color:    c.Color,
			Amount:   money(c.Amount),
			Count:    c.Count,
		})
	}
	return out
}

func toDRETotals(m report.DREMetrics) DRETotals {
	groups := make([]ExpenseGroupResponse, 0, len(m.ExpenseGroups))
	for _, g := range m.ExpenseGroups {
		groups = append(groups, ExpenseGroupResponse{
			Group:      string(g.Group),
			Amount:     money(g.Amount),
			Categories: toCategoryResponses(g.Categories),
		})
	}

	return DRETotals{
		SalesRevenue:       money(m.SalesRevenue),
		OtherRevenue:       money(m.OtherRevenue),
		GrossRevenue:       money(m.GrossRevenue),
		Discounts:          money(m.Discounts),
		Chargeback:         money(m.Chargeback),
		ChargebackReversal: money(m.ChargebackReversal),
		Deductions:         money(m.Deductions),
		NetRevenue:         money(m.NetRevenue),
		ExpenseByCategory:  toCategoryResponses(m.ExpenseByCategory),
		ExpenseGroups:      groups,
		TotalExpenses:      money(m.TotalExpenses),
		GrossProfit:        money(m.GrossProfit),
		NetProfit:          money(m.NetProfit),
		GrossMarginPct:     toFloat64(m.GrossMarginPct),
		NetMarginPct:       toFloat64(m.NetMarginPct),
	}
}

func toDREResponse(rep report.DREReport) *DREResponse {
	months := make([]DREMonth, 0, len(rep.Months))
	for _, b := range rep.Months {
		m := DREMonth{
			MonthLabel: b.Label(),
			MonthKey:   b.Key(),
			DRETotals:  toDRETotals(b.DREMetrics),
		}
		if v := b.Variance; v != nil {
			m.VarianceGrossRevenue = floatPtr(toFloat64(v.GrossRevenue))
			m.VarianceNetRevenue = floatPtr(toFloat64(v.NetRevenue))
			m.VarianceTotalExpenses = floatPtr(toFloat64(v.TotalExpenses))
			m.VarianceNetProfit = floatPtr(toFloat64(v.NetProfit))
		}
		months = append(months, m)
	}

	return &DREResponse{
		Period:       toPeriodResponse(rep.Period),
		Consolidated: rep.Scope.Consolidated,
		TenantID:     rep.Scope.TenantID,
		Months:       months,
		Totals:       toDRETotals(rep.Totals),
	}
}

func toFinancialSummaryResponse(s report.FinancialSummary) *FinancialSummaryResponse {
	byMonth := make([]MonthlyTotalResponse, 0, len(s.SalesByMonth))
	for _, m := range s.SalesByMonth {
		byMonth = append(byMonth, MonthlyTotalResponse{
			MonthLabel: m.Label(),
			MonthKey:   m.Key(),
			Total:      money(m.Total),
		})
	}

	return &FinancialSummaryResponse{
		Tenant:              TenantRef{ID: s.Tenant.ID, Name: s.Tenant.Name},
		Period:              toOptionalPeriod(s.Period),
		ExpensesPaid:        money(s.ExpensesPaid),
		ExpensesPending:     money(s.ExpensesPending),
		PendingExpenseCount: s.PendingExpenseCount,
		SalesPaid:           money(s.SalesPaid),
		SalesPending:        money(s.SalesPending),
		RevenuesReceived:    money(s.RevenuesReceived),
		RevenuesPending:     money(s.RevenuesPending),
		Balance:             money(s.Balance()),
		ExpensesByCategory:  toCategoryResponses(s.ExpensesByCategory),
		SalesByMonth:        byMonth,
	}
}

func toConsolidatedOverviewResponse(o report.ConsolidatedOverview) *ConsolidatedOverviewResponse {
	rows := make([]TenantOverviewResponse, 0, len(o.Tenants))
	for _, t := range o.Tenants {
		rows = append(rows, TenantOverviewResponse{
			TenantID:  t.TenantID,
			Name:      t.Name,
			UserCount: t.UserCount,
			Expenses:  money(t.Expenses),
			Sales:     money(t.Sales),
			Revenues:  money(t.Revenues),
			Balance:   money(t.Balance()),
		})
	}

	return &ConsolidatedOverviewResponse{
		Period:  toOptionalPeriod(o.Period),
		Tenants: rows,
		Totals: OverviewTotalsResponse{
			TenantCount: o.TenantCount,
			UserCount:   o.UserCount,
			Expenses:    money(o.Expenses),
			Sales:       money(o.Sales),
			Revenues:    money(o.Revenues),
			Balance:     money(o.Balance()),
		},
	}
}

// parseDate parses an optional YYYY-MM-DD value in loc
func parseDate(raw string, loc *time.Location) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
