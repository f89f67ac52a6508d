package report

import (
	"github.com/gestor/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// balance is received revenues plus paid sales minus paid expenses
func balance(revenues, sales, expenses decimal.Decimal) decimal.Decimal {
	return revenues.Add(sales).Sub(expenses)
}

// MonthlyTotal is a single summed amount for one bucket
type MonthlyTotal struct {
	Bucket
	Total decimal.Decimal
}

// FinancialSummary is the settlement overview of one tenant.
// Period is nil when the summary covers all time.
type FinancialSummary struct {
	Tenant              ledger.Tenant
	Period              *Period
	ExpensesPaid        decimal.Decimal
	ExpensesPending     decimal.Decimal
	PendingExpenseCount int64
	SalesPaid           decimal.Decimal
	SalesPending        decimal.Decimal
	RevenuesReceived    decimal.Decimal
	RevenuesPending     decimal.Decimal
	ExpensesByCategory  []CategoryAmount
	SalesByMonth        []MonthlyTotal
}

// Balance returns the realized result of the summary
func (s FinancialSummary) Balance() decimal.Decimal {
	return balance(s.RevenuesReceived, s.SalesPaid, s.ExpensesPaid)
}

// TenantOverview is one row of the consolidated overview
type TenantOverview struct {
	TenantID  int64
	Name      string
	UserCount int64
	Expenses  decimal.Decimal
	Sales     decimal.Decimal
	Revenues  decimal.Decimal
}

// Balance returns the realized result of the tenant
func (t TenantOverview) Balance() decimal.Decimal {
	return balance(t.Revenues, t.Sales, t.Expenses)
}

// ConsolidatedOverview lists every active tenant with grand totals
type ConsolidatedOverview struct {
	Period      *Period
	Tenants     []TenantOverview
	TenantCount int
	UserCount   int64
	Expenses    decimal.Decimal
	Sales       decimal.Decimal
	Revenues    decimal.Decimal
}

// Balance returns the realized result across all tenants
func (o ConsolidatedOverview) Balance() decimal.Decimal {
	return balance(o.Revenues, o.Sales, o.Expenses)
}

// OverviewInput carries the per-tenant sums keyed by tenant id
type OverviewInput struct {
	Users    map[int64]int64
	Sales    map[int64]decimal.Decimal
	Revenues map[int64]decimal.Decimal
	Expenses map[int64]decimal.Decimal
}

// ComposeOverview builds one row per tenant, in the given order, plus totals.
// Tenants missing from a map contribute zero.
func ComposeOverview(period *Period, tenants []ledger.Tenant, in OverviewInput) ConsolidatedOverview {
	o := ConsolidatedOverview{
		Period:      period,
		Tenants:     make([]TenantOverview, 0, len(tenants)),
		TenantCount: len(tenants),
	}
	for _, t := range tenants {
		row := TenantOverview{
			TenantID:  t.ID,
			Name:      t.Name,
			UserCount: in.Users[t.ID],
			Expenses:  in.Expenses[t.ID],
			Sales:     in.Sales[t.ID],
			Revenues:  in.Revenues[t.ID],
		}
		o.Tenants = append(o.Tenants, row)
		o.UserCount += row.UserCount
		o.Expenses = o.Expenses.Add(row.Expenses)
		o.Sales = o.Sales.Add(row.Sales)
		o.Revenues = o.Revenues.Add(row.Revenues)
	}
	return o
}
