package report

import (
	"context"
	"time"

	"github.com/gestor/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// AggregateFilter selects the records of one scope inside [From, To).
// A zero From or To leaves that side of the range open.
type AggregateFilter struct {
	Scope Scope
	From  time.Time
	To    time.Time
}

// BucketFilter returns the filter for one month bucket
func BucketFilter(scope Scope, b Bucket) AggregateFilter {
	return AggregateFilter{Scope: scope, From: b.Start, To: b.End}
}

// SalesAggregate holds summed sale amounts
type SalesAggregate struct {
	Count              int64
	Gross              decimal.Decimal
	Discount           decimal.Decimal
	Chargeback         decimal.Decimal
	ChargebackReversal decimal.Decimal
}

// Add returns the field-wise sum of a and o
func (a SalesAggregate) Add(o SalesAggregate) SalesAggregate {
	return SalesAggregate{
		Count:              a.Count + o.Count,
		Gross:              a.Gross.Add(o.Gross),
		Discount:           a.Discount.Add(o.Discount),
		Chargeback:         a.Chargeback.Add(o.Chargeback),
		ChargebackReversal: a.ChargebackReversal.Add(o.ChargebackReversal),
	}
}

// AmountCount is a summed amount with the number of records summed
type AmountCount struct {
	Amount decimal.Decimal
	Count  int64
}

// CategoryAmount is the summed amount of one expense category
type CategoryAmount struct {
	Category string
	Color    string
	Amount   decimal.Decimal
	Count    int64
}

// LedgerReader runs the aggregate queries behind every report.
// An empty status list means no status filter.
type LedgerReader interface {
	SumSales(ctx context.Context, f AggregateFilter, statuses ...ledger.SaleStatus) (SalesAggregate, error)
	SumRevenues(ctx context.Context, f AggregateFilter, statuses ...ledger.RevenueStatus) (AmountCount, error)
	SumExpenses(ctx context.Context, f AggregateFilter, statuses ...ledger.ExpenseStatus) (AmountCount, error)

	// ExpensesByCategory returns per-category sums ordered by amount descending.
	ExpensesByCategory(ctx context.Context, f AggregateFilter, statuses ...ledger.ExpenseStatus) ([]CategoryAmount, error)

	// SumSalesByTenant returns sale sums of every active tenant, keyed by tenant id.
	SumSalesByTenant(ctx context.Context, f AggregateFilter, statuses ...ledger.SaleStatus) (map[int64]decimal.Decimal, error)
	SumRevenuesByTenant(ctx context.Context, f AggregateFilter, statuses ...ledger.RevenueStatus) (map[int64]decimal.Decimal, error)
	SumExpensesByTenant(ctx context.Context, f AggregateFilter, statuses ...ledger.ExpenseStatus) (map[int64]decimal.Decimal, error)
}
