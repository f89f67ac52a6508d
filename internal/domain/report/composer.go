package report

import (
	"sort"

	"github.com/shopspring/decimal"
)

// KPIReport is the revenue analysis statement
type KPIReport struct {
	Period Period
	Scope  Scope
	Months []KPIBucket
	Totals KPIMetrics
}

// ComposeKPI builds the KPI statement from the per-bucket sales sums.
// sales[i] belongs to buckets[i]. Span ratios are re-derived from the summed
// sales, never averaged across buckets.
func ComposeKPI(period Period, scope Scope, buckets []Bucket, sales []SalesAggregate) KPIReport {
	series := make([]KPIBucket, len(buckets))
	var total SalesAggregate
	for i, b := range buckets {
		series[i] = KPIBucket{Bucket: b, KPIMetrics: ComputeKPI(sales[i])}
		total = total.Add(sales[i])
	}
	ApplyKPIVariance(series)

	return KPIReport{
		Period: period,
		Scope:  scope,
		Months: series,
		Totals: ComputeKPI(total),
	}
}

// DREReport is the income statement over a span of months
type DREReport struct {
	Period Period
	Scope  Scope
	Months []DREBucket
	Totals DREMetrics
}

// ComposeDRE builds the income statement from the per-bucket realized activity.
// inputs[i] belongs to buckets[i].
func ComposeDRE(period Period, scope Scope, buckets []Bucket, inputs []DREInput) DREReport {
	series := make([]DREBucket, len(buckets))
	var total DREInput
	for i, b := range buckets {
		series[i] = DREBucket{Bucket: b, DREMetrics: ComputeDRE(inputs[i])}
		total.Sales = total.Sales.Add(inputs[i].Sales)
		total.OtherRevenue = total.OtherRevenue.Add(inputs[i].OtherRevenue)
		total.Expenses = total.Expenses.Add(inputs[i].Expenses)
	}
	ApplyDREVariance(series)

	total.ExpenseByCategory = ConsolidateCategories(inputs)

	return DREReport{
		Period: period,
		Scope:  scope,
		Months: series,
		Totals: ComputeDRE(total),
	}
}

type categoryTotal struct {
	Amount decimal.Decimal
	Count  int64
	Color  string
}

// ConsolidateCategories folds the per-bucket category sums into one list
// sorted by amount descending. A category keeps the color of its last occurrence.
func ConsolidateCategories(inputs []DREInput) []CategoryAmount {
	totals := make(map[string]categoryTotal)
	for _, in := range inputs {
		for _, c := range in.ExpenseByCategory {
			totals[c.Category] = mergeCategory(totals[c.Category], c)
		}
	}

	out := make([]CategoryAmount, 0, len(totals))
	for name, t := range totals {
		out = append(out, CategoryAmount{Category: name, Color: t.Color, Amount: t.Amount, Count: t.Count})
	}
	SortCategories(out)
	return out
}

func mergeCategory(acc categoryTotal, c CategoryAmount) categoryTotal {
	return categoryTotal{
		Amount: acc.Amount.Add(c.Amount),
		Count:  acc.Count + c.Count,
		Color:  c.Color,
	}
}

// SortCategories orders by amount descending, then by name
func SortCategories(cats []CategoryAmount) {
	sort.SliceStable(cats, func(i, j int) bool {
		if cmp := cats[i].Amount.Cmp(cats[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return cats[i].Category < cats[j].Category
	})
}
