package report

import "github.com/shopspring/decimal"

// PercentVariance returns the change from prev to curr in percent, rounded to
// one place. Growth from zero is reported as 100 rather than infinity.
func PercentVariance(prev, curr decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		if curr.IsZero() {
			return decimal.Zero
		}
		return hundred
	}
	return curr.Sub(prev).Mul(hundred).Div(prev).Round(1)
}

// AbsoluteVariance returns curr - prev
func AbsoluteVariance(prev, curr decimal.Decimal) decimal.Decimal {
	return curr.Sub(prev)
}

// ApplyKPIVariance annotates every bucket after the first with its change
// against the previous bucket.
func ApplyKPIVariance(series []KPIBucket) {
	for i := 1; i < len(series); i++ {
		prev, curr := series[i-1].KPIMetrics, series[i].KPIMetrics
		series[i].Variance = &KPIVariance{
			SaleCount:           PercentVariance(decimal.NewFromInt(prev.SaleCount), decimal.NewFromInt(curr.SaleCount)),
			GrossRevenue:        PercentVariance(prev.GrossRevenue, curr.GrossRevenue),
			Discounts:           PercentVariance(prev.Discounts, curr.Discounts),
			Chargeback:          PercentVariance(prev.Chargeback, curr.Chargeback),
			NetOperatingRevenue: PercentVariance(prev.NetOperatingRevenue, curr.NetOperatingRevenue),
			AverageTicket:       AbsoluteVariance(prev.AverageTicket, curr.AverageTicket),
		}
	}
}

// ApplyDREVariance annotates every bucket after the first with its change
// against the previous bucket.
func ApplyDREVariance(series []DREBucket) {
	for i := 1; i < len(series); i++ {
		prev, curr := series[i-1].DREMetrics, series[i].DREMetrics
		series[i].Variance = &DREVariance{
			GrossRevenue:  PercentVariance(prev.GrossRevenue, curr.GrossRevenue),
			NetRevenue:    PercentVariance(prev.NetRevenue, curr.NetRevenue),
			TotalExpenses: PercentVariance(prev.TotalExpenses, curr.TotalExpenses),
			NetProfit:     PercentVariance(prev.NetProfit, curr.NetProfit),
		}
	}
}
