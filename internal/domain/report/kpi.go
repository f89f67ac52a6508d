package report

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// percentOf returns part/whole*100 rounded to one place, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(1)
}

// KPIMetrics is the sales funnel view of one bucket or of a whole span
type KPIMetrics struct {
	SaleCount                  int64
	GrossRevenue               decimal.Decimal
	Discounts                  decimal.Decimal
	DiscountPct                decimal.Decimal
	Chargeback                 decimal.Decimal
	ChargebackPct              decimal.Decimal
	ChargebackReversal         decimal.Decimal
	ChargebackReversalPct      decimal.Decimal
	NetRevenueBeforeChargeback decimal.Decimal
	NetOperatingRevenue        decimal.Decimal
	AverageTicket              decimal.Decimal
}

// ComputeKPI derives the KPI metrics from summed sales.
func ComputeKPI(s SalesAggregate) KPIMetrics {
	m := KPIMetrics{
		SaleCount:                  s.Count,
		GrossRevenue:               s.Gross,
		Discounts:                  s.Discount,
		Chargeback:                 s.Chargeback,
		ChargebackReversal:         s.ChargebackReversal,
		NetRevenueBeforeChargeback: s.Gross.Sub(s.Discount),
		NetOperatingRevenue:        s.Gross.Sub(s.Discount).Sub(s.Chargeback).Add(s.ChargebackReversal),
		DiscountPct:                percentOf(s.Discount, s.Gross),
		ChargebackPct:              percentOf(s.Chargeback, s.Gross),
		ChargebackReversalPct:      percentOf(s.ChargebackReversal, s.Gross),
		AverageTicket:              decimal.Zero,
	}
	if s.Count > 0 {
		m.AverageTicket = s.Gross.Div(decimal.NewFromInt(s.Count))
	}
	return m
}

// KPIVariance compares a bucket with the previous one.
// AverageTicket is an absolute difference; every other field is a percentage.
type KPIVariance struct {
	SaleCount           decimal.Decimal
	GrossRevenue        decimal.Decimal
	Discounts           decimal.Decimal
	Chargeback          decimal.Decimal
	NetOperatingRevenue decimal.Decimal
	AverageTicket       decimal.Decimal
}

// KPIBucket is one month of the KPI series
type KPIBucket struct {
	Bucket
	KPIMetrics
	// Variance is nil for the first bucket
	Variance *KPIVariance
}
