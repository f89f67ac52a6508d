package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentVariance(t *testing.T) {
	tests := []struct {
		name       string
		prev, curr string
		want       string
	}{
		{name: "growth", prev: "1000", curr: "1500", want: "50"},
		{name: "drop to zero", prev: "1500", curr: "0", want: "-100"},
		{name: "zero to zero", prev: "0", curr: "0", want: "0"},
		{name: "zero to positive", prev: "0", curr: "42", want: "100"},
		{name: "zero to negative", prev: "0", curr: "-42", want: "100"},
		{name: "rounded to one place", prev: "3", curr: "4", want: "33.3"},
		{name: "half away from zero", prev: "40", curr: "40.02", want: "0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, PercentVariance(d(tt.prev), d(tt.curr)))
		})
	}
}

func TestApplyKPIVariance(t *testing.T) {
	series := []KPIBucket{
		{KPIMetrics: ComputeKPI(SalesAggregate{Count: 10, Gross: d("1000")})},
		{KPIMetrics: ComputeKPI(SalesAggregate{Count: 5, Gross: d("1500")})},
		{KPIMetrics: ComputeKPI(SalesAggregate{})},
	}

	ApplyKPIVariance(series)

	assert.Nil(t, series[0].Variance)
	require.NotNil(t, series[1].Variance)
	require.NotNil(t, series[2].Variance)

	assertDecimal(t, "50", series[1].Variance.GrossRevenue)
	assertDecimal(t, "-50", series[1].Variance.SaleCount)
	assertDecimal(t, "-100", series[2].Variance.GrossRevenue)

	// average ticket moves 100 -> 300 -> 0 as a monetary delta
	assertDecimal(t, "200", series[1].Variance.AverageTicket)
	assertDecimal(t, "-300", series[2].Variance.AverageTicket)
}

func TestApplyKPIVariance_SingleBucket(t *testing.T) {
	series := []KPIBucket{{KPIMetrics: ComputeKPI(SalesAggregate{Count: 1, Gross: d("10")})}}

	ApplyKPIVariance(series)

	assert.Nil(t, series[0].Variance)
}

func TestApplyDREVariance(t *testing.T) {
	series := []DREBucket{
		{DREMetrics: ComputeDRE(DREInput{Sales: SalesAggregate{Gross: d("1000")}, Expenses: d("200")})},
		{DREMetrics: ComputeDRE(DREInput{Sales: SalesAggregate{Gross: d("1500")}, Expenses: d("200")})},
		{DREMetrics: ComputeDRE(DREInput{Expenses: d("0")})},
	}

	ApplyDREVariance(series)

	assert.Nil(t, series[0].Variance)
	assertDecimal(t, "50", series[1].Variance.GrossRevenue)
	assertDecimal(t, "0", series[1].Variance.TotalExpenses)
	assertDecimal(t, "62.5", series[1].Variance.NetProfit)
	assertDecimal(t, "-100", series[2].Variance.GrossRevenue)
	assertDecimal(t, "-100", series[2].Variance.TotalExpenses)
}
