package report

import "github.com/shopspring/decimal"

// DREInput is the realized activity of one bucket: paid sales, received
// revenues and paid expenses.
type DREInput struct {
	Sales             SalesAggregate
	OtherRevenue      decimal.Decimal
	Expenses          decimal.Decimal
	ExpenseByCategory []CategoryAmount
}

// DREMetrics is the income statement of one bucket or of a whole span
type DREMetrics struct {
	SalesRevenue       decimal.Decimal
	OtherRevenue       decimal.Decimal
	GrossRevenue       decimal.Decimal
	Discounts          decimal.Decimal
	Chargeback         decimal.Decimal
	ChargebackReversal decimal.Decimal
	Deductions         decimal.Decimal
	NetRevenue         decimal.Decimal
	TotalExpenses      decimal.Decimal
	GrossProfit        decimal.Decimal
	NetProfit          decimal.Decimal
	GrossMarginPct     decimal.Decimal
	NetMarginPct       decimal.Decimal
	ExpenseByCategory  []CategoryAmount
	ExpenseGroups      []ExpenseGroupTotal
}

// ComputeDRE derives the income statement lines.
// Gross profit equals net revenue: variable costs are not modeled.
func ComputeDRE(in DREInput) DREMetrics {
	gross := in.Sales.Gross.Add(in.OtherRevenue)
	deductions := in.Sales.Discount.Add(in.Sales.Chargeback).Sub(in.Sales.ChargebackReversal)
	net := gross.Sub(deductions)
	netProfit := net.Sub(in.Expenses)

	return DREMetrics{
		SalesRevenue:       in.Sales.Gross,
		OtherRevenue:       in.OtherRevenue,
		GrossRevenue:       gross,
		Discounts:          in.Sales.Discount,
		Chargeback:         in.Sales.Chargeback,
		ChargebackReversal: in.Sales.ChargebackReversal,
		Deductions:         deductions,
		NetRevenue:         net,
		TotalExpenses:      in.Expenses,
		GrossProfit:        net,
		NetProfit:          netProfit,
		GrossMarginPct:     percentOf(net, gross),
		NetMarginPct:       percentOf(netProfit, gross),
		ExpenseByCategory:  in.ExpenseByCategory,
		ExpenseGroups:      GroupExpenses(in.ExpenseByCategory),
	}
}

// DREVariance compares a bucket with the previous one, in percent
type DREVariance struct {
	GrossRevenue  decimal.Decimal
	NetRevenue    decimal.Decimal
	TotalExpenses decimal.Decimal
	NetProfit     decimal.Decimal
}

// DREBucket is one month of the DRE series
type DREBucket struct {
	Bucket
	DREMetrics
	// Variance is nil for the first bucket
	Variance *DREVariance
}
