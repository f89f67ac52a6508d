package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDRE(t *testing.T) {
	m := ComputeDRE(DREInput{
		Sales: SalesAggregate{
			Count:              2,
			Gross:              d("800"),
			Discount:           d("40"),
			Chargeback:         d("30"),
			ChargebackReversal: d("10"),
		},
		OtherRevenue: d("200"),
		Expenses:     d("450"),
	})

	assertDecimal(t, "1000", m.GrossRevenue)
	assertDecimal(t, "60", m.Deductions)
	assertDecimal(t, "940", m.NetRevenue)
	assertDecimal(t, "940", m.GrossProfit)
	assertDecimal(t, "490", m.NetProfit)
	assertDecimal(t, "94", m.GrossMarginPct)
	assertDecimal(t, "49", m.NetMarginPct)
}

func TestComputeDRE_SingleExpenseNoRevenue(t *testing.T) {
	m := ComputeDRE(DREInput{
		Expenses: d("100"),
		ExpenseByCategory: []CategoryAmount{
			{Category: "Rent", Color: "#ff0000", Amount: d("100"), Count: 1},
		},
	})

	assertDecimal(t, "100", m.TotalExpenses)
	assertDecimal(t, "-100", m.NetProfit)
	assertDecimal(t, "0", m.GrossMarginPct)
	assertDecimal(t, "0", m.NetMarginPct)
	require.Len(t, m.ExpenseByCategory, 1)
	assert.Equal(t, "Rent", m.ExpenseByCategory[0].Category)
	assert.Equal(t, "#ff0000", m.ExpenseByCategory[0].Color)
	assertDecimal(t, "100", m.ExpenseByCategory[0].Amount)
}

func TestComputeDRE_ExpenseGroupsCoverCategories(t *testing.T) {
	m := ComputeDRE(DREInput{
		Expenses: d("350"),
		ExpenseByCategory: []CategoryAmount{
			{Category: "Aluguel", Amount: d("200")},
			{Category: "Salários", Amount: d("150")},
		},
	})

	require.Len(t, m.ExpenseGroups, len(ExpenseGroups))
	assert.Equal(t, GroupDirectCosts, m.ExpenseGroups[0].Group)
	assertDecimal(t, "150", m.ExpenseGroups[0].Amount)
	assert.Equal(t, GroupIndirectExpenses, m.ExpenseGroups[1].Group)
	assertDecimal(t, "200", m.ExpenseGroups[1].Amount)
}
