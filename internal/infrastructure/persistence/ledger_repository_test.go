package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gestor/backend/internal/domain/ledger"
	"github.com/gestor/backend/internal/domain/report"
	"github.com/gestor/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func january(scope report.Scope) report.AggregateFilter {
	return report.AggregateFilter{Scope: scope, From: date(2026, 1, 1), To: date(2026, 2, 1)}
}

func TestGormLedgerRepository_SumSales(t *testing.T) {
	db := setupTestDB(t)
	fx := seedLedger(t, db)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()

	t.Run("all statuses within the bucket", func(t *testing.T) {
		agg, err := repo.SumSales(ctx, january(report.SingleTenant(fx.alpha)))
		require.NoError(t, err)

		assert.Equal(t, int64(2), agg.Count)
		assert.Equal(t, "1500.50", agg.Gross.StringFixed(2))
		assert.Equal(t, "50.25", agg.Discount.StringFixed(2))
		assert.Equal(t, "20.00", agg.Chargeback.StringFixed(2))
		assert.Equal(t, "5.00", agg.ChargebackReversal.StringFixed(2))
	})

	t.Run("paid only", func(t *testing.T) {
		agg, err := repo.SumSales(ctx, january(report.SingleTenant(fx.alpha)), ledger.SaleStatusPaid)
		require.NoError(t, err)

		assert.Equal(t, int64(1), agg.Count)
		assert.Equal(t, "1000.50", agg.Gross.StringFixed(2))
	})

	t.Run("first day of next month belongs to the next bucket", func(t *testing.T) {
		feb := report.AggregateFilter{Scope: report.SingleTenant(fx.alpha), From: date(2026, 2, 1), To: date(2026, 3, 1)}
		agg, err := repo.SumSales(ctx, feb)
		require.NoError(t, err)

		assert.Equal(t, int64(1), agg.Count)
		assert.Equal(t, "300.00", agg.Gross.StringFixed(2))
	})

	t.Run("consolidated scope skips inactive tenants", func(t *testing.T) {
		agg, err := repo.SumSales(ctx, january(report.AllActiveTenants()), ledger.SaleStatusPaid)
		require.NoError(t, err)

		assert.Equal(t, int64(2), agg.Count)
		assert.Equal(t, "1200.50", agg.Gross.StringFixed(2))
	})

	t.Run("empty bucket sums to zero", func(t *testing.T) {
		agg, err := repo.SumSales(ctx, report.AggregateFilter{
			Scope: report.SingleTenant(fx.beta),
			From:  date(2025, 6, 1),
			To:    date(2025, 7, 1),
		})
		require.NoError(t, err)

		assert.Equal(t, int64(0), agg.Count)
		assert.True(t, agg.Gross.IsZero())
	})

	t.Run("open range covers all dates", func(t *testing.T) {
		agg, err := repo.SumSales(ctx, report.AggregateFilter{Scope: report.SingleTenant(fx.alpha)})
		require.NoError(t, err)

		assert.Equal(t, int64(3), agg.Count)
		assert.Equal(t, "1800.50", agg.Gross.StringFixed(2))
	})

	t.Run("unscoped filter is rejected", func(t *testing.T) {
		_, err := repo.SumSales(ctx, report.AggregateFilter{})
		assert.ErrorIs(t, err, errUnscopedFilter)
	})
}

func TestGormLedgerRepository_SumRevenuesAndExpenses(t *testing.T) {
	db := setupTestDB(t)
	fx := seedLedger(t, db)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()

	received, err := repo.SumRevenues(ctx, january(report.SingleTenant(fx.alpha)), ledger.RevenueStatusReceived)
	require.NoError(t, err)
	assert.Equal(t, "250.50", received.Amount.StringFixed(2))
	assert.Equal(t, int64(1), received.Count)

	paid, err := repo.SumExpenses(ctx, january(report.SingleTenant(fx.alpha)), ledger.ExpenseStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, "1030.25", paid.Amount.StringFixed(2))
	assert.Equal(t, int64(4), paid.Count)

	pending, err := repo.SumExpenses(ctx, january(report.SingleTenant(fx.alpha)), ledger.ExpenseStatusPending)
	require.NoError(t, err)
	assert.Equal(t, "80.00", pending.Amount.StringFixed(2))
	assert.Equal(t, int64(1), pending.Count)
}

func TestGormLedgerRepository_ExpensesByCategory(t *testing.T) {
	db := setupTestDB(t)
	fx := seedLedger(t, db)
	repo := NewGormLedgerRepository(db)

	got, err := repo.ExpensesByCategory(context.Background(), january(report.SingleTenant(fx.alpha)), ledger.ExpenseStatusPaid)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Aluguel", got[0].Category)
	assert.Equal(t, "#ff0000", got[0].Color)
	assert.Equal(t, "500.00", got[0].Amount.StringFixed(2))
	assert.Equal(t, int64(2), got[0].Count)

	assert.Equal(t, "Marketing Digital", got[1].Category)
	assert.Equal(t, "500.00", got[1].Amount.StringFixed(2))

	assert.Equal(t, ledger.UncategorizedLabel, got[2].Category)
	assert.Equal(t, ledger.UncategorizedColor, got[2].Color)
	assert.Equal(t, "30.25", got[2].Amount.StringFixed(2))
}

func TestGormLedgerRepository_ExpensesByCategory_SameName(t *testing.T) {
	db := setupTestDB(t)
	fx := seedLedger(t, db)
	repo := NewGormLedgerRepository(db)

	other := &models.CategoryModel{Name: "Aluguel", Kind: ledger.CategoryKindExpense, Color: "#aa0000"}
	require.NoError(t, db.Create(other).Error)
	require.NoError(t, db.Create(&models.ExpenseModel{
		TenantID: fx.alpha, CategoryID: &other.ID, DueDate: date(2026, 1, 20), Amount: money("50"), Status: ledger.ExpenseStatusPaid,
	}).Error)

	got, err := repo.ExpensesByCategory(context.Background(), january(report.SingleTenant(fx.alpha)), ledger.ExpenseStatusPaid)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "Aluguel", got[0].Category)
	assert.Equal(t, "#ff0000", got[0].Color)
	assert.Equal(t, "550.00", got[0].Amount.StringFixed(2))
	assert.Equal(t, int64(3), got[0].Count)
}

func TestGormLedgerRepository_SumByTenant(t *testing.T) {
	db := setupTestDB(t)
	fx := seedLedger(t, db)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()
	all := report.AggregateFilter{Scope: report.AllActiveTenants()}

	sales, err := repo.SumSalesByTenant(ctx, all, ledger.SaleStatusPaid)
	require.NoError(t, err)
	assert.Len(t, sales, 2)
	assert.Equal(t, "1300.50", sales[fx.alpha].StringFixed(2))
	assert.Equal(t, "200.00", sales[fx.beta].StringFixed(2))
	assert.NotContains(t, sales, fx.closed)

	revenues, err := repo.SumRevenuesByTenant(ctx, all, ledger.RevenueStatusReceived)
	require.NoError(t, err)
	assert.Equal(t, "250.50", revenues[fx.alpha].StringFixed(2))
	assert.Equal(t, "75.00", revenues[fx.beta].StringFixed(2))

	expenses, err := repo.SumExpensesByTenant(ctx, all, ledger.ExpenseStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, "1030.25", expenses[fx.alpha].StringFixed(2))
	assert.Equal(t, "60.00", expenses[fx.beta].StringFixed(2))
}

func TestGormLedgerRepository_QueryShape(t *testing.T) {
	ctx := context.Background()
	tenantID := int64(7)

	t.Run("single tenant bucket with status filter", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormLedgerRepository(db)

		mock.ExpectQuery(`SELECT COUNT\(\*\) AS count, COALESCE\(SUM\(valor_total\), 0\) AS gross, .* FROM "vendas" ` +
			`WHERE vendas\.empresa_id = \$1 AND vendas\.data_venda >= \$2 AND vendas\.data_venda < \$3 AND vendas\.status IN \(\$4\)`).
			WithArgs(tenantID, "2026-01-01", "2026-02-01", "PAGA").
			WillReturnRows(sqlmock.NewRows([]string{"count", "gross", "discount", "chargeback", "chargeback_reversal"}).
				AddRow(3, "900.00", "10.00", "0", "0"))

		agg, err := repo.SumSales(ctx, january(report.SingleTenant(tenantID)), ledger.SaleStatusPaid)
		require.NoError(t, err)
		assert.Equal(t, int64(3), agg.Count)
		assert.Equal(t, "900.00", agg.Gross.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("consolidated scope uses the active tenant subquery", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormLedgerRepository(db)

		mock.ExpectQuery(`FROM "despesas" WHERE despesas\.empresa_id IN \(SELECT id FROM empresas WHERE ativa = \$1\)`).
			WithArgs(true).
			WillReturnRows(sqlmock.NewRows([]string{"amount", "count"}).AddRow("42.00", 2))

		got, err := repo.SumExpenses(ctx, report.AggregateFilter{Scope: report.AllActiveTenants()})
		require.NoError(t, err)
		assert.Equal(t, "42.00", got.Amount.StringFixed(2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store errors are wrapped", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormLedgerRepository(db)
		boom := errors.New("connection reset")

		mock.ExpectQuery(`FROM "receitas"`).WillReturnError(boom)

		_, err := repo.SumRevenues(ctx, report.AggregateFilter{Scope: report.SingleTenant(tenantID), From: time.Now()})
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "sum receitas")
	})
}
