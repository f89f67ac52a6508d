package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/gestor/backend/internal/domain/ledger"
	"github.com/gestor/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// sqlDate is the layout of date bounds sent to the store.
// DATE columns are compared against the calendar date of each bound.
const sqlDate = "2006-01-02"

// activeTenantsSubquery restricts rows to tenants that are active right now
const activeTenantsSubquery = "empresa_id IN (SELECT id FROM empresas WHERE ativa = ?)"

var errUnscopedFilter = errors.New("aggregate filter has no tenant scope")

// ledgerTable describes where one record kind lives
type ledgerTable struct {
	name       string
	dateColumn string
	amount     string
}

var (
	salesTable    = ledgerTable{name: "vendas", dateColumn: "data_venda", amount: "valor_total"}
	revenuesTable = ledgerTable{name: "receitas", dateColumn: "data_prevista", amount: "valor"}
	expensesTable = ledgerTable{name: "despesas", dateColumn: "data_vencimento", amount: "valor"}
)

// GormLedgerRepository implements report.LedgerReader using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// SumSales returns the count and amount sums of sales
func (r *GormLedgerRepository) SumSales(ctx context.Context, f report.AggregateFilter, statuses ...ledger.SaleStatus) (report.SalesAggregate, error) {
	var row struct {
		Count              int64
		Gross              decimal.Decimal
		Discount           decimal.Decimal
		Chargeback         decimal.Decimal
		ChargebackReversal decimal.Decimal
	}

	q, err := r.filtered(ctx, salesTable, f, statusStrings(statuses))
	if err != nil {
		return report.SalesAggregate{}, err
	}
	err = q.Select(`COUNT(*) AS count,
		COALESCE(SUM(valor_total), 0) AS gross,
		COALESCE(SUM(desconto), 0) AS discount,
		COALESCE(SUM(chargeback), 0) AS chargeback,
		COALESCE(SUM(reversao_chargeback), 0) AS chargeback_reversal`).
		Scan(&row).Error
	if err != nil {
		return report.SalesAggregate{}, fmt.Errorf("sum sales: %w", err)
	}

	return report.SalesAggregate{
		Count:              row.Count,
		Gross:              row.Gross,
		Discount:           row.Discount,
		Chargeback:         row.Chargeback,
		ChargebackReversal: row.ChargebackReversal,
	}, nil
}

// SumRevenues returns the amount sum of revenues
func (r *GormLedgerRepository) SumRevenues(ctx context.Context, f report.AggregateFilter, statuses ...ledger.RevenueStatus) (report.AmountCount, error) {
	return r.sumAmount(ctx, revenuesTable, f, statusStrings(statuses))
}

// SumExpenses returns the amount sum of expenses
func (r *GormLedgerRepository) SumExpenses(ctx context.Context, f report.AggregateFilter, statuses ...ledger.ExpenseStatus) (report.AmountCount, error) {
	return r.sumAmount(ctx, expensesTable, f, statusStrings(statuses))
}

// ExpensesByCategory returns expense sums per category, largest first.
// Expenses without a category are grouped under ledger.UncategorizedLabel.
// Categories sharing a name form one row colored with the greatest color code.
func (r *GormLedgerRepository) ExpensesByCategory(ctx context.Context, f report.AggregateFilter, statuses ...ledger.ExpenseStatus) ([]report.CategoryAmount, error) {
	var rows []struct {
		Category string
		Color    string
		Amount   decimal.Decimal
		Count    int64
	}

	q, err := r.filtered(ctx, expensesTable, f, statusStrings(statuses))
	if err != nil {
		return nil, err
	}
	err = q.Joins("LEFT JOIN categorias ON categorias.id = despesas.categoria_id").
		Select(`COALESCE(categorias.nome, ?) AS category,
			COALESCE(MAX(categorias.cor), ?) AS color,
			COALESCE(SUM(despesas.valor), 0) AS amount,
			COUNT(*) AS count`, ledger.UncategorizedLabel, ledger.UncategorizedColor).
		Group("categorias.nome").
		Order("amount DESC, category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}

	out := make([]report.CategoryAmount, 0, len(rows))
	for _, row := range rows {
		out = append(out, report.CategoryAmount{
			Category: row.Category,
			Color:    row.Color,
			Amount:   row.Amount,
			Count:    row.Count,
		})
	}
	return out, nil
}

// SumSalesByTenant returns gross sale sums keyed by tenant id
func (r *GormLedgerRepository) SumSalesByTenant(ctx context.Context, f report.AggregateFilter, statuses ...ledger.SaleStatus) (map[int64]decimal.Decimal, error) {
	return r.sumByTenant(ctx, salesTable, f, statusStrings(statuses))
}

// SumRevenuesByTenant returns revenue sums keyed by tenant id
func (r *GormLedgerRepository) SumRevenuesByTenant(ctx context.Context, f report.AggregateFilter, statuses ...ledger.RevenueStatus) (map[int64]decimal.Decimal, error) {
	return r.sumByTenant(ctx, revenuesTable, f, statusStrings(statuses))
}

// SumExpensesByTenant returns expense sums keyed by tenant id
func (r *GormLedgerRepository) SumExpensesByTenant(ctx context.Context, f report.AggregateFilter, statuses ...ledger.ExpenseStatus) (map[int64]decimal.Decimal, error) {
	return r.sumByTenant(ctx, expensesTable, f, statusStrings(statuses))
}

func (r *GormLedgerRepository) sumAmount(ctx context.Context, t ledgerTable, f report.AggregateFilter, statuses []string) (report.AmountCount, error) {
	var row struct {
		Amount decimal.Decimal
		Count  int64
	}

	q, err := r.filtered(ctx, t, f, statuses)
	if err != nil {
		return report.AmountCount{}, err
	}
	err = q.Select(fmt.Sprintf("COALESCE(SUM(%s), 0) AS amount, COUNT(*) AS count", t.amount)).
		Scan(&row).Error
	if err != nil {
		return report.AmountCount{}, fmt.Errorf("sum %s: %w", t.name, err)
	}
	return report.AmountCount{Amount: row.Amount, Count: row.Count}, nil
}

func (r *GormLedgerRepository) sumByTenant(ctx context.Context, t ledgerTable, f report.AggregateFilter, statuses []string) (map[int64]decimal.Decimal, error) {
	var rows []struct {
		TenantID int64
		Amount   decimal.Decimal
	}

	q, err := r.filtered(ctx, t, f, statuses)
	if err != nil {
		return nil, err
	}
	err = q.Select(fmt.Sprintf("empresa_id AS tenant_id, COALESCE(SUM(%s), 0) AS amount", t.amount)).
		Group("empresa_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum %s by tenant: %w", t.name, err)
	}

	out := make(map[int64]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.TenantID] = row.Amount
	}
	return out, nil
}

// filtered builds the base query of t restricted to the filter's scope, dates and statuses
func (r *GormLedgerRepository) filtered(ctx context.Context, t ledgerTable, f report.AggregateFilter, statuses []string) (*gorm.DB, error) {
	q := r.db.WithContext(ctx).Table(t.name)

	switch {
	case f.Scope.Consolidated:
		q = q.Where(t.name+"."+activeTenantsSubquery, true)
	case f.Scope.TenantID != nil:
		q = q.Where(t.name+".empresa_id = ?", *f.Scope.TenantID)
	default:
		return nil, errUnscopedFilter
	}

	if !f.From.IsZero() {
		q = q.Where(fmt.Sprintf("%s.%s >= ?", t.name, t.dateColumn), f.From.Format(sqlDate))
	}
	if !f.To.IsZero() {
		q = q.Where(fmt.Sprintf("%s.%s < ?", t.name, t.dateColumn), f.To.Format(sqlDate))
	}
	if len(statuses) > 0 {
		q = q.Where(t.name+".status IN ?", statuses)
	}
	return q, nil
}

func statusStrings[S ~string](statuses []S) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
