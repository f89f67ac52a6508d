package persistence

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gestor/backend/internal/domain/ledger"
	"github.com/gestor/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with the ledger schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// newMockDB creates a postgres-dialect GORM DB backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ledgerFixture is a small bookkeeping data set shared by repository tests
type ledgerFixture struct {
	alpha, beta, closed int64
	rent, ads           int64
}

func seedLedger(t *testing.T, db *gorm.DB) ledgerFixture {
	t.Helper()
	var fx ledgerFixture

	tenants := []*models.TenantModel{
		{Name: "Beta Comercio", CNPJ: "22222222000122", Active: true},
		{Name: "Alfa Servicos", CNPJ: "11111111000111", Active: true},
		{Name: "Gama Encerrada", CNPJ: "33333333000133", Active: false},
	}
	for _, tm := range tenants {
		require.NoError(t, db.Create(tm).Error)
	}
	// GORM skips zero-value bools on insert and applies the column default
	require.NoError(t, db.Model(tenants[2]).Update("ativa", false).Error)
	fx.beta, fx.alpha, fx.closed = tenants[0].ID, tenants[1].ID, tenants[2].ID

	rent := &models.CategoryModel{Name: "Aluguel", Kind: ledger.CategoryKindExpense, Color: "#ff0000"}
	ads := &models.CategoryModel{Name: "Marketing Digital", Kind: ledger.CategoryKindExpense, Color: "#00ff00"}
	require.NoError(t, db.Create(rent).Error)
	require.NoError(t, db.Create(ads).Error)
	fx.rent, fx.ads = rent.ID, ads.ID

	users := []*models.UserModel{
		{Email: "a1@alfa.com", Role: "ADMIN_EMPRESA", TenantID: &fx.alpha, Active: true},
		{Email: "a2@alfa.com", Role: "USUARIO_EMPRESA", TenantID: &fx.alpha, Active: true},
		{Email: "a3@alfa.com", Role: "USUARIO_EMPRESA", TenantID: &fx.alpha, Active: true},
		{Email: "b1@beta.com", Role: "ADMIN_EMPRESA", TenantID: &fx.beta, Active: true},
		{Email: "chefe@gestor.com", Role: "ADMIN_CHEFE", Active: true},
	}
	for _, u := range users {
		require.NoError(t, db.Create(u).Error)
	}
	require.NoError(t, db.Model(users[2]).Update("is_active", false).Error)

	sales := []models.SaleModel{
		{TenantID: fx.alpha, SaleDate: date(2026, 1, 5), Gross: money("1000.50"), Discount: money("50.25"), Chargeback: money("20"), ChargebackReversal: money("5"), Status: ledger.SaleStatusPaid},
		{TenantID: fx.alpha, SaleDate: date(2026, 1, 31), Gross: money("500"), Status: ledger.SaleStatusPending},
		{TenantID: fx.alpha, SaleDate: date(2026, 2, 1), Gross: money("300"), Status: ledger.SaleStatusPaid},
		{TenantID: fx.beta, SaleDate: date(2026, 1, 10), Gross: money("200"), Status: ledger.SaleStatusPaid},
		{TenantID: fx.closed, SaleDate: date(2026, 1, 10), Gross: money("9999"), Status: ledger.SaleStatusPaid},
	}
	require.NoError(t, db.Create(&sales).Error)

	revenues := []models.RevenueModel{
		{TenantID: fx.alpha, ExpectedDate: date(2026, 1, 15), Amount: money("250.50"), Status: ledger.RevenueStatusReceived},
		{TenantID: fx.alpha, ExpectedDate: date(2026, 1, 20), Amount: money("100"), Status: ledger.RevenueStatusExpected},
		{TenantID: fx.beta, ExpectedDate: date(2026, 1, 15), Amount: money("75"), Status: ledger.RevenueStatusReceived},
	}
	require.NoError(t, db.Create(&revenues).Error)

	expenses := []models.ExpenseModel{
		{TenantID: fx.alpha, CategoryID: &fx.rent, DueDate: date(2026, 1, 10), Amount: money("400"), Status: ledger.ExpenseStatusPaid},
		{TenantID: fx.alpha, CategoryID: &fx.rent, DueDate: date(2026, 1, 25), Amount: money("100"), Status: ledger.ExpenseStatusPaid},
		{TenantID: fx.alpha, CategoryID: &fx.ads, DueDate: date(2026, 1, 12), Amount: money("500"), Status: ledger.ExpenseStatusPaid},
		{TenantID: fx.alpha, DueDate: date(2026, 1, 12), Amount: money("30.25"), Status: ledger.ExpenseStatusPaid},
		{TenantID: fx.alpha, CategoryID: &fx.ads, DueDate: date(2026, 1, 28), Amount: money("80"), Status: ledger.ExpenseStatusPending},
		{TenantID: fx.beta, CategoryID: &fx.rent, DueDate: date(2026, 1, 10), Amount: money("60"), Status: ledger.ExpenseStatusPaid},
	}
	require.NoError(t, db.Create(&expenses).Error)

	return fx
}
