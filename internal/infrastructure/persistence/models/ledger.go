package models

import (
	"time"

	"github.com/gestor/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// TenantModel maps the empresas table
type TenantModel struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:nome;type:varchar(200);not null"`
	LegalName string    `gorm:"column:razao_social;type:varchar(200);not null;default:''"`
	CNPJ      string    `gorm:"column:cnpj;type:varchar(14);not null;uniqueIndex"`
	Email     string    `gorm:"column:email;type:varchar(254);not null;default:''"`
	Active    bool      `gorm:"column:ativa;not null;default:true"`
	CreatedAt time.Time `gorm:"column:criado_em;not null"`
	UpdatedAt time.Time `gorm:"column:atualizado_em;not null"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "empresas"
}

// ToDomain converts the persistence model to a domain Tenant
func (m *TenantModel) ToDomain() *ledger.Tenant {
	return &ledger.Tenant{
		ID:        m.ID,
		Name:      m.Name,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}

// UserModel maps the usuarios table. Only the columns the reports read are mapped.
type UserModel struct {
	ID        int64     `gorm:"primaryKey"`
	Email     string    `gorm:"column:email;type:varchar(254);not null;uniqueIndex"`
	FirstName string    `gorm:"column:first_name;type:varchar(150);not null;default:''"`
	LastName  string    `gorm:"column:last_name;type:varchar(150);not null;default:''"`
	Role      string    `gorm:"column:tipo_usuario;type:varchar(20);not null;default:'USUARIO_EMPRESA'"`
	TenantID  *int64    `gorm:"column:empresa_id;index"`
	Active    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:criado_em;not null"`
	UpdatedAt time.Time `gorm:"column:atualizado_em;not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "usuarios"
}

// CategoryModel maps the categorias table. Categories are global, not per tenant.
type CategoryModel struct {
	ID          int64               `gorm:"primaryKey"`
	Name        string              `gorm:"column:nome;type:varchar(100);not null"`
	Description string              `gorm:"column:descricao;type:text;not null;default:''"`
	Kind        ledger.CategoryKind `gorm:"column:tipo;type:varchar(10);not null;default:'DESPESA'"`
	Active      bool                `gorm:"column:ativa;not null;default:true"`
	Color       string              `gorm:"column:cor;type:varchar(7);not null;default:'#1976d2'"`
	Order       int                 `gorm:"column:ordem;not null;default:0"`
	CreatedAt   time.Time           `gorm:"column:criado_em;not null"`
	UpdatedAt   time.Time           `gorm:"column:atualizado_em;not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categorias"
}

// SaleModel maps the vendas table
type SaleModel struct {
	ID                 int64             `gorm:"primaryKey"`
	TenantID           int64             `gorm:"column:empresa_id;not null;index:idx_vendas_empresa_data"`
	SaleDate           time.Time         `gorm:"column:data_venda;type:date;not null;index:idx_vendas_empresa_data"`
	PaidAt             *time.Time        `gorm:"column:data_pagamento;type:date"`
	Gross              decimal.Decimal   `gorm:"column:valor_total;type:numeric(12,2);not null"`
	Discount           decimal.Decimal   `gorm:"column:desconto;type:numeric(12,2);not null;default:0"`
	Chargeback         decimal.Decimal   `gorm:"column:chargeback;type:numeric(12,2);not null;default:0"`
	ChargebackReversal decimal.Decimal   `gorm:"column:reversao_chargeback;type:numeric(12,2);not null;default:0"`
	PaymentMethod      string            `gorm:"column:forma_pagamento;type:varchar(20);not null;default:'OUTROS'"`
	Status             ledger.SaleStatus `gorm:"column:status;type:varchar(15);not null;default:'PENDENTE'"`
	CreatedAt          time.Time         `gorm:"column:criado_em;not null"`
	UpdatedAt          time.Time         `gorm:"column:atualizado_em;not null"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "vendas"
}

// RevenueModel maps the receitas table
type RevenueModel struct {
	ID            int64                `gorm:"primaryKey"`
	TenantID      int64                `gorm:"column:empresa_id;not null;index:idx_receitas_empresa_data"`
	CategoryID    *int64               `gorm:"column:categoria_id"`
	Description   string               `gorm:"column:descricao;type:varchar(200);not null;default:''"`
	Amount        decimal.Decimal      `gorm:"column:valor;type:numeric(12,2);not null"`
	ExpectedDate  time.Time            `gorm:"column:data_prevista;type:date;not null;index:idx_receitas_empresa_data"`
	ReceivedAt    *time.Time           `gorm:"column:data_recebimento;type:date"`
	PaymentMethod string               `gorm:"column:forma_recebimento;type:varchar(20);not null;default:'OUTROS'"`
	Status        ledger.RevenueStatus `gorm:"column:status;type:varchar(15);not null;default:'PENDENTE'"`
	CreatedAt     time.Time            `gorm:"column:criado_em;not null"`
	UpdatedAt     time.Time            `gorm:"column:atualizado_em;not null"`
}

// TableName returns the table name for GORM
func (RevenueModel) TableName() string {
	return "receitas"
}

// ExpenseModel maps the despesas table
type ExpenseModel struct {
	ID            int64                `gorm:"primaryKey"`
	TenantID      int64                `gorm:"column:empresa_id;not null;index:idx_despesas_empresa_data"`
	CategoryID    *int64               `gorm:"column:categoria_id"`
	Description   string               `gorm:"column:descricao;type:varchar(200);not null;default:''"`
	Amount        decimal.Decimal      `gorm:"column:valor;type:numeric(12,2);not null"`
	DueDate       time.Time            `gorm:"column:data_vencimento;type:date;not null;index:idx_despesas_empresa_data"`
	PaidAt        *time.Time           `gorm:"column:data_pagamento;type:date"`
	PaymentMethod string               `gorm:"column:forma_pagamento;type:varchar(20);not null;default:'OUTROS'"`
	Status        ledger.ExpenseStatus `gorm:"column:status;type:varchar(15);not null;default:'PENDENTE'"`
	CreatedAt     time.Time            `gorm:"column:criado_em;not null"`
	UpdatedAt     time.Time            `gorm:"column:atualizado_em;not null"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "despesas"
}

// All returns every model, in dependency order, for AutoMigrate in local setups and tests
func All() []any {
	return []any{
		&TenantModel{},
		&UserModel{},
		&CategoryModel{},
		&SaleModel{},
		&RevenueModel{},
		&ExpenseModel{},
	}
}
