package ledger

// SaleStatus is the settlement state of a sale
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "PENDENTE"
	SaleStatusPaid      SaleStatus = "PAGA"
	SaleStatusCancelled SaleStatus = "CANCELADA"
)

// RevenueStatus is the settlement state of a non-sale income entry
type RevenueStatus string

const (
	RevenueStatusExpected  RevenueStatus = "PENDENTE"
	RevenueStatusReceived  RevenueStatus = "RECEBIDA"
	RevenueStatusOverdue   RevenueStatus = "VENCIDA"
	RevenueStatusCancelled RevenueStatus = "CANCELADA"
)

// ExpenseStatus is the settlement state of an expense
type ExpenseStatus string

const (
	ExpenseStatusPending   ExpenseStatus = "PENDENTE"
	ExpenseStatusPaid      ExpenseStatus = "PAGA"
	ExpenseStatusOverdue   ExpenseStatus = "VENCIDA"
	ExpenseStatusCancelled ExpenseStatus = "CANCELADA"
)

// CategoryKind tells whether a category labels expenses or revenues
type CategoryKind string

const (
	CategoryKindExpense CategoryKind = "DESPESA"
	CategoryKindRevenue CategoryKind = "RECEITA"
)

const (
	// DefaultCategoryColor is assigned to categories created without a color
	DefaultCategoryColor = "#1976d2"
	// UncategorizedLabel groups expenses that have no category
	UncategorizedLabel = "Sem categoria"
	// UncategorizedColor is the display color of UncategorizedLabel
	UncategorizedColor = "#9e9e9e"
)
