package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseCategory string

const (
	ExpenseParts        ExpenseCategory = "parts_materials"      // materiais aplicados
	ExpenseThirdParty   ExpenseCategory = "third_party_services" // serviços de terceiros
	ExpenseSalaries     ExpenseCategory = "salaries"
	ExpenseCommissions  ExpenseCategory = "commissions"
	ExpenseAdvances     ExpenseCategory = "advances" // adiantamentos
	ExpenseRent         ExpenseCategory = "rent"     // ocupação (aluguel/cond.)
	ExpenseUtilities    ExpenseCategory = "utilities"
	ExpenseMarketing    ExpenseCategory = "marketing"
	ExpenseFuel         ExpenseCategory = "fuel"
	ExpenseBankFees     ExpenseCategory = "bank_fees"
	ExpenseTaxesAndFees ExpenseCategory = "taxes_fees"
	ExpenseOther        ExpenseCategory = "other"
)

// Expense: despesa lançada pela oficina. A despesa em si é só o fato gerador;
// o compromisso de caixa vive na conta a pagar (direta ou fatura de cartão).
type Expense struct {
	ID       uint `gorm:"primaryKey"`
	TenantID uint `gorm:"index;not null"`
	Tenant   Tenant

	Date        time.Time       `gorm:"index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	Category    ExpenseCategory `gorm:"size:30;not null;index"`
	Description string          `gorm:"size:255"`

	// Quando lançada no cartão, entra na fatura do ciclo em vez de gerar
	// conta a pagar própria.
	CardID *uint `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Advance: pagamento adiantado de comissão a um funcionário. Abate do saldo
// líquido da comissão do mês em que foi pago.
type Advance struct {
	ID       uint `gorm:"primaryKey"`
	TenantID uint `gorm:"index;not null"`
	Tenant   Tenant

	EmployeeID  *uint           `gorm:"index"`
	Amount      decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	PaymentDate time.Time       `gorm:"index;not null"`
	Description string          `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
